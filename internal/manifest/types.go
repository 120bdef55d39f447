package manifest

// FileName is the manifest file looked up in the project root.
const FileName = "devboot.yaml"

// Manifest describes one workspace bootstrap.
type Manifest struct {
	// Editor names the editor CLI binary. Empty means "use the configured default".
	Editor        string         `yaml:"editor,omitempty"`
	Extensions    []string       `yaml:"extensions"`
	Merge         []FileEntry    `yaml:"merge"`
	Copy          []FileEntry    `yaml:"copy"`
	Prerequisites []Prerequisite `yaml:"prerequisites"`
	// Gitignore lists patterns the project's .gitignore must contain.
	Gitignore []string `yaml:"gitignore,omitempty"`
}

// FileEntry maps a template name to a project-relative target path.
type FileEntry struct {
	Template string `yaml:"template"`
	Target   string `yaml:"target"`
}

// Prerequisite is a binary that must be on PATH, optionally with a minimum
// version expressed as a semver constraint (e.g. ">= 1.80.0").
type Prerequisite struct {
	Name     string `yaml:"name"`
	Version  string `yaml:"version,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
	// VersionArgs replace --version for tools that print their version
	// another way (e.g. ["version"] for go).
	VersionArgs []string `yaml:"version_args,omitempty"`
}

// UniqueExtensions returns the extension ids with duplicates removed,
// keeping first occurrence order. Ids compare case-insensitively, matching
// how editors treat them.
func (m *Manifest) UniqueExtensions() []string {
	seen := make(map[string]bool, len(m.Extensions))
	out := make([]string, 0, len(m.Extensions))
	for _, id := range m.Extensions {
		key := lower(id)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, id)
	}
	return out
}
