package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultManifest []byte

// Default returns the embedded manifest used when a project has none.
func Default() *Manifest {
	m, err := parse(defaultManifest, "default manifest")
	if err != nil {
		// The embedded file is covered by tests; reaching this is a build defect.
		panic(err)
	}
	return m
}

// Load reads, validates and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data, path)
}

// LoadBytes validates and parses manifest data. name is used in errors.
func LoadBytes(data []byte, name string) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("validating manifest %s: %w", name, err)
	}
	if !result.Valid {
		return nil, &InvalidError{Name: name, Issues: result.Issues}
	}
	return parse(data, name)
}

// Resolve returns the manifest for a project: explicit path first, then
// <projectDir>/devboot.yaml, then the embedded default. The returned string
// describes where the manifest came from.
func Resolve(explicit, projectDir string) (*Manifest, string, error) {
	if explicit != "" {
		m, err := Load(explicit)
		return m, explicit, err
	}

	candidate := filepath.Join(projectDir, FileName)
	if _, err := os.Stat(candidate); err == nil {
		m, err := Load(candidate)
		return m, candidate, err
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, candidate, fmt.Errorf("checking %s: %w", candidate, err)
	}

	return Default(), "built-in default", nil
}

// InvalidError reports schema violations in a manifest.
type InvalidError struct {
	Name   string
	Issues []ValidationIssue
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "manifest %s has %d validation issue(s)", e.Name, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path != "" {
			fmt.Fprintf(&b, "\n  - %s: %s", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(&b, "\n  - %s", issue.Message)
		}
	}
	return b.String()
}

func parse(data []byte, name string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", name, err)
	}
	return &m, nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}

func lower(s string) string { return strings.ToLower(s) }
