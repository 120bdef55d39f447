package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/platform"
)

// EnsureLines appends every line in want that the text file at path does not
// already contain, creating the file if needed. Existing content is kept as
// is. It returns the lines that were (or, with dryRun, would be) added.
func EnsureLines(path string, want []string, dryRun bool) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	present := make(map[string]bool)
	for _, l := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(l)] = true
	}

	var added []string
	for _, line := range want {
		line = strings.TrimSpace(line)
		if line == "" || present[line] {
			continue
		}
		present[line] = true
		added = append(added, line)
	}
	if len(added) == 0 || dryRun {
		return added, nil
	}

	// Ensure there's a newline before our addition.
	out := string(content)
	if len(out) > 0 && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	out += strings.Join(added, "\n") + "\n"

	path = platform.ResolveLink(path)
	perm := platform.ModeOf(path, platform.FilePermDefault)
	if err := platform.WriteFileAtomic(path, []byte(out), perm); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", jsonmerge.ErrWriteFailure, path, err)
	}
	return added, nil
}
