package editor

import (
	"context"
	"fmt"

	"github.com/agentx-labs/devboot/internal/report"
)

// ExtensionInstaller checks for and installs editor extensions.
type ExtensionInstaller interface {
	IsInstalled(id string) bool
	Install(id string) Result
}

// Result is the outcome of installing one extension.
type Result struct {
	ID     string
	Err    error
	Output string // Combined CLI output, trimmed
}

// OK reports whether the install succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Summary tallies an InstallAll run.
type Summary struct {
	Installed []string
	Skipped   []string
	Failed    []Result
}

// Total returns the number of extensions processed.
func (s *Summary) Total() int {
	return len(s.Installed) + len(s.Skipped) + len(s.Failed)
}

// InstallAll installs every id that is not already installed. A failed
// install is recorded and the loop moves on; only context cancellation stops
// it early, in which case the partial summary is returned with ctx.Err().
func InstallAll(ctx context.Context, inst ExtensionInstaller, ids []string, rep *report.Reporter) (*Summary, error) {
	if rep == nil {
		rep = report.New(nil)
	}
	sum := &Summary{}
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sum, fmt.Errorf("installing extensions: %w", err)
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		if inst.IsInstalled(id) {
			rep.Skip("%s already installed", id)
			sum.Skipped = append(sum.Skipped, id)
			continue
		}

		res := inst.Install(id)
		if res.ID == "" {
			res.ID = id
		}
		if !res.OK() {
			rep.Fail("%s: %v", id, res.Err)
			sum.Failed = append(sum.Failed, res)
			continue
		}
		rep.OK("%s installed", id)
		sum.Installed = append(sum.Installed, id)
	}

	return sum, nil
}
