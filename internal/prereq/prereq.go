// Package prereq verifies that the binaries a bootstrap depends on are on
// PATH and, when a constraint is given, recent enough.
package prereq

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// probeTimeout bounds a single "--version" invocation.
const probeTimeout = 10 * time.Second

// versionPattern matches the first dotted version in tool output, e.g.
// "1.95.3" from "1.95.3\nabc123\nx64" or "2.43.0" from "git version 2.43.0".
var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?`)

// Requirement is a binary that must be present.
type Requirement struct {
	Name       string
	Constraint string   // semver constraint such as ">= 1.80.0"; empty skips the version probe
	Optional   bool     // failures are warnings
	VersionArg []string // defaults to --version
}

// State classifies a check result.
type State string

const (
	StateOK       State = "ok"
	StateMissing  State = "missing"
	StateOutdated State = "outdated"
	StateUnknown  State = "unknown" // version could not be determined
	StateInvalid  State = "invalid" // constraint does not parse
)

// Status is the outcome of Check.
type Status struct {
	Requirement Requirement
	Path        string
	Version     string
	State       State
	Err         error
}

// Fatal reports whether the status should stop a bootstrap run. Optional
// requirements and undeterminable versions never do.
func (s Status) Fatal() bool {
	switch s.State {
	case StateInvalid:
		return true
	case StateMissing, StateOutdated:
		return !s.Requirement.Optional
	default:
		return false
	}
}

// Check locates req.Name on PATH and evaluates its version constraint.
func Check(ctx context.Context, req Requirement) Status {
	st := Status{Requirement: req}

	path, err := exec.LookPath(req.Name)
	if err != nil {
		st.State = StateMissing
		st.Err = fmt.Errorf("%s not found in PATH", req.Name)
		return st
	}
	st.Path = path

	if req.Constraint == "" {
		st.State = StateOK
		return st
	}

	constraint, err := semver.NewConstraint(req.Constraint)
	if err != nil {
		st.State = StateInvalid
		st.Err = fmt.Errorf("parsing version constraint %q for %s: %w", req.Constraint, req.Name, err)
		return st
	}

	raw, err := probeVersion(ctx, path, req.VersionArg)
	if err != nil {
		st.State = StateUnknown
		st.Err = err
		return st
	}

	v, err := ParseVersion(raw)
	if err != nil {
		st.State = StateUnknown
		st.Err = fmt.Errorf("%s: %w", req.Name, err)
		return st
	}
	st.Version = v.String()

	if !constraint.Check(v) {
		st.State = StateOutdated
		st.Err = fmt.Errorf("%s %s does not satisfy %s", req.Name, v, req.Constraint)
		return st
	}

	st.State = StateOK
	return st
}

// ParseVersion extracts the first dotted version from tool output.
func ParseVersion(output string) (*semver.Version, error) {
	match := versionPattern.FindString(output)
	if match == "" {
		return nil, fmt.Errorf("no version found in %q", firstLine(output))
	}
	v, err := semver.NewVersion(match)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", match, err)
	}
	return v, nil
}

func probeVersion(ctx context.Context, path string, args []string) (string, error) {
	if len(args) == 0 {
		args = []string{"--version"}
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s %v: %w", path, args, err)
	}
	return buf.String(), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
