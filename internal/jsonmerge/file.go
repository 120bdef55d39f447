package jsonmerge

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/devboot/internal/platform"
)

// Action describes what MergeFile did (or would do) to the target.
type Action string

const (
	// ActionCreated means the target did not exist and was created from the template.
	ActionCreated Action = "created"
	// ActionMerged means template-only keys were added to an existing target.
	ActionMerged Action = "merged"
	// ActionUnchanged means the target already defines every template key.
	ActionUnchanged Action = "unchanged"
)

// Options controls MergeFile.
type Options struct {
	// DryRun computes the outcome without touching the filesystem.
	DryRun bool
}

// Result holds the outcome of a MergeFile call.
type Result struct {
	Target string
	Action Action
	// Added lists template keys that were not present in the target.
	Added  []string
	DryRun bool
}

// MergeFile merges the template named templateName in fsys into the JSON file
// at targetPath.
//
// The target is read once. It is written only after the merge succeeded and
// the output passed validation, through a temporary file renamed over the
// target. On any error the target is left byte-for-byte as it was. When the
// target already defines every template key nothing is written, so its
// formatting is kept as the user left it.
func MergeFile(fsys fs.FS, templateName, targetPath string, opts Options) (*Result, error) {
	template, err := fs.ReadFile(fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateUnavailable, templateName, err)
	}

	target, err := readTarget(targetPath)
	if err != nil {
		return nil, err
	}

	merged, err := Merge(target, template)
	if err != nil {
		return nil, fmt.Errorf("merging %s into %s: %w", templateName, targetPath, err)
	}

	added, err := AddedKeys(target, template)
	if err != nil {
		return nil, fmt.Errorf("merging %s into %s: %w", templateName, targetPath, err)
	}

	result := &Result{Target: targetPath, Added: added, DryRun: opts.DryRun}
	switch {
	case target == nil:
		result.Action = ActionCreated
	case len(added) == 0 || bytes.Equal(merged, target):
		result.Action = ActionUnchanged
		return result, nil
	default:
		result.Action = ActionMerged
	}

	if opts.DryRun {
		return result, nil
	}

	if err := writeTarget(targetPath, merged); err != nil {
		return nil, err
	}
	return result, nil
}

// MergePaths is MergeFile for a template on the local filesystem.
func MergePaths(templatePath, targetPath string, opts Options) (*Result, error) {
	dir, name := filepath.Split(templatePath)
	if dir == "" {
		dir = "."
	}
	return MergeFile(os.DirFS(dir), name, targetPath, opts)
}

// readTarget returns the target bytes, or nil when the file does not exist.
func readTarget(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading target %s: %w", path, err)
	}
	if data == nil {
		// An existing empty file is present, not absent.
		data = []byte{}
	}
	return data, nil
}

// writeTarget replaces the target. A symlinked target is written through to
// the file it points to.
func writeTarget(path string, data []byte) error {
	path = platform.ResolveLink(path)
	if err := os.MkdirAll(filepath.Dir(path), platform.DirPermDefault); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	perm := platform.ModeOf(path, platform.FilePermDefault)
	if err := platform.WriteFileAtomic(path, data, perm); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailure, path, err)
	}
	return nil
}
