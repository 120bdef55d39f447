// Package seed copies plain template files into a workspace without ever
// overwriting a file the user already has.
package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/platform"
)

// ErrTemplateUnavailable is shared with jsonmerge so one policy check covers
// both merge and copy steps.
var ErrTemplateUnavailable = jsonmerge.ErrTemplateUnavailable

// Action describes what CopyIfAbsent did.
type Action string

const (
	ActionCopied  Action = "copied"
	ActionSkipped Action = "skipped" // target already exists
)

// CopyIfAbsent copies the template name from fsys to dst when dst does not
// exist. Parent directories are created as needed. With dryRun set it only
// reports what would happen.
func CopyIfAbsent(fsys fs.FS, name, dst string, dryRun bool) (Action, error) {
	if _, err := os.Lstat(dst); err == nil {
		return ActionSkipped, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", dst, err)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateUnavailable, name, err)
	}

	if dryRun {
		return ActionCopied, nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), platform.DirPermDefault); err != nil {
		return "", fmt.Errorf("%w: creating directory for %s: %v", jsonmerge.ErrWriteFailure, dst, err)
	}
	if err := platform.WriteFileAtomic(dst, data, platform.FilePermDefault); err != nil {
		return "", fmt.Errorf("%w: %s: %v", jsonmerge.ErrWriteFailure, dst, err)
	}

	return ActionCopied, nil
}
