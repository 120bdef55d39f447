package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/agentx-labs/devboot/internal/config"
	"github.com/agentx-labs/devboot/internal/manifest"
	"github.com/agentx-labs/devboot/internal/templates"
	"github.com/spf13/cobra"
)

// workspace is what every bootstrap command resolves from flags and config
// before doing any work.
type workspace struct {
	dir          string
	manifest     *manifest.Manifest
	manifestFrom string
	templates    fs.FS
	templatesDir string // override directory, "" for built-in only
	editor       string
}

// resolveWorkspace applies the precedence flag > config > default for the
// project directory, manifest and template override directory.
func resolveWorkspace(projectDir, manifestPath, templatesDir string) (*workspace, error) {
	dir, err := resolveProjectDir(projectDir)
	if err != nil {
		return nil, err
	}

	if manifestPath == "" {
		manifestPath = config.ManifestPath()
	}
	m, from, err := manifest.Resolve(manifestPath, dir)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}

	if templatesDir == "" {
		templatesDir = config.TemplatesDir()
	}
	fsys, err := templates.New(templatesDir)
	if err != nil {
		return nil, err
	}

	ed := m.Editor
	if ed == "" {
		ed = config.Editor()
	}

	return &workspace{
		dir:          dir,
		manifest:     m,
		manifestFrom: from,
		templates:    fsys,
		templatesDir: templatesDir,
		editor:       ed,
	}, nil
}

func resolveProjectDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", abs)
	}
	return abs, nil
}

// signalContext returns the command context, cancelled on Ctrl-C so running
// editor and probe processes are stopped.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
