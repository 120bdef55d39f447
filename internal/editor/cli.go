package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds a single editor CLI invocation. Marketplace installs
// can be slow on cold caches.
const DefaultTimeout = 3 * time.Minute

// waitDelay bounds how long a killed editor may hold its output pipes open.
const waitDelay = 2 * time.Second

// CLI is an ExtensionInstaller backed by an editor binary that understands
// --list-extensions and --install-extension.
type CLI struct {
	Binary  string
	Force   bool // pass --force to reinstall or update
	Timeout time.Duration
	// Context, when set, cancels a running editor process.
	Context context.Context

	once      sync.Once
	installed map[string]bool
	listErr   error
}

// NewCLI returns a CLI for binary (e.g. "code").
func NewCLI(binary string) *CLI {
	return &CLI{Binary: binary, Timeout: DefaultTimeout}
}

// Available reports whether the binary can be found.
func (c *CLI) Available() error {
	if _, err := exec.LookPath(c.Binary); err != nil {
		return fmt.Errorf("editor CLI %q not found in PATH: %w", c.Binary, err)
	}
	return nil
}

// List returns the installed extension ids as reported by the editor.
func (c *CLI) List() ([]string, error) {
	out, err := c.run("--list-extensions")
	if err != nil {
		return nil, fmt.Errorf("listing extensions: %w", err)
	}
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// ListErr returns the error from the cached extension listing, if any.
// IsInstalled treats a failed listing as "nothing installed".
func (c *CLI) ListErr() error {
	c.load()
	return c.listErr
}

// IsInstalled reports whether id is installed. The listing is fetched once
// per CLI and ids compare case-insensitively. With Force set, nothing counts
// as installed.
func (c *CLI) IsInstalled(id string) bool {
	if c.Force {
		return false
	}
	c.load()
	return c.installed[strings.ToLower(id)]
}

// Install installs id through the editor CLI.
func (c *CLI) Install(id string) Result {
	args := []string{"--install-extension", id}
	if c.Force {
		args = append(args, "--force")
	}
	out, err := c.run(args...)
	res := Result{ID: id, Output: out}
	if err != nil {
		res.Err = err
		return res
	}

	c.load()
	c.installed[strings.ToLower(id)] = true
	return res
}

func (c *CLI) load() {
	c.once.Do(func() {
		c.installed = make(map[string]bool)
		ids, err := c.List()
		if err != nil {
			c.listErr = err
			return
		}
		for _, id := range ids {
			c.installed[strings.ToLower(id)] = true
		}
	})
}

// run executes the editor binary and returns trimmed combined output. A
// non-zero exit is an error carrying the output.
func (c *CLI) run(args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	cmd.WaitDelay = waitDelay
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	out := strings.TrimSpace(buf.String())
	if err != nil {
		if perr := parent.Err(); perr != nil {
			return out, fmt.Errorf("%s %s: %w", c.Binary, strings.Join(args, " "), perr)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out, fmt.Errorf("%s %s timed out after %s", c.Binary, strings.Join(args, " "), timeout)
		}
		if out != "" {
			return out, fmt.Errorf("%s %s: %w\n%s", c.Binary, strings.Join(args, " "), err, out)
		}
		return out, fmt.Errorf("%s %s: %w", c.Binary, strings.Join(args, " "), err)
	}
	return out, nil
}
