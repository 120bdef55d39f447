//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // DEVBOOT_HOME; holds config.yaml
	BinDir     string // prepended to PATH; holds the fake editor
	ProjectDir string // the workspace being bootstrapped
}

// setupTestEnv creates isolated temp directories, points DEVBOOT_HOME at one
// of them and puts a fake "code" editor CLI first on PATH. The env vars are
// restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake editor CLI is a shell script")
	}

	env := &testEnv{
		HomeDir:    t.TempDir(),
		BinDir:     t.TempDir(),
		ProjectDir: t.TempDir(),
	}

	t.Setenv("DEVBOOT_HOME", env.HomeDir)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	writeFakeEditor(t, env.BinDir)
	return env
}

// writeFakeEditor installs a "code" script that keeps its extension list in
// installed.txt next to itself.
func writeFakeEditor(t *testing.T, dir string) {
	t.Helper()
	script := `#!/bin/sh
state="$(dirname "$0")/installed.txt"
touch "$state"
case "$1" in
  --version)
    echo "1.95.3"
    echo "f1a4fb101478ce6ec82fe9627c43efbf9e98c813"
    echo "x64"
    ;;
  --list-extensions)
    cat "$state"
    ;;
  --install-extension)
    echo "$2" >> "$state"
    echo "Extension '$2' was successfully installed."
    ;;
  *)
    echo "unknown option $1" >&2
    exit 2
    ;;
esac
`
	path := filepath.Join(dir, "code")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake editor: %v", err)
	}
}

// installedExtensions returns the ids the fake editor recorded.
func installedExtensions(t *testing.T, env *testEnv) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(env.BinDir, "installed.txt"))
	if err != nil {
		t.Fatalf("reading fake editor state: %v", err)
	}
	return strings.Fields(string(data))
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}

// assertFileEquals fails if the file's contents differ from want.
func assertFileEquals(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("file %s =\n%s\nwant\n%s", path, data, want)
	}
}
