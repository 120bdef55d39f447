package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Full(t *testing.T) {
	m, err := Load(testPath("valid-full.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Editor != "codium" {
		t.Errorf("Editor = %q, want %q", m.Editor, "codium")
	}
	if len(m.Extensions) != 2 || m.Extensions[1] != "ms-python.python" {
		t.Errorf("Extensions = %v", m.Extensions)
	}
	if len(m.Merge) != 1 || m.Merge[0].Target != ".vscode/settings.json" {
		t.Errorf("Merge = %+v", m.Merge)
	}
	if len(m.Copy) != 1 || m.Copy[0].Template != "root/editorconfig" {
		t.Errorf("Copy = %+v", m.Copy)
	}
	if len(m.Prerequisites) != 3 {
		t.Fatalf("expected 3 prerequisites, got %d", len(m.Prerequisites))
	}
	if args := m.Prerequisites[2].VersionArgs; len(args) != 1 || args[0] != "version" {
		t.Errorf("Prerequisites[2].VersionArgs = %v", args)
	}
	if m.Prerequisites[0].Version != ">= 1.80.0" {
		t.Errorf("Prerequisites[0].Version = %q", m.Prerequisites[0].Version)
	}
	if !m.Prerequisites[1].Optional {
		t.Error("expected git prerequisite to be optional")
	}
	if len(m.Gitignore) != 2 || m.Gitignore[1] != "*.local.json" {
		t.Errorf("Gitignore = %v", m.Gitignore)
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(testPath("invalid-absolute-target.yaml"))
	var invalid *InvalidError
	if !errors.As(err, &invalid) {
		t.Fatalf("Load() error = %v, want *InvalidError", err)
	}
	if !strings.Contains(err.Error(), "/merge/0/target") {
		t.Errorf("error should mention the failing path, got: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/" + FileName); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestDefault(t *testing.T) {
	m := Default()
	if len(m.Extensions) == 0 {
		t.Error("default manifest should list extensions")
	}
	targets := map[string]bool{}
	for _, e := range m.Merge {
		targets[e.Target] = true
	}
	for _, want := range []string{".vscode/settings.json", ".vscode/tasks.json", ".vscode/launch.json"} {
		if !targets[want] {
			t.Errorf("default manifest does not merge %s", want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		m, src, err := Resolve(testPath("valid-full.yaml"), t.TempDir())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if src != testPath("valid-full.yaml") || m.Editor != "codium" {
			t.Errorf("Resolve() = %q, editor %q", src, m.Editor)
		}
	})

	t.Run("project manifest", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, FileName), []byte("extensions: [golang.go]\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		m, src, err := Resolve("", dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if src != filepath.Join(dir, FileName) {
			t.Errorf("source = %q", src)
		}
		if len(m.Extensions) != 1 || m.Extensions[0] != "golang.go" {
			t.Errorf("Extensions = %v", m.Extensions)
		}
	})

	t.Run("falls back to default", func(t *testing.T) {
		m, src, err := Resolve("", t.TempDir())
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if src != "built-in default" || len(m.Merge) == 0 {
			t.Errorf("Resolve() = %q with %d merges", src, len(m.Merge))
		}
	})
}

func TestUniqueExtensions(t *testing.T) {
	m := &Manifest{Extensions: []string{"golang.go", "Golang.Go", "eamodio.gitlens", "golang.go"}}
	got := m.UniqueExtensions()
	if len(got) != 2 || got[0] != "golang.go" || got[1] != "eamodio.gitlens" {
		t.Errorf("UniqueExtensions() = %v", got)
	}
}
