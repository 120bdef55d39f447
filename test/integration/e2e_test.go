//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/devboot/internal/bootstrap"
	"github.com/agentx-labs/devboot/internal/editor"
	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/manifest"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/agentx-labs/devboot/internal/templates"
)

func defaultOptions(env *testEnv, out *bytes.Buffer) bootstrap.Options {
	return bootstrap.Options{
		ProjectDir: env.ProjectDir,
		Templates:  templates.Embedded(),
		Manifest:   manifest.Default(),
		Editor:     "code",
		Installer:  editor.NewCLI("code"),
		Out:        report.New(out),
	}
}

// TestFullFlowFreshWorkspace runs the default bootstrap on an empty project:
// prerequisites -> extensions -> merges -> copies.
func TestFullFlowFreshWorkspace(t *testing.T) {
	env := setupTestEnv(t)
	var out bytes.Buffer

	rep, err := bootstrap.Run(context.Background(), defaultOptions(env, &out))
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out.String())
	}

	// Step 1: every default extension was installed through the editor CLI.
	want := manifest.Default().UniqueExtensions()
	got := installedExtensions(t, env)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("installed = %v, want %v", got, want)
	}
	if len(rep.Extensions.Failed) != 0 {
		t.Errorf("unexpected failures: %+v", rep.Extensions.Failed)
	}

	// Step 2: merged targets are verbatim copies of their templates.
	for _, entry := range manifest.Default().Merge {
		data := readTemplate(t, entry.Template)
		assertFileEquals(t, filepath.Join(env.ProjectDir, entry.Target), data)
	}

	// Step 3: starter files were seeded.
	for _, entry := range manifest.Default().Copy {
		assertFileExists(t, filepath.Join(env.ProjectDir, entry.Target))
	}
	assertFileContains(t, filepath.Join(env.ProjectDir, ".editorconfig"), "root = true")
}

// TestSecondRunChangesNothing re-runs the bootstrap on a finished workspace.
func TestSecondRunChangesNothing(t *testing.T) {
	env := setupTestEnv(t)
	var out bytes.Buffer

	if _, err := bootstrap.Run(context.Background(), defaultOptions(env, &out)); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	before := len(installedExtensions(t, env))

	out.Reset()
	rep, err := bootstrap.Run(context.Background(), defaultOptions(env, &out))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if after := len(installedExtensions(t, env)); after != before {
		t.Errorf("second run installed %d more extensions", after-before)
	}
	if n := len(rep.Extensions.Skipped); n != before {
		t.Errorf("skipped = %d, want %d", n, before)
	}
	for _, f := range rep.Files {
		if f.Action != string(jsonmerge.ActionUnchanged) && f.Action != "skipped" {
			t.Errorf("%s: action %q on second run", f.Target, f.Action)
		}
	}
}

// TestUserSettingsArePreserved checks that existing keys win over the
// template and the user's unrelated keys survive.
func TestUserSettingsArePreserved(t *testing.T) {
	env := setupTestEnv(t)
	settings := filepath.Join(env.ProjectDir, ".vscode", "settings.json")
	writeFile(t, settings, `{"editor.tabSize": 8, "my.custom": "keep"}`)
	knowledge := filepath.Join(env.ProjectDir, "KNOWLEDGE.md")
	writeFile(t, knowledge, "# Ours\n")

	opts := defaultOptions(env, &bytes.Buffer{})
	opts.SkipExtensions = true
	if _, err := bootstrap.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	assertFileContains(t, settings, `"editor.tabSize": 8`)
	assertFileContains(t, settings, `"my.custom": "keep"`)
	assertFileContains(t, settings, `"files.insertFinalNewline": true`)
	assertFileEquals(t, knowledge, "# Ours\n")
}

// TestInvalidSettingsStopTheRun leaves a commented settings file alone and
// does not seed anything after it.
func TestInvalidSettingsStopTheRun(t *testing.T) {
	env := setupTestEnv(t)
	settings := filepath.Join(env.ProjectDir, ".vscode", "settings.json")
	original := "{\n  // tabs\n  \"editor.tabSize\": 8\n}\n"
	writeFile(t, settings, original)

	opts := defaultOptions(env, &bytes.Buffer{})
	opts.SkipExtensions = true
	_, err := bootstrap.Run(context.Background(), opts)
	if !errors.Is(err, jsonmerge.ErrInvalidTargetJSON) {
		t.Fatalf("Run error = %v, want ErrInvalidTargetJSON", err)
	}

	assertFileEquals(t, settings, original)
	assertFileNotExists(t, filepath.Join(env.ProjectDir, ".vscode", "tasks.json"))
	assertFileNotExists(t, filepath.Join(env.ProjectDir, "KNOWLEDGE.md"))
}

// TestTemplateOverrideDir serves one template from an override directory and
// the rest from the embedded set.
func TestTemplateOverrideDir(t *testing.T) {
	env := setupTestEnv(t)
	override := t.TempDir()
	writeFile(t, filepath.Join(override, "vscode", "settings.json"), "{\n  \"team.setting\": true\n}\n")

	fsys, err := templates.New(override)
	if err != nil {
		t.Fatalf("templates.New: %v", err)
	}
	opts := defaultOptions(env, &bytes.Buffer{})
	opts.SkipExtensions = true
	opts.Templates = fsys
	if _, err := bootstrap.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run: %v", err)
	}

	assertFileEquals(t, filepath.Join(env.ProjectDir, ".vscode", "settings.json"), "{\n  \"team.setting\": true\n}\n")
	assertFileEquals(t, filepath.Join(env.ProjectDir, ".vscode", "tasks.json"), readTemplate(t, "vscode/tasks.json"))
}

func readTemplate(t *testing.T, name string) string {
	t.Helper()
	var buf bytes.Buffer
	f, err := templates.Embedded().Open(name)
	if err != nil {
		t.Fatalf("opening template %s: %v", name, err)
	}
	defer f.Close()
	if _, err := buf.ReadFrom(f); err != nil {
		t.Fatalf("reading template %s: %v", name, err)
	}
	return buf.String()
}
