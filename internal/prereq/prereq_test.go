package prereq

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// fakeTool writes an executable that prints output for --version and puts
// its directory first on PATH.
func fakeTool(t *testing.T, name, output string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are POSIX shell scripts")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\nprintf '%s\\n' \"" + output + "\"\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output  string
		want    string
		wantErr bool
	}{
		{"1.95.3\n1a2b3c\nx64\n", "1.95.3", false},
		{"git version 2.43.0", "2.43.0", false},
		{"go version go1.22.1 linux/amd64", "1.22.1", false},
		{"tool 3.1", "3.1.0", false},
		{"no digits here", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			v, err := ParseVersion(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersion(%q) expected error, got %v", tt.output, v)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) error = %v", tt.output, err)
			}
			if v.String() != tt.want {
				t.Errorf("ParseVersion(%q) = %s, want %s", tt.output, v, tt.want)
			}
		})
	}
}

func TestCheck_Missing(t *testing.T) {
	st := Check(context.Background(), Requirement{Name: "definitely-not-installed-xyz"})
	if st.State != StateMissing {
		t.Errorf("State = %q, want %q", st.State, StateMissing)
	}
	if !st.Fatal() {
		t.Error("missing required binary should be fatal")
	}

	st = Check(context.Background(), Requirement{Name: "definitely-not-installed-xyz", Optional: true})
	if st.Fatal() {
		t.Error("missing optional binary should not be fatal")
	}
}

func TestCheck_Constraint(t *testing.T) {
	fakeTool(t, "fake-code", "1.95.3")

	tests := []struct {
		constraint string
		want       State
		fatal      bool
	}{
		{"", StateOK, false},
		{">= 1.80.0", StateOK, false},
		{"^1.90", StateOK, false},
		{">= 2.0.0", StateOutdated, true},
		{"not a constraint", StateInvalid, true},
	}
	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			st := Check(context.Background(), Requirement{Name: "fake-code", Constraint: tt.constraint})
			if st.State != tt.want {
				t.Errorf("State = %q, want %q (err %v)", st.State, tt.want, st.Err)
			}
			if st.Fatal() != tt.fatal {
				t.Errorf("Fatal() = %v, want %v", st.Fatal(), tt.fatal)
			}
			if tt.constraint != "" && tt.want == StateOK && st.Version != "1.95.3" {
				t.Errorf("Version = %q, want 1.95.3", st.Version)
			}
		})
	}
}

func TestCheck_UnparsableVersion(t *testing.T) {
	fakeTool(t, "fake-weird", "weird build")

	st := Check(context.Background(), Requirement{Name: "fake-weird", Constraint: ">= 1.0.0"})
	if st.State != StateUnknown {
		t.Errorf("State = %q, want %q", st.State, StateUnknown)
	}
	if st.Fatal() {
		t.Error("unknown version should only warn")
	}
}

func TestCheck_VersionArg(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are POSIX shell scripts")
	}
	dir := t.TempDir()
	script := "#!/bin/sh\nif [ \"$1\" = version ]; then echo 'go version go1.22.1 linux/amd64'; else exit 2; fi\n"
	if err := os.WriteFile(filepath.Join(dir, "fake-go"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))

	st := Check(context.Background(), Requirement{Name: "fake-go", Constraint: ">= 1.22", VersionArg: []string{"version"}})
	if st.State != StateOK || st.Version != "1.22.1" {
		t.Errorf("Check() = %+v, want ok at 1.22.1", st)
	}

	st = Check(context.Background(), Requirement{Name: "fake-go", Constraint: ">= 1.22"})
	if st.State != StateUnknown {
		t.Errorf("--version probe State = %q, want %q", st.State, StateUnknown)
	}
}
