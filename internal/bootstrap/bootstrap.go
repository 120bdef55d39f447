package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/devboot/internal/editor"
	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/manifest"
	"github.com/agentx-labs/devboot/internal/prereq"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/agentx-labs/devboot/internal/seed"
)

// Options configures a run. It replaces the path environment variables a
// shell bootstrapper would read.
type Options struct {
	ProjectDir string
	Templates  fs.FS
	Manifest   *manifest.Manifest
	// Editor is the editor CLI binary; it is checked as an implicit
	// prerequisite unless extensions are skipped.
	Editor    string
	Installer editor.ExtensionInstaller

	SkipPrereqs    bool
	SkipExtensions bool
	SkipFiles      bool
	DryRun         bool

	Out *report.Reporter

	// Check defaults to prereq.Check.
	Check func(context.Context, prereq.Requirement) prereq.Status
}

// FileOutcome records what happened to one merge or copy target.
type FileOutcome struct {
	Template string
	Target   string
	Action   string // jsonmerge.Action or seed.Action value
	Added    []string
}

// Report summarizes a run.
type Report struct {
	Prereqs    []prereq.Status
	Extensions *editor.Summary
	Files      []FileOutcome
	// Unavailable lists templates that were skipped because they could not be read.
	Unavailable []string
	// Ignored lists the patterns appended to .gitignore.
	Ignored  []string
	Warnings int
}

// Run executes every enabled step in order and stops at the first fatal error.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	rep := &Report{}

	if !opts.SkipPrereqs {
		if err := CheckPrereqs(ctx, opts, rep); err != nil {
			return rep, err
		}
	}
	if !opts.SkipExtensions {
		if err := InstallExtensions(ctx, opts, rep); err != nil {
			return rep, err
		}
	}
	if !opts.SkipFiles {
		if err := ApplyFiles(ctx, opts, rep); err != nil {
			return rep, err
		}
	}

	return rep, nil
}

func (o *Options) validate() error {
	if o.ProjectDir == "" {
		return errors.New("project directory is required")
	}
	if o.Manifest == nil {
		return errors.New("manifest is required")
	}
	if o.Templates == nil && !o.SkipFiles {
		return errors.New("template filesystem is required")
	}
	if o.Installer == nil && !o.SkipExtensions {
		return errors.New("extension installer is required")
	}
	o.defaults()
	return nil
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = report.New(nil)
	}
	if o.Check == nil {
		o.Check = prereq.Check
	}
}

// Requirements returns the prerequisites for opts: the manifest's list plus
// the editor CLI when extensions will be installed and it is not listed.
func Requirements(opts Options) []prereq.Requirement {
	var reqs []prereq.Requirement
	listed := false
	for _, p := range opts.Manifest.Prerequisites {
		if p.Name == opts.Editor {
			listed = true
		}
		reqs = append(reqs, prereq.Requirement{
			Name:       p.Name,
			Constraint: p.Version,
			Optional:   p.Optional,
			VersionArg: p.VersionArgs,
		})
	}
	if !listed && !opts.SkipExtensions && opts.Editor != "" {
		reqs = append([]prereq.Requirement{{Name: opts.Editor}}, reqs...)
	}
	return reqs
}

// CheckPrereqs verifies every requirement and fails on the first fatal one
// after reporting all of them.
func CheckPrereqs(ctx context.Context, opts Options, rep *Report) error {
	if opts.Manifest == nil {
		return errors.New("manifest is required")
	}
	opts.defaults()
	out := opts.Out
	out.Section("Prerequisites")

	var fatal []string
	for _, req := range Requirements(opts) {
		st := opts.Check(ctx, req)
		rep.Prereqs = append(rep.Prereqs, st)

		switch {
		case st.State == prereq.StateOK && st.Version != "":
			out.OK("%s %s found at %s", req.Name, st.Version, st.Path)
		case st.State == prereq.StateOK:
			out.OK("%s found at %s", req.Name, st.Path)
		case st.Fatal():
			out.Fail("%v", st.Err)
			fatal = append(fatal, req.Name)
		case st.State == prereq.StateMissing:
			out.Miss("%s not found (optional)", req.Name)
			rep.Warnings++
		default:
			out.Warn("%v", st.Err)
			rep.Warnings++
		}
	}

	if len(fatal) > 0 {
		return fmt.Errorf("prerequisite check failed: %s", strings.Join(fatal, ", "))
	}
	return nil
}

// InstallExtensions installs the manifest's extensions. Individual failures
// are warnings; only cancellation is returned as an error.
func InstallExtensions(ctx context.Context, opts Options, rep *Report) error {
	if opts.Manifest == nil || opts.Installer == nil {
		return errors.New("manifest and extension installer are required")
	}
	opts.defaults()
	out := opts.Out
	out.Section("Extensions")

	ids := opts.Manifest.UniqueExtensions()
	if len(ids) == 0 {
		out.Info("No extensions declared")
		rep.Extensions = &editor.Summary{}
		return nil
	}

	if cli, ok := opts.Installer.(*editor.CLI); ok {
		cli.Context = ctx
		if err := cli.ListErr(); err != nil {
			out.Warn("could not list installed extensions: %v", err)
			rep.Warnings++
		}
	}

	if opts.DryRun {
		sum := &editor.Summary{}
		for _, id := range ids {
			if opts.Installer.IsInstalled(id) {
				out.Skip("%s already installed", id)
				sum.Skipped = append(sum.Skipped, id)
				continue
			}
			out.Info("would install %s", id)
			sum.Installed = append(sum.Installed, id)
		}
		rep.Extensions = sum
		return nil
	}

	sum, err := editor.InstallAll(ctx, opts.Installer, ids, out)
	rep.Extensions = sum
	if err != nil {
		return err
	}
	rep.Warnings += len(sum.Failed)
	out.Printf("  %d installed, %d already present, %d failed\n",
		len(sum.Installed), len(sum.Skipped), len(sum.Failed))
	return nil
}

// ApplyFiles merges the manifest's JSON templates, seeds its plain files and
// appends missing .gitignore patterns. It returns on the first fatal error.
func ApplyFiles(ctx context.Context, opts Options, rep *Report) error {
	if opts.Manifest == nil || opts.Templates == nil || opts.ProjectDir == "" {
		return errors.New("manifest, templates and project directory are required")
	}
	opts.defaults()
	out := opts.Out
	out.Section("Workspace files")

	for _, entry := range opts.Manifest.Merge {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := resolveTarget(opts.ProjectDir, entry.Target)
		if err != nil {
			out.Fail("%v", err)
			return err
		}

		res, err := jsonmerge.MergeFile(opts.Templates, entry.Template, target, jsonmerge.Options{DryRun: opts.DryRun})
		if err != nil {
			if !jsonmerge.IsFatal(err) {
				out.Warn("%s: template %s unavailable, skipped", entry.Target, entry.Template)
				rep.Unavailable = append(rep.Unavailable, entry.Template)
				rep.Warnings++
				continue
			}
			out.Fail("%s: %v", entry.Target, err)
			return fmt.Errorf("%s left unchanged: %w", entry.Target, err)
		}

		rep.Files = append(rep.Files, FileOutcome{
			Template: entry.Template,
			Target:   entry.Target,
			Action:   string(res.Action),
			Added:    res.Added,
		})
		ReportMerge(out, entry.Target, res)
	}

	for _, entry := range opts.Manifest.Copy {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := resolveTarget(opts.ProjectDir, entry.Target)
		if err != nil {
			out.Fail("%v", err)
			return err
		}

		action, err := seed.CopyIfAbsent(opts.Templates, entry.Template, target, opts.DryRun)
		if err != nil {
			if !jsonmerge.IsFatal(err) {
				out.Warn("%s: template %s unavailable, skipped", entry.Target, entry.Template)
				rep.Unavailable = append(rep.Unavailable, entry.Template)
				rep.Warnings++
				continue
			}
			out.Fail("%s: %v", entry.Target, err)
			return fmt.Errorf("seeding %s: %w", entry.Target, err)
		}

		rep.Files = append(rep.Files, FileOutcome{
			Template: entry.Template,
			Target:   entry.Target,
			Action:   string(action),
		})
		switch {
		case action == seed.ActionSkipped:
			out.Skip("%s exists", entry.Target)
		case opts.DryRun:
			out.Info("would copy %s", entry.Target)
		default:
			out.OK("copied %s", entry.Target)
		}
	}

	if len(opts.Manifest.Gitignore) > 0 {
		added, err := seed.EnsureLines(filepath.Join(opts.ProjectDir, ".gitignore"), opts.Manifest.Gitignore, opts.DryRun)
		if err != nil {
			out.Fail(".gitignore: %v", err)
			return fmt.Errorf("updating .gitignore: %w", err)
		}
		rep.Ignored = added
		ReportIgnored(out, added, opts.DryRun)
	}

	return nil
}

// ReportIgnored prints the status line for the .gitignore step.
func ReportIgnored(out *report.Reporter, added []string, dryRun bool) {
	switch {
	case len(added) == 0:
		out.Skip(".gitignore up to date")
	case dryRun:
		out.Info(".gitignore would get %s", strings.Join(added, ", "))
	default:
		out.OK(".gitignore: added %s", strings.Join(added, ", "))
	}
}

// ReportMerge prints the status line for one merge result.
func ReportMerge(out *report.Reporter, target string, res *jsonmerge.Result) {
	verb := string(res.Action)
	if res.DryRun && res.Action != jsonmerge.ActionUnchanged {
		verb = "would be " + verb
	}
	switch res.Action {
	case jsonmerge.ActionUnchanged:
		out.Skip("%s up to date", target)
	case jsonmerge.ActionMerged:
		line := fmt.Sprintf("%s %s (+%d %s)", target, verb, len(res.Added), plural(len(res.Added), "key", "keys"))
		if res.DryRun {
			out.Info("%s", line)
		} else {
			out.OK("%s", line)
		}
	default:
		if res.DryRun {
			out.Info("%s %s", target, verb)
		} else {
			out.OK("%s %s", target, verb)
		}
	}
}

// resolveTarget joins a manifest target onto the project directory and
// rejects paths that would land outside it.
func resolveTarget(projectDir, target string) (string, error) {
	if target == "" || filepath.IsAbs(target) {
		return "", fmt.Errorf("target %q must be a relative path", target)
	}
	full := filepath.Join(projectDir, filepath.FromSlash(target))
	rel, err := filepath.Rel(projectDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("target %q escapes the project directory", target)
	}
	return full, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
