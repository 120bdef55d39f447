package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/agentx-labs/devboot/internal/bootstrap"
	"github.com/agentx-labs/devboot/internal/editor"
	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/manifest"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/agentx-labs/devboot/internal/seed"
	"github.com/agentx-labs/devboot/internal/templates"
	"github.com/spf13/cobra"
)

var (
	doctorProject     string
	doctorManifest    string
	doctorTemplates   string
	doctorSkipPrereqs bool
)

func init() {
	doctorCmd.Flags().StringVar(&doctorProject, "project", "", "Project directory (default: current directory)")
	doctorCmd.Flags().StringVar(&doctorManifest, "manifest", "", "Manifest file (default: <project>/devboot.yaml, then built-in)")
	doctorCmd.Flags().StringVar(&doctorTemplates, "templates", "", "Directory whose templates override the built-in ones")
	doctorCmd.Flags().BoolVar(&doctorSkipPrereqs, "skip-prereqs", false, "Do not check prerequisite tools")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the workspace without changing it",
	Long: `Run the checks init depends on without writing or installing anything:
prerequisite tools, the manifest, template availability, the state of each
merge target and the installed editor extensions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := report.New(cmd.OutOrStdout())

		ws, err := resolveWorkspace(doctorProject, doctorManifest, doctorTemplates)
		if err != nil {
			var invalid *manifest.InvalidError
			if errors.As(err, &invalid) {
				out.Section("Manifest")
				out.Fail("%v", invalid)
			}
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		problems := 0
		opts := bootstrap.Options{
			ProjectDir: ws.dir,
			Templates:  ws.templates,
			Manifest:   ws.manifest,
			Editor:     ws.editor,
			Out:        out,
		}

		if !doctorSkipPrereqs {
			if err := bootstrap.CheckPrereqs(ctx, opts, &bootstrap.Report{}); err != nil {
				problems++
			}
		}

		out.Section("Manifest")
		out.OK("%s is valid (%d extensions, %d merges, %d copies)", ws.manifestFrom,
			len(ws.manifest.UniqueExtensions()), len(ws.manifest.Merge), len(ws.manifest.Copy))

		if err := listTemplates(out, ws); err != nil {
			problems++
		}
		problems += checkMergeTargets(out, ws)
		checkCopyTargets(out, ws)
		checkInstalledExtensions(ctx, out, ws)

		if problems > 0 {
			return fmt.Errorf("doctor found %d problem(s)", problems)
		}
		return nil
	},
}

func listTemplates(out *report.Reporter, ws *workspace) error {
	out.Section("Templates")
	names, err := templates.List(ws.templates)
	if err != nil {
		out.Fail("%v", err)
		return err
	}
	source := "built-in"
	if ws.templatesDir != "" {
		source = ws.templatesDir + " over built-in"
	}
	out.OK("%d templates available (%s)", len(names), source)
	for _, name := range names {
		out.Printf("      %s\n", name)
	}
	return nil
}

// checkMergeTargets dry-runs every merge and returns the number that would
// abort init.
func checkMergeTargets(out *report.Reporter, ws *workspace) int {
	out.Section("Merge targets")
	problems := 0
	for _, entry := range ws.manifest.Merge {
		target := filepath.Join(ws.dir, filepath.FromSlash(entry.Target))
		res, err := jsonmerge.MergeFile(ws.templates, entry.Template, target, jsonmerge.Options{DryRun: true})
		switch {
		case err == nil:
			bootstrap.ReportMerge(out, entry.Target, res)
		case !jsonmerge.IsFatal(err):
			out.Miss("%s: template %s unavailable", entry.Target, entry.Template)
		default:
			out.Fail("%s: %v", entry.Target, err)
			problems++
		}
	}
	return problems
}

func checkCopyTargets(out *report.Reporter, ws *workspace) {
	out.Section("Starter files")
	for _, entry := range ws.manifest.Copy {
		if _, err := fs.Stat(ws.templates, entry.Template); err != nil {
			out.Miss("%s: template %s unavailable", entry.Target, entry.Template)
			continue
		}
		target := filepath.Join(ws.dir, filepath.FromSlash(entry.Target))
		if _, err := os.Lstat(target); err == nil {
			out.Skip("%s exists", entry.Target)
		} else {
			out.Info("%s would be copied", entry.Target)
		}
	}
	if len(ws.manifest.Gitignore) > 0 {
		added, err := seed.EnsureLines(filepath.Join(ws.dir, ".gitignore"), ws.manifest.Gitignore, true)
		if err != nil {
			out.Warn("%v", err)
			return
		}
		bootstrap.ReportIgnored(out, added, true)
	}
}

func checkInstalledExtensions(ctx context.Context, out *report.Reporter, ws *workspace) {
	out.Section("Extensions")
	ids := ws.manifest.UniqueExtensions()
	if len(ids) == 0 {
		out.Info("No extensions declared")
		return
	}

	cli := editor.NewCLI(ws.editor)
	cli.Context = ctx
	if err := cli.Available(); err != nil {
		out.Warn("%v; extension check skipped", err)
		return
	}
	if err := cli.ListErr(); err != nil {
		out.Warn("%v", err)
		return
	}
	for _, id := range ids {
		if cli.IsInstalled(id) {
			out.OK("%s installed", id)
		} else {
			out.Miss("%s not installed", id)
		}
	}
}
