package cli

import (
	"fmt"

	"github.com/agentx-labs/devboot/internal/bootstrap"
	"github.com/agentx-labs/devboot/internal/editor"
	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/agentx-labs/devboot/internal/seed"
	"github.com/spf13/cobra"
)

var (
	initProject        string
	initManifest       string
	initTemplates      string
	initSkipExtensions bool
	initSkipPrereqs    bool
	initDryRun         bool
	initForce          bool
)

func init() {
	initCmd.Flags().StringVar(&initProject, "project", "", "Project directory (default: current directory)")
	initCmd.Flags().StringVar(&initManifest, "manifest", "", "Manifest file (default: <project>/devboot.yaml, then built-in)")
	initCmd.Flags().StringVar(&initTemplates, "templates", "", "Directory whose templates override the built-in ones")
	initCmd.Flags().BoolVar(&initSkipExtensions, "skip-extensions", false, "Do not install editor extensions")
	initCmd.Flags().BoolVar(&initSkipPrereqs, "skip-prereqs", false, "Do not check prerequisite tools")
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Report what would change without writing or installing")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinstall extensions that are already installed")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Bootstrap the project workspace",
	Long: `Check prerequisites, install the manifest's editor extensions, merge the
editor configuration templates into the project and seed starter files.

Existing settings always win: a merge only adds keys the project file does not
define, and seeded files are never overwritten. A project file that is not
valid JSON stops the run and is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := resolveWorkspace(initProject, initManifest, initTemplates)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		out := report.New(cmd.OutOrStdout())
		out.Printf("Bootstrapping %s (manifest: %s)\n", ws.dir, ws.manifestFrom)
		if initDryRun {
			out.Printf("Dry run: nothing will be written or installed.\n")
		}

		cli := editor.NewCLI(ws.editor)
		cli.Force = initForce

		rep, err := bootstrap.Run(ctx, bootstrap.Options{
			ProjectDir:     ws.dir,
			Templates:      ws.templates,
			Manifest:       ws.manifest,
			Editor:         ws.editor,
			Installer:      cli,
			SkipPrereqs:    initSkipPrereqs,
			SkipExtensions: initSkipExtensions,
			DryRun:         initDryRun,
			Out:            out,
		})
		if err != nil {
			return err
		}

		printSummary(out, rep)
		return nil
	},
}

func printSummary(out *report.Reporter, rep *bootstrap.Report) {
	changed := 0
	for _, f := range rep.Files {
		switch f.Action {
		case string(jsonmerge.ActionCreated), string(jsonmerge.ActionMerged), string(seed.ActionCopied):
			changed++
		}
	}
	msg := fmt.Sprintf("\nDone: %d of %d files changed", changed, len(rep.Files))
	if rep.Warnings > 0 {
		msg += fmt.Sprintf(", %d warning(s)", rep.Warnings)
	}
	out.Printf("%s.\n", msg)
}
