package cli

import (
	"github.com/agentx-labs/devboot/internal/bootstrap"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/spf13/cobra"
)

var (
	seedProject   string
	seedManifest  string
	seedTemplates string
	seedDryRun    bool
)

func init() {
	seedCmd.Flags().StringVar(&seedProject, "project", "", "Project directory (default: current directory)")
	seedCmd.Flags().StringVar(&seedManifest, "manifest", "", "Manifest file (default: <project>/devboot.yaml, then built-in)")
	seedCmd.Flags().StringVar(&seedTemplates, "templates", "", "Directory whose templates override the built-in ones")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Merge configuration templates and copy starter files",
	Long: `Run only the file steps of init: merge each JSON template into its target
and copy starter files that do not exist yet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := resolveWorkspace(seedProject, seedManifest, seedTemplates)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		out := report.New(cmd.OutOrStdout())
		rep := &bootstrap.Report{}
		err = bootstrap.ApplyFiles(ctx, bootstrap.Options{
			ProjectDir: ws.dir,
			Templates:  ws.templates,
			Manifest:   ws.manifest,
			DryRun:     seedDryRun,
			Out:        out,
		}, rep)
		if err != nil {
			return err
		}
		printSummary(out, rep)
		return nil
	},
}
