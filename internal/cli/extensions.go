package cli

import (
	"fmt"

	"github.com/agentx-labs/devboot/internal/bootstrap"
	"github.com/agentx-labs/devboot/internal/editor"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/spf13/cobra"
)

var (
	extProject  string
	extManifest string
	extDryRun   bool
	extForce    bool
)

func init() {
	extensionsCmd.Flags().StringVar(&extProject, "project", "", "Project directory (default: current directory)")
	extensionsCmd.Flags().StringVar(&extManifest, "manifest", "", "Manifest file (default: <project>/devboot.yaml, then built-in)")
	extensionsCmd.Flags().BoolVar(&extDryRun, "dry-run", false, "List what would be installed")
	extensionsCmd.Flags().BoolVar(&extForce, "force", false, "Reinstall extensions that are already installed")
	rootCmd.AddCommand(extensionsCmd)
}

var extensionsCmd = &cobra.Command{
	Use:     "extensions",
	Aliases: []string{"ext"},
	Short:   "Install the manifest's editor extensions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := resolveWorkspace(extProject, extManifest, "")
		if err != nil {
			return err
		}

		cli := editor.NewCLI(ws.editor)
		cli.Force = extForce
		if err := cli.Available(); err != nil {
			return err
		}

		ctx, cancel := signalContext(cmd)
		defer cancel()

		rep := &bootstrap.Report{}
		err = bootstrap.InstallExtensions(ctx, bootstrap.Options{
			ProjectDir: ws.dir,
			Manifest:   ws.manifest,
			Editor:     ws.editor,
			Installer:  cli,
			DryRun:     extDryRun,
			Out:        report.New(cmd.OutOrStdout()),
		}, rep)
		if err != nil {
			return err
		}
		if n := len(rep.Extensions.Failed); n > 0 {
			return fmt.Errorf("%d extension(s) failed to install", n)
		}
		return nil
	},
}
