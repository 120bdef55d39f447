package cli

import (
	"encoding/json"
	"fmt"

	"github.com/agentx-labs/devboot/internal/branding"
	"github.com/agentx-labs/devboot/internal/config"
	"github.com/agentx-labs/devboot/internal/manifest"
	"github.com/agentx-labs/devboot/internal/templates"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the build plus what this binary bootstraps with when the
// project does not say otherwise.
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Editor    string `json:"editor"`
	Manifest  string `json:"manifest"`
	Templates int    `json:"templates"`
}

func currentVersion() (versionInfo, error) {
	names, err := templates.List(templates.Embedded())
	if err != nil {
		return versionInfo{}, err
	}
	return versionInfo{
		Version:   buildVersion,
		Commit:    buildCommit,
		Date:      buildDate,
		Editor:    config.Editor(),
		Manifest:  manifest.FileName,
		Templates: len(names),
	}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the build version together with the editor CLI, manifest file name
and number of built-in templates this binary uses by default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, buildVersion)
			return nil
		}

		info, err := currentVersion()
		if err != nil {
			return err
		}

		if versionJSON {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling version info: %w", err)
			}
			fmt.Fprintln(w, string(out))
			return nil
		}

		fmt.Fprintf(w, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(w, "  editor: %s, manifest: %s, built-in templates: %d\n", info.Editor, info.Manifest, info.Templates)
		return nil
	},
}
