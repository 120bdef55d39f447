package cli

import (
	"github.com/agentx-labs/devboot/internal/bootstrap"
	"github.com/agentx-labs/devboot/internal/jsonmerge"
	"github.com/agentx-labs/devboot/internal/report"
	"github.com/spf13/cobra"
)

var mergeDryRun bool

func init() {
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Report the result without writing the target")
	rootCmd.AddCommand(mergeCmd)
}

var mergeCmd = &cobra.Command{
	Use:   "merge <template> <target>",
	Short: "Merge one JSON template into a target file",
	Long: `Add the top-level keys of the template that the target does not define.
Target values always win. A missing target is created from the template; an
invalid target is left untouched and the command fails.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := report.New(cmd.OutOrStdout())
		res, err := jsonmerge.MergePaths(args[0], args[1], jsonmerge.Options{DryRun: mergeDryRun})
		if err != nil {
			return err
		}
		bootstrap.ReportMerge(out, args[1], res)
		if res.DryRun {
			for _, key := range res.Added {
				out.Printf("      + %s\n", key)
			}
		}
		return nil
	},
}
