package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"mutate.dev/pkg/mutate/internal/domain"
	m "mutate.dev/pkg/mutate/internal/model"
)

// mergeCmd represents the merge command.
var mergeCmd = newMergeCmd()

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <report>...",
		Short: "Merge sharded reports into a single report",
		Long:  "Merge the reports of runs started with --shard into one report saved in the output directory.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			reports := make([]m.Report, 0, len(args))

			for _, arg := range args {
				report, err := reportStore.LoadReport(ctx, m.Path(arg))
				if err != nil {
					return err
				}

				reports = append(reports, report)
			}

			merged, err := domain.MergeReports(m.NewCampaignID(), reports...)
			if err != nil {
				return err
			}

			ui := newUI(cmd)
			if err := ui.DisplayReport(ctx, merged); err != nil {
				return err
			}

			path, err := reportStore.SaveReport(ctx, m.Path(viper.GetString(outputFlagName)), merged)
			if err != nil {
				return err
			}

			ui.DisplayReportSaved(ctx, path)

			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
