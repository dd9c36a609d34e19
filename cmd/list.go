package cmd

import (
	"github.com/spf13/cobra"
)

var listDiffFlag bool

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mutation counts per file and operator",
		Long:  listLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			campaign, err := loadCampaign()
			if err != nil {
				return err
			}

			ui := newUI(cmd)

			if listDiffFlag {
				mutants, err := workflow.Estimate(ctx, campaign)
				if err != nil {
					return err
				}

				return ui.DisplayMutants(ctx, mutants)
			}

			counts, err := workflow.Count(ctx, campaign)
			if err != nil {
				return err
			}

			return ui.DisplayCounts(ctx, counts)
		},
	}

	cmd.Flags().BoolVar(&listDiffFlag, listDiffFlagName, false, "print the diff of every mutant")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
