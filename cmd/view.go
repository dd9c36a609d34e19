package cmd

import (
	"github.com/spf13/cobra"
	m "mutate.dev/pkg/mutate/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <report>",
		Short: "View a previously saved mutation report",
		Long:  "Render a report written by the run or merge commands.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			report, err := reportStore.LoadReport(ctx, m.Path(args[0]))
			if err != nil {
				return err
			}

			return newUI(cmd).DisplayReport(ctx, report)
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
