package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"mutate.dev/pkg/mutate/internal/domain"
	m "mutate.dev/pkg/mutate/internal/model"
)

var runParallelFlag int
var runShardFlag string
var runTimeoutFlag int64
var runMetricsFileFlag string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run mutation testing",
		Long:  runLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			campaign, err := loadCampaign()
			if err != nil {
				return err
			}

			shardIndex, totalShards := parseShardFlag(runShardFlag)
			campaign.Shard = m.Shard{Index: shardIndex, Count: totalShards}

			startedAt := time.Now()

			results, err := workflow.Run(ctx, campaign)
			if err != nil {
				if errors.Is(err, domain.ErrNoBuckets) {
					return fmt.Errorf("%w: add buckets to %s", err, configFileName)
				}

				return err
			}

			report := m.Report{
				CampaignID: campaign.ID,
				Root:       campaign.Root,
				StartedAt:  startedAt,
				Summary:    domain.Summarize(results),
				Results:    results,
			}

			ui := newUI(cmd)
			if err := ui.DisplayReport(ctx, report); err != nil {
				return err
			}

			path, err := reportStore.SaveReport(ctx, m.Path(viper.GetString(outputFlagName)), report)
			if err != nil {
				return err
			}

			ui.DisplayReportSaved(ctx, path)

			if metricsFile := viper.GetString(metricsFileKey); metricsFile != "" {
				if err := metrics.WriteTextfile(m.Path(metricsFile)); err != nil {
					return err
				}

				slog.Info("Metrics written", "file", metricsFile)
			}

			return nil
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&runParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of parallel workers for mutation testing")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().Int64Var(&runTimeoutFlag, runTimeoutFlagName, defaultRunTimeout, "per-mutant test timeout in seconds (0 disables it)")
	bindFlagToConfig(cmd.Flags().Lookup(runTimeoutFlagName), runTimeoutKey)

	cmd.Flags().StringVar(&runMetricsFileFlag, metricsFileFlagName, "", "write Prometheus metrics to this file")
	bindFlagToConfig(cmd.Flags().Lookup(metricsFileFlagName), metricsFileKey)

	cmd.Flags().StringVarP(&runShardFlag, runShardFlagName, "s", "", "shard index and total shard count in the format INDEX/TOTAL (e.g., 0/3)")
}

func parseShardFlag(shard string) (int, int) {
	if shard == "" {
		return 0, 1
	}

	var index, total int

	_, err := fmt.Sscanf(shard, "%d/%d", &index, &total)
	if err != nil || total <= 0 || index < 0 || index >= total {
		return 0, 1
	}

	return index, total
}
