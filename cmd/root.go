// Package cmd provides the root command and CLI setup for mutate.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"mutate.dev/pkg/mutate/internal/adapter"
	"mutate.dev/pkg/mutate/internal/controller"
	"mutate.dev/pkg/mutate/internal/domain"
)

var goFileAdapter adapter.GoFileAdapter
var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var testAdapter adapter.TestRunnerAdapter
var metrics adapter.MetricsAdapter
var orchestrator domain.Orchestrator
var mutagen domain.Mutagen
var workflow domain.Workflow

// newUI builds the UI a command prints through.
var newUI = func(cmd *cobra.Command) controller.UI {
	return controller.NewSimpleUI(cmd)
}

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	goFileAdapter = adapter.NewLocalGoFileAdapter()
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	testAdapter = adapter.NewLocalTestRunnerAdapter()
	metrics = adapter.NewPrometheusMetricsAdapter()
	orchestrator = domain.NewOrchestrator(fsAdapter, testAdapter)
	mutagen = domain.NewMutagen(goFileAdapter, fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, metrics, orchestrator, mutagen)
}

const configHelp = `Campaigns are configured in ` + configFileName + ` (or MUTATE_* environment
variables). Each bucket pairs files, or glob patterns relative to the project
root, with a level and the operators to apply:

  buckets:
    - level: UNIT
      files: ["*.go"]
      operators: [arithmetic, relational, logical]
    - level: INT
      files: [service.go]
  targets:
    parameter_swap: [Transfer]
    call_deletion: [audit]`

const rootLongDescription = `Mutate is a mutation testing tool for Go. It injects single faults into
your sources, runs your test suite against each of them in an isolated copy
of the project and reports how many the suite detected.

` + configHelp

const runLongDescription = `Run the configured mutation campaign and save its report.

` + configHelp

const listLongDescription = `List the number of mutants per file and operator without running tests.

` + configHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mutate",
		Short:        "Go mutation testing tool",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			defaultReportsDir,
			"output directory for mutation testing reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "log file path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	if err != nil {
		os.Exit(1)
	}
}
