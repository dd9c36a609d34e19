package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	m "mutate.dev/pkg/mutate/internal/model"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default mutate.yaml configuration file",
		Long: `Create a mutate.yaml in the current working directory populated with the
current CLI defaults and a starter bucket per level so it can be edited manually.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			config, err := starterConfig()
			if err != nil {
				return err
			}

			if err := config.SafeWriteConfigAs(targetPath); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			return nil
		},
	}
}

// starterConfig copies the effective settings into a separate instance so the
// starter buckets never leak into the running configuration.
func starterConfig() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.MergeConfigMap(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("copy settings: %w", err)
	}

	if !viper.IsSet(bucketsKey) {
		v.Set(bucketsKey, []map[string]any{
			{"level": string(m.LevelUnit), "files": []string{"*.go"}},
			{"level": string(m.LevelIntegration), "files": []string{"*.go"}},
		})
	}

	if !viper.IsSet(targetsKey) {
		v.Set(targetsKey, map[string]any{
			"parameter_swap": []string{},
			"call_deletion":  []string{},
		})
	}

	return v, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
