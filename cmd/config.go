package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	m "mutate.dev/pkg/mutate/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "mutate"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName      = "output"
	verboseFlagName     = "verbose"
	logFileFlagName     = "log-file"
	runParallelFlagName = "parallel"
	runShardFlagName    = "shard"
	runTimeoutFlagName  = "timeout"
	metricsFileFlagName = "metrics-file"
	listDiffFlagName    = "diff"

	projectRootKey       = "project.root"
	bucketsKey           = "buckets"
	targetsKey           = "targets"
	runCommandKey        = "run.command"
	runPassCodesKey      = "run.pass_codes"
	runFailCodesKey      = "run.fail_codes"
	runErrorPatternsKey  = "run.error_patterns"
	runTimeoutKey        = "run.timeout"
	runParallelConfigKey = "run.parallel"
	runJournalDirKey     = "run.journal_dir"
	metricsFileKey       = "metrics.file"

	defaultProjectRoot = "."
	defaultReportsDir  = ".mutate-reports"
	defaultRunParallel = 1
	defaultRunTimeout  = 0

	envPrefix = "MUTATE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".mutate.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("Failed to read config", "file", configFileName, "error", err)
		}
	}
}

func setDefaults() {
	convention := m.GoTestConvention()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(projectRootKey, defaultProjectRoot)
	viper.SetDefault(runCommandKey, m.DefaultTestCommand())
	viper.SetDefault(runPassCodesKey, convention.PassCodes)
	viper.SetDefault(runFailCodesKey, convention.FailCodes)
	viper.SetDefault(runErrorPatternsKey, convention.ErrorPatterns)
	viper.SetDefault(runTimeoutKey, defaultRunTimeout)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(runJournalDirKey, "")
	viper.SetDefault(metricsFileKey, "")

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

// loadCampaign builds a campaign from the merged config, env and flags. The
// project root is made absolute so sandboxes do not depend on the working
// directory.
func loadCampaign() (m.Campaign, error) {
	root, err := filepath.Abs(viper.GetString(projectRootKey))
	if err != nil {
		return m.Campaign{}, fmt.Errorf("resolve %s: %w", projectRootKey, err)
	}

	var buckets []m.Bucket
	if err := viper.UnmarshalKey(bucketsKey, &buckets); err != nil {
		return m.Campaign{}, fmt.Errorf("invalid %s: %w", bucketsKey, err)
	}

	var targets m.Targets
	if err := viper.UnmarshalKey(targetsKey, &targets); err != nil {
		return m.Campaign{}, fmt.Errorf("invalid %s: %w", targetsKey, err)
	}

	return m.Campaign{
		ID:      m.NewCampaignID(),
		Root:    m.Path(root),
		Buckets: buckets,
		Targets: targets,
		Command: viper.GetStringSlice(runCommandKey),
		Convention: m.Convention{
			PassCodes:     viper.GetIntSlice(runPassCodesKey),
			FailCodes:     viper.GetIntSlice(runFailCodesKey),
			ErrorPatterns: viper.GetStringSlice(runErrorPatternsKey),
		},
		Timeout:    time.Duration(viper.GetInt64(runTimeoutKey)) * time.Second,
		Threads:    viper.GetInt(runParallelConfigKey),
		JournalDir: m.Path(viper.GetString(runJournalDirKey)),
	}, nil
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at the configured level; if verbose is true it logs at
// Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
