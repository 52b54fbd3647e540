package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/factory"
	"github.com/mikey/job-tracker/internal/logging"
)

// CLIFlags contains the persistent command line flags shared by every subcommand
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	JSONLog    bool
}

// BuildCLIContainer creates the dependency injection container for the CLI.
// Commands resolve the factories they need with Invoke.
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.Quiet, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.New(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Debug("Loaded configuration from file", zap.String("file", used))
		}
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	// Register factories
	for _, constructor := range []interface{}{
		factory.NewTextProcessorFactory,
		factory.NewLLMFactory,
		factory.NewCacheFactory,
		factory.NewAdvisorFactory,
		factory.NewExclusionFactory,
		factory.NewTrackerFactory,
		factory.NewSourceFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return nil, err
		}
	}

	return container, nil
}
