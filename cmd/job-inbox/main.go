// Package main runs the SMTP intake daemon that files forwarded recruiting
// mail into the JSON mailbox read by job-tracker.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/di"
	"github.com/mikey/job-tracker/internal/exclusion"
	"github.com/mikey/job-tracker/internal/ports"
)

var (
	configFile string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "job-inbox",
	Short: "SMTP listener that saves forwarded recruiting mail",
	Long: `job-inbox listens for SMTP on inbox.listen_address and appends every
accepted message to the JSON mailbox at inbox.store_path. Messages from
excluded senders are accepted but not stored.`,
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		container, err := di.BuildContainer(configFile)
		if err != nil {
			return fmt.Errorf("failed to build dependency container: %w", err)
		}
		return container.Invoke(run)
	},
}

func init() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to config file")
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	checker *exclusion.Checker,
	receiver ports.Receiver,
) error {
	defer logger.Sync()

	if used := cfg.GetViper().ConfigFileUsed(); used != "" {
		logger.Info("Loaded configuration from file", zap.String("file", used))
	}
	logger.Info("Exclusion rules active", zap.Int("rules", len(checker.Rules())))

	if err := receiver.Start(); err != nil {
		logger.Error("Failed to start receiver", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := receiver.Stop(); err != nil {
		logger.Error("Failed to stop receiver", zap.Error(err))
	}

	logger.Info("Shutdown complete")
	return nil
}
