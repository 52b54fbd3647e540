// Package main implements the job-tracker CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/mikey/job-tracker/internal/adapters/jsonstore"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/di"
)

var (
	// cliFlags holds the persistent flags shared by every subcommand
	cliFlags = &di.CLIFlags{}
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "job-tracker",
	Short: "Track job applications from recruiting email",
	Long: `job-tracker reads recruiting email, works out which company and position
each message is about and whether it means Interview, Rejected or Pending,
then merges everything into one row per application.

Mail can be harvested over IMAP (harvest), collected by the job-inbox SMTP
daemon, or supplied as a JSON file of {id, from, subject, date, content}.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cliFlags.ConfigFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&cliFlags.Verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&cliFlags.Quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().BoolVar(&cliFlags.JSONLog, "json-logs", false, "write logs as JSON")

	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(harvestCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(secretCmd)
}

// newContainer builds the CLI container from the persistent flags
func newContainer() (*dig.Container, error) {
	container, err := di.BuildCLIContainer(cliFlags)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency container: %w", err)
	}
	return container, nil
}

// invoke runs fn with dependencies from a fresh container and unwraps dig errors
func invoke(fn interface{}) error {
	container, err := newContainer()
	if err != nil {
		return err
	}
	return dig.RootCause(container.Invoke(fn))
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// loadMailbox reads the demo mailbox or a JSON file
func loadMailbox(path string, demo bool) ([]core.RawEmail, error) {
	if demo {
		return jsonstore.Decode(demoMailbox())
	}
	emails, err := jsonstore.NewStore(path).Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("mailbox %s not found (run `job-tracker harvest` or use --demo)", path)
	}
	return emails, err
}
