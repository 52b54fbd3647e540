package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/job-tracker/internal/adapters/message"
	"github.com/mikey/job-tracker/internal/adapters/render"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/factory"
)

var inspectOpts struct {
	noColor bool
	suggest bool
	exclude []string
}

// inspectCmd classifies a single raw message
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show how one raw email is classified",
	Long: `Parse one RFC 5322 message (an .eml file or stdin) and print the
company, position and status the tracker reads from it, along with the
phrase that decided the status.

Examples:
  # Inspect a saved message
  job-tracker inspect offer.eml

  # Pipe a message and also ask the LLM
  cat reply.eml | job-tracker inspect - --suggest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.BoolVar(&inspectOpts.noColor, "no-color", false, "disable coloured output")
	f.BoolVar(&inspectOpts.suggest, "suggest", false, "also ask the configured LLM")
	f.StringSliceVar(&inspectOpts.exclude, "exclude", nil, "exclude senders containing this text (repeatable)")
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return content, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args)
	if err != nil {
		return err
	}

	return invoke(func(
		logger *zap.Logger,
		ef *factory.ExclusionFactory,
		tf *factory.TrackerFactory,
		af *factory.AdvisorFactory,
	) error {
		defer logger.Sync()

		email, err := message.ToRawEmail(raw, "")
		if err != nil {
			return err
		}

		checker, err := ef.CreateChecker(inspectOpts.exclude)
		if err != nil {
			return err
		}
		svc, err := tf.CreateTrackerService(checker)
		if err != nil {
			return err
		}

		printer := render.NewPrinter(cmd.OutOrStdout(), render.Options{
			NoColor: inspectOpts.noColor,
			Verbose: cliFlags.Verbose,
		})
		if err := printer.Inspection(svc.ClassifyEmail(email), checker.ShouldExclude(email)); err != nil {
			return err
		}

		if !inspectOpts.suggest {
			return nil
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()
		advisor, cleanup, err := af.CreateAdvisorService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		suggestion, err := advisor.Suggest(ctx, email)
		if err != nil {
			return fmt.Errorf("suggestion failed: %w", err)
		}
		return printer.Suggestions([]core.Suggestion{*suggestion})
	})
}
