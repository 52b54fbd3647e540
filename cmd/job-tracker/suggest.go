package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/job-tracker/internal/adapters/render"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/factory"
)

var suggestOpts struct {
	input        string
	demo         bool
	noColor      bool
	max          int
	provider     string
	exclude      []string
	excludeFiles []string
}

// suggestCmd asks an LLM about emails the extractor could not resolve
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask an LLM about emails with no company or position",
	Long: `Run the tracker, collect emails whose company or position came out
empty, and ask the configured LLM for a best guess. Suggestions are printed
in a separate table and never change the tracked records.

Examples:
  # Use OpenAI (OPENAI key in openai.api_key or JOB_TRACKER_OPENAI_API_KEY)
  job-tracker suggest --input output.json

  # Use Bedrock and only look at the first 10 unresolved emails
  job-tracker suggest --provider bedrock --max 10`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

func init() {
	f := suggestCmd.Flags()
	f.StringVarP(&suggestOpts.input, "input", "i", "", "mailbox JSON file (default tracker.input)")
	f.BoolVar(&suggestOpts.demo, "demo", false, "use built-in sample mail")
	f.BoolVar(&suggestOpts.noColor, "no-color", false, "disable coloured output")
	f.IntVar(&suggestOpts.max, "max", 0, "ask about at most N emails (0 for all)")
	f.StringVar(&suggestOpts.provider, "provider", "", "bedrock, gemini or openai (default llm.provider)")
	f.StringSliceVar(&suggestOpts.exclude, "exclude", nil, "exclude senders containing this text (repeatable)")
	f.StringSliceVar(&suggestOpts.excludeFiles, "exclude-file", nil, "file of exclusion rules, one per line (repeatable)")
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	return invoke(func(
		cfg *config.Config,
		logger *zap.Logger,
		ef *factory.ExclusionFactory,
		tf *factory.TrackerFactory,
		af *factory.AdvisorFactory,
	) error {
		defer logger.Sync()

		if suggestOpts.provider != "" {
			cfg.GetViper().Set("llm.provider", suggestOpts.provider)
		}

		checker, err := ef.CreateChecker(suggestOpts.exclude, suggestOpts.excludeFiles...)
		if err != nil {
			return err
		}
		svc, err := tf.CreateTrackerService(checker)
		if err != nil {
			return err
		}

		input := suggestOpts.input
		if input == "" {
			input = cfg.GetTracker().Input
		}
		emails, err := loadMailbox(input, suggestOpts.demo)
		if err != nil {
			return err
		}

		unresolved := svc.Run(emails).Unresolved()
		if suggestOpts.max > 0 && len(unresolved) > suggestOpts.max {
			unresolved = unresolved[:suggestOpts.max]
		}
		printer := render.NewPrinter(cmd.OutOrStdout(), render.Options{NoColor: suggestOpts.noColor})
		if len(unresolved) == 0 {
			return printer.Suggestions(nil)
		}

		advisorCfg, err := cfg.GetAdvisor()
		if err != nil {
			return err
		}
		ctx, stop := signalContext(cmd.Context())
		defer stop()
		if advisorCfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, advisorCfg.Timeout)
			defer cancel()
		}

		advisor, cleanup, err := af.CreateAdvisorService(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		targets := make([]core.RawEmail, 0, len(unresolved))
		for _, ce := range unresolved {
			targets = append(targets, ce.Source)
		}
		logger.Info("Requesting suggestions",
			zap.String("provider", advisorCfg.Provider),
			zap.Int("emails", len(targets)))

		suggestions, err := advisor.SuggestAll(ctx, targets)
		if err != nil {
			return err
		}
		return printer.Suggestions(suggestions)
	})
}
