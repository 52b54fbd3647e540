package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/job-tracker/internal/adapters/render"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/factory"
)

var trackOpts struct {
	input        string
	demo         bool
	noColor      bool
	details      bool
	sortBy       string
	export       string
	mergePolicy  string
	exclude      []string
	excludeFiles []string
}

// trackCmd runs the pipeline over a mailbox and prints the application table
var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Build the application table from a mailbox file",
	Long: `Classify every email in a JSON mailbox and print one row per
company and position with its merged status.

Examples:
  # Try it on built-in sample mail
  job-tracker track --demo

  # Track a harvested mailbox and export a CSV
  job-tracker track --input output.json --export applications.csv

  # Drop newsletters and let the most recent email decide each status
  job-tracker track --exclude newsletter --merge-policy latest`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

func init() {
	f := trackCmd.Flags()
	f.StringVarP(&trackOpts.input, "input", "i", "", "mailbox JSON file (default tracker.input)")
	f.BoolVar(&trackOpts.demo, "demo", false, "use built-in sample mail")
	f.BoolVar(&trackOpts.noColor, "no-color", false, "disable coloured output")
	f.BoolVar(&trackOpts.details, "details", false, "list every classified email with its evidence")
	f.StringVar(&trackOpts.sortBy, "sort", "first-seen", "row order: first-seen or company")
	f.StringVar(&trackOpts.export, "export", "", "also write the records to this CSV file")
	f.StringVar(&trackOpts.mergePolicy, "merge-policy", "", "status merge policy: severity or latest")
	f.StringSliceVar(&trackOpts.exclude, "exclude", nil, "exclude senders containing this text (repeatable)")
	f.StringSliceVar(&trackOpts.excludeFiles, "exclude-file", nil, "file of exclusion rules, one per line (repeatable)")
}

func runTrack(cmd *cobra.Command, _ []string) error {
	return invoke(func(
		cfg *config.Config,
		logger *zap.Logger,
		ef *factory.ExclusionFactory,
		tf *factory.TrackerFactory,
	) error {
		defer logger.Sync()

		if trackOpts.mergePolicy != "" {
			cfg.GetViper().Set("tracker.merge_policy", trackOpts.mergePolicy)
		}

		sortCompany, err := parseSort(trackOpts.sortBy)
		if err != nil {
			return err
		}

		checker, err := ef.CreateChecker(trackOpts.exclude, trackOpts.excludeFiles...)
		if err != nil {
			return err
		}
		svc, err := tf.CreateTrackerService(checker)
		if err != nil {
			return err
		}

		input := trackOpts.input
		if input == "" {
			input = cfg.GetTracker().Input
		}
		emails, err := loadMailbox(input, trackOpts.demo)
		if err != nil {
			return err
		}
		if trackOpts.demo {
			logger.Info("Using sample mail", zap.Int("emails", len(emails)))
		} else {
			logger.Info("Loaded mailbox", zap.String("path", input), zap.Int("emails", len(emails)))
		}

		result := svc.Run(emails)

		printer := render.NewPrinter(cmd.OutOrStdout(), render.Options{
			NoColor:       trackOpts.noColor,
			SortByCompany: sortCompany,
			Verbose:       trackOpts.details,
		})
		if err := printer.Report(result); err != nil {
			return err
		}

		if trackOpts.export != "" {
			records := result.Records
			if sortCompany {
				records = render.SortedByCompany(records)
			}
			if err := render.ExportCSV(trackOpts.export, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nExported %d records to %s\n", len(records), trackOpts.export)
		}
		return nil
	})
}

func parseSort(s string) (bool, error) {
	switch s {
	case "", "first-seen":
		return false, nil
	case "company":
		return true, nil
	default:
		return false, fmt.Errorf("unsupported sort order %q (use first-seen or company)", s)
	}
}
