package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/job-tracker/internal/adapters/jsonstore"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/factory"
	"github.com/mikey/job-tracker/internal/ports"
)

var harvestOpts struct {
	provider     string
	output       string
	mailbox      string
	limit        int
	sinceDays    int
	appendMode   bool
	exclude      []string
	excludeFiles []string
}

// harvestCmd pulls mail over IMAP into a JSON mailbox
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Download mail over IMAP into a JSON mailbox",
	Long: `Connect to an IMAP mailbox read-only and save every message as plain
text to a JSON file that track can read.

Credentials come from mail.username / mail.password, from the
<PROVIDER>_USERNAME and <PROVIDER>_APP_PASSWORD environment variables,
or from the OS keychain (see "job-tracker secret set").

Examples:
  # Last 200 messages from Gmail
  GMAIL_USERNAME=me@gmail.com GMAIL_APP_PASSWORD=... job-tracker harvest --limit 200

  # Outlook, last 30 days, skipping no-reply senders, merged into an existing file
  job-tracker harvest --provider outlook --since-days 30 --exclude no-reply --append`,
	Args: cobra.NoArgs,
	RunE: runHarvest,
}

func init() {
	f := harvestCmd.Flags()
	f.StringVarP(&harvestOpts.provider, "provider", "p", "", "gmail, outlook, yahoo, aol or zoho (default mail.provider)")
	f.StringVarP(&harvestOpts.output, "output", "o", "", "mailbox JSON file to write (default tracker.input)")
	f.StringVar(&harvestOpts.mailbox, "mailbox", "", "IMAP folder to read (default mail.mailbox)")
	f.IntVarP(&harvestOpts.limit, "limit", "n", -1, "only the most recent N messages (default mail.limit, 0 for all)")
	f.IntVar(&harvestOpts.sinceDays, "since-days", -1, "only messages from the last N days (default mail.since_days)")
	f.BoolVar(&harvestOpts.appendMode, "append", false, "add to the output file instead of replacing it")
	f.StringSliceVar(&harvestOpts.exclude, "exclude", nil, "skip senders containing this text (repeatable)")
	f.StringSliceVar(&harvestOpts.excludeFiles, "exclude-file", nil, "file of exclusion rules, one per line (repeatable)")
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	return invoke(func(
		cfg *config.Config,
		logger *zap.Logger,
		sf *factory.SourceFactory,
		ef *factory.ExclusionFactory,
	) error {
		defer logger.Sync()

		mailCfg, err := sf.MailConfig(harvestOpts.provider)
		if err != nil {
			return err
		}
		if harvestOpts.mailbox != "" {
			mailCfg.Mailbox = harvestOpts.mailbox
		}
		if harvestOpts.limit >= 0 {
			mailCfg.Limit = harvestOpts.limit
		}
		if harvestOpts.sinceDays >= 0 {
			mailCfg.SinceDays = harvestOpts.sinceDays
		}

		checker, err := ef.CreateChecker(harvestOpts.exclude, harvestOpts.excludeFiles...)
		if err != nil {
			return err
		}
		source, err := sf.CreateSource(mailCfg, checker)
		if err != nil {
			return err
		}

		fetch := ports.FetchOptions{Limit: mailCfg.Limit}
		if mailCfg.SinceDays > 0 {
			fetch.Since = time.Now().AddDate(0, 0, -mailCfg.SinceDays)
		}

		ctx, stop := signalContext(cmd.Context())
		defer stop()

		logger.Info("Harvesting mailbox",
			zap.String("provider", mailCfg.Provider),
			zap.String("username", mailCfg.Username),
			zap.Int("limit", fetch.Limit))

		var src ports.EmailSource = source
		emails, err := src.Fetch(ctx, fetch)
		if err != nil {
			return fmt.Errorf("harvest failed: %w", err)
		}

		output := harvestOpts.output
		if output == "" {
			output = cfg.GetTracker().Input
		}
		var store ports.MailboxStore = jsonstore.NewStore(output)

		if harvestOpts.appendMode {
			added, err := store.Append(emails...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d emails, added %d new to %s\n", len(emails), added, output)
			return nil
		}

		if len(emails) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No emails matched; nothing written.")
			return nil
		}
		if err := store.Save(emails); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d emails to %s\n", len(emails), output)
		return nil
	})
}
