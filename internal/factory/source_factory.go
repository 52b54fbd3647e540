package factory

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mikey/job-tracker/internal/adapters/imapsource"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/secrets"
	"go.uber.org/zap"
)

// SourceFactory creates IMAP sources
type SourceFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// MailConfig returns the mailbox configuration with provider overridden when set
func (f *SourceFactory) MailConfig(provider string) (config.MailConfig, error) {
	mailCfg, err := f.cfg.GetMail()
	if err != nil {
		return config.MailConfig{}, err
	}
	if provider != "" && provider != mailCfg.Provider {
		f.cfg.GetViper().Set("mail.provider", provider)
		return f.cfg.GetMail()
	}
	return mailCfg, nil
}

// CreateSource creates an IMAP source for the configured mailbox. When no
// password is configured it is read from the OS keychain.
func (f *SourceFactory) CreateSource(mailCfg config.MailConfig, filter core.SenderFilter) (*imapsource.Source, error) {
	addr, err := imapsource.ResolveServer(mailCfg.Provider, mailCfg.IMAPHost, mailCfg.IMAPPort)
	if err != nil {
		return nil, err
	}
	if mailCfg.Username == "" {
		return nil, fmt.Errorf("no username for provider %s (set mail.username or %s)", mailCfg.Provider, envName(mailCfg.Provider, "USERNAME"))
	}

	password := mailCfg.Password
	if password == "" && mailCfg.UseKeyring {
		host, _, _ := net.SplitHostPort(addr)
		password, err = secrets.GetIMAPPassword(secrets.IMAPKeyringAccount(mailCfg.Username, host))
		if err != nil && !errors.Is(err, secrets.ErrPasswordNotFound) {
			f.logger.Warn("Keychain lookup failed", zap.Error(err))
		}
	}
	if password == "" {
		return nil, fmt.Errorf("no password for %s (set %s or store it in the keychain)", mailCfg.Username, envName(mailCfg.Provider, "APP_PASSWORD"))
	}

	return imapsource.NewSource(imapsource.Options{
		Addr:     addr,
		Username: mailCfg.Username,
		Password: password,
		Mailbox:  mailCfg.Mailbox,
		Timeout:  mailCfg.Timeout,
		Filter:   filter,
	}, f.logger), nil
}

func envName(provider, suffix string) string {
	if provider == "" {
		return "<PROVIDER>_" + suffix
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(provider), suffix)
}
