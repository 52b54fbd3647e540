package factory

import (
	"github.com/mikey/job-tracker/internal/adapters/inbox"
	"github.com/mikey/job-tracker/internal/adapters/jsonstore"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/ports"
	"go.uber.org/zap"
)

// ReceiverFactory creates the SMTP intake receiver
type ReceiverFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewReceiverFactory creates a new receiver factory
func NewReceiverFactory(cfg *config.Config, logger *zap.Logger) *ReceiverFactory {
	return &ReceiverFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReceiver creates a receiver filing mail into inbox.store_path
func (f *ReceiverFactory) CreateReceiver(filter core.SenderFilter) (ports.Receiver, error) {
	inboxCfg := f.cfg.GetInbox()

	f.logger.Info("Creating SMTP receiver",
		zap.String("listen_address", inboxCfg.ListenAddress),
		zap.String("store_path", inboxCfg.StorePath))

	return inbox.NewReceiver(
		jsonstore.NewStore(inboxCfg.StorePath),
		filter,
		f.logger,
		inbox.Options{
			ListenAddress:   inboxCfg.ListenAddress,
			Domain:          inboxCfg.Domain,
			MaxMessageBytes: inboxCfg.MaxMessageBytes,
		},
	), nil
}
