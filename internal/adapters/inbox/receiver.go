// Package inbox runs a local SMTP listener that files forwarded recruiting
// mail into the JSON mailbox.
package inbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/mikey/job-tracker/internal/adapters/message"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/ports"
	"go.uber.org/zap"
)

// Options configures the SMTP listener
type Options struct {
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
}

// Receiver accepts mail over SMTP and appends it to a mailbox store
type Receiver struct {
	store    ports.MailboxStore
	filter   core.SenderFilter
	logger   *zap.Logger
	opts     Options
	server   *smtp.Server
	listener net.Listener
	mu       sync.Mutex
	wg       sync.WaitGroup
}

var _ ports.Receiver = (*Receiver)(nil)

// NewReceiver creates a new SMTP receiver. filter may be nil.
func NewReceiver(store ports.MailboxStore, filter core.SenderFilter, logger *zap.Logger, opts Options) *Receiver {
	if opts.Domain == "" {
		opts.Domain = "localhost"
	}
	if opts.MaxMessageBytes <= 0 {
		opts.MaxMessageBytes = 10 * 1024 * 1024
	}
	return &Receiver{
		store:  store,
		filter: filter,
		logger: logger,
		opts:   opts,
	}
}

// Start binds the listener and serves in the background
func (r *Receiver) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.server != nil {
		return errors.New("receiver already started")
	}

	l, err := net.Listen("tcp", r.opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.opts.ListenAddress, err)
	}

	server := smtp.NewServer(&backend{receiver: r})
	server.Addr = l.Addr().String()
	server.Domain = r.opts.Domain
	server.ReadTimeout = 30 * time.Second
	server.WriteTimeout = 30 * time.Second
	server.MaxMessageBytes = r.opts.MaxMessageBytes
	server.MaxRecipients = 50

	r.server = server
	r.listener = l

	r.logger.Info("Inbox listener starting", zap.String("address", server.Addr))

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := server.Serve(l); err != nil && !errors.Is(err, smtp.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			r.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address, useful when listening on port 0
func (r *Receiver) Addr() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return ""
	}
	return r.listener.Addr().String()
}

// Stop closes the listener and waits for the serve loop to exit
func (r *Receiver) Stop() error {
	r.mu.Lock()
	server := r.server
	r.server = nil
	r.listener = nil
	r.mu.Unlock()

	if server == nil {
		return nil
	}
	err := server.Close()
	r.wg.Wait()
	return err
}

// Deliver stores an email unless its sender is excluded
func (r *Receiver) Deliver(_ context.Context, email *core.RawEmail) (bool, error) {
	if r.filter != nil && r.filter.ShouldExclude(*email) {
		r.logger.Info("Dropping excluded sender", zap.String("id", email.ID), zap.String("from", email.From))
		return false, nil
	}

	added, err := r.store.Append(*email)
	if err != nil {
		return false, fmt.Errorf("failed to store email: %w", err)
	}
	if added == 0 {
		r.logger.Info("Duplicate email ignored", zap.String("id", email.ID))
		return false, nil
	}

	r.logger.Info("Email stored",
		zap.String("id", email.ID),
		zap.String("from", email.From),
		zap.String("subject", email.Subject))
	return true, nil
}

// backend implements the go-smtp Backend interface
type backend struct {
	receiver *Receiver
}

// NewSession creates a new SMTP session
func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &session{receiver: b.receiver}, nil
}

// session implements the go-smtp Session interface
type session struct {
	receiver   *Receiver
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *session) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Logout ends the session
func (s *session) Logout() error {
	return nil
}

// Mail sets the envelope sender
func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data parses the message and hands it to the receiver
func (s *session) Data(r io.Reader) error {
	logger := s.receiver.logger

	raw, err := io.ReadAll(r)
	if err != nil {
		logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	email, err := message.ToRawEmail(bytes.TrimSpace(raw), uuid.NewString())
	if err != nil {
		logger.Error("Failed to parse email message", zap.Error(err))
		return &smtp.SMTPError{
			Code:         554,
			EnhancedCode: smtp.EnhancedCode{5, 6, 0},
			Message:      "Message could not be parsed",
		}
	}
	if email.From == "" {
		email.From = s.sender
	}
	if email.Date.IsZero() {
		email.Date = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.receiver.Deliver(ctx, &email); err != nil {
		logger.Error("Failed to deliver email", zap.Error(err), zap.String("sender", s.sender))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 3, 0},
			Message:      "Temporary storage failure",
		}
	}
	return nil
}
