package ports

import (
	"context"
	"time"

	"github.com/mikey/job-tracker/internal/core"
)

// FetchOptions narrows a mailbox fetch
type FetchOptions struct {
	// Mailbox to read; empty means the source default
	Mailbox string
	// Limit caps the number of messages, newest first; zero means no cap
	Limit int
	// Since drops messages received before this time when non-zero
	Since time.Time
}

// EmailSource defines the interface for pulling emails from a mail provider
type EmailSource interface {
	// Fetch returns plain-text emails, newest first
	Fetch(ctx context.Context, opts FetchOptions) ([]core.RawEmail, error)
}

// MailboxStore defines the interface for the local email collection
type MailboxStore interface {
	// Load returns every stored email in file order
	Load() ([]core.RawEmail, error)

	// Save replaces the stored collection
	Save(emails []core.RawEmail) error

	// Append adds emails, skipping ids already stored, and returns how many were added
	Append(emails ...core.RawEmail) (int, error)
}
