package ports

import (
	"context"

	"github.com/mikey/job-tracker/internal/core"
)

// Receiver defines the interface for a long-running email intake service
type Receiver interface {
	// Deliver stores an incoming email unless it is excluded, reporting whether it was kept
	Deliver(ctx context.Context, email *core.RawEmail) (bool, error)

	// Start starts the intake service
	Start() error

	// Stop stops the intake service
	Stop() error
}
