package ports

import (
	"github.com/mikey/job-tracker/internal/core"
)

// CacheRepository is a suggestion cache that owns background resources
type CacheRepository interface {
	core.CacheRepository

	// Stop releases connections and stops any cleanup task
	Stop()
}
