package core

import (
	"context"
)

// SenderFilter decides whether an email should be dropped before analysis
type SenderFilter interface {
	ShouldExclude(email RawEmail) bool
}

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// SuggestFields asks the model for company, position and status of an email
	SuggestFields(ctx context.Context, email *RawEmail) (*Suggestion, error)
}

// CacheRepository defines the interface for caching suggestions
type CacheRepository interface {
	// Get retrieves a cached entry for an email id
	Get(ctx context.Context, emailID string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, emailID string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
