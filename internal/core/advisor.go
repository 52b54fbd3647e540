package core

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// AdvisorService asks an LLM to fill in fields the extractor left empty.
// Suggestions are advisory and never change application records.
type AdvisorService struct {
	llmClient    LLMClient
	cache        CacheRepository
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	concurrency  int
	limiter      *rate.Limiter
}

// AdvisorOptions configures fan-out and rate limiting
type AdvisorOptions struct {
	Concurrency       int
	RequestsPerSecond float64
	Burst             int
}

// NewAdvisorService creates a new advisor service
func NewAdvisorService(
	llmClient LLMClient,
	cache CacheRepository,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	opts AdvisorOptions,
) *AdvisorService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &AdvisorService{
		llmClient:    llmClient,
		cache:        cache,
		logger:       logger,
		cacheEnabled: cacheEnabled && cache != nil,
		cacheTTL:     cacheTTL,
		concurrency:  opts.Concurrency,
		limiter:      rate.NewLimiter(limit, opts.Burst),
	}
}

// Suggest returns a suggestion for one email, using the cache when enabled
func (s *AdvisorService) Suggest(ctx context.Context, email RawEmail) (*Suggestion, error) {
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, email.ID); err == nil {
			s.logger.Debug("Cache hit for email", zap.String("id", email.ID))
			cached := entry.Suggestion
			cached.ModelUsed = "cache"
			return &cached, nil
		}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	suggestion, err := s.llmClient.SuggestFields(ctx, &email)
	if err != nil {
		return nil, err
	}
	suggestion.EmailID = email.ID
	if !suggestion.Status.Valid() {
		suggestion.Status = StatusPending
	}

	if s.cacheEnabled {
		now := time.Now()
		entry := &CacheEntry{
			EmailID:    email.ID,
			Suggestion: *suggestion,
			LastSeen:   now,
			ExpiresAt:  now.Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return suggestion, nil
}

// SuggestAll fans out over emails with bounded concurrency.
// Failed emails are logged and skipped; results keep input order.
func (s *AdvisorService) SuggestAll(ctx context.Context, emails []RawEmail) ([]Suggestion, error) {
	results := make([]*Suggestion, len(emails))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i := range emails {
		i := i
		g.Go(func() error {
			suggestion, err := s.Suggest(gctx, emails[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("Failed to get suggestion",
					zap.String("id", emails[i].ID),
					zap.Error(err))
				return nil
			}
			results[i] = suggestion
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Suggestion, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}
