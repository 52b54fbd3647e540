package factory

import (
	"context"
	"io"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/ports"
	"go.uber.org/zap"
)

// AdvisorFactory creates the LLM advisor with its cache
type AdvisorFactory struct {
	cfg          *config.Config
	logger       *zap.Logger
	llmFactory   *LLMFactory
	cacheFactory *CacheFactory
}

// NewAdvisorFactory creates a new advisor factory
func NewAdvisorFactory(cfg *config.Config, logger *zap.Logger, llmFactory *LLMFactory, cacheFactory *CacheFactory) *AdvisorFactory {
	return &AdvisorFactory{
		cfg:          cfg,
		logger:       logger,
		llmFactory:   llmFactory,
		cacheFactory: cacheFactory,
	}
}

// CreateAdvisorService returns the advisor and a cleanup func that stops its
// cache and closes the provider client.
func (f *AdvisorFactory) CreateAdvisorService(ctx context.Context) (*core.AdvisorService, func(), error) {
	advisorCfg, err := f.cfg.GetAdvisor()
	if err != nil {
		return nil, nil, err
	}
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, nil, err
	}

	client, err := f.llmFactory.CreateLLMClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	var repo ports.CacheRepository
	if cacheCfg.Enabled {
		repo, err = f.cacheFactory.CreateCacheRepository(ctx)
		if err != nil {
			closeClient(client, f.logger)
			return nil, nil, err
		}
	}

	cleanup := func() {
		if repo != nil {
			repo.Stop()
		}
		closeClient(client, f.logger)
	}

	return core.NewAdvisorService(
		client,
		repo,
		f.logger,
		cacheCfg.Enabled,
		cacheCfg.TTL,
		core.AdvisorOptions{
			Concurrency:       advisorCfg.Concurrency,
			RequestsPerSecond: advisorCfg.RequestsPerSecond,
			Burst:             advisorCfg.Burst,
		},
	), cleanup, nil
}

func closeClient(client core.LLMClient, logger *zap.Logger) {
	if closer, ok := client.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
}
