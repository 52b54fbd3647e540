package factory

import (
	"context"
	"fmt"
	"strings"

	"github.com/mikey/job-tracker/internal/adapters/cache"
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/ports"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CacheFactory creates suggestion caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCacheRepository creates a cache repository based on cache.type
func (f *CacheFactory) CreateCacheRepository(ctx context.Context) (ports.CacheRepository, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cacheCfg.Type) {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.CleanupFrequency), nil
	case "sqlite":
		return cache.NewSQLiteCache(cacheCfg.SQLitePath, f.logger, cacheCfg.CleanupFrequency)
	case "mysql":
		return cache.NewMySQLCache(cacheCfg.MySQLDSN, f.logger, cacheCfg.CleanupFrequency)
	case "redis":
		return cache.NewRedisCache(ctx, &redis.Options{
			Addr:     cacheCfg.RedisAddr,
			Password: cacheCfg.RedisPassword,
			DB:       cacheCfg.RedisDB,
		}, f.logger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}
