package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/job-tracker/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "job-tracker:suggestion:"

// RedisCache stores suggestions in Redis; expiry is delegated to key TTLs
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, opts *redis.Options, logger *zap.Logger) (*RedisCache, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisCacheFromClient(client, logger), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func redisKey(emailID string) string {
	return redisKeyPrefix + emailID
}

// Get retrieves the cached suggestion for an email
func (c *RedisCache) Get(ctx context.Context, emailID string) (*core.CacheEntry, error) {
	raw, err := c.client.Get(ctx, redisKey(emailID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	var entry core.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache entry: %w", err)
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, ErrExpired
	}
	return &entry, nil
}

// Set stores a cache entry with a TTL matching its expiry
func (c *RedisCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return c.Delete(ctx, entry.EmailID)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(entry.EmailID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *RedisCache) Delete(ctx context.Context, emailID string) error {
	if err := c.client.Del(ctx, redisKey(emailID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup is a no-op: Redis evicts expired keys itself
func (c *RedisCache) Cleanup(context.Context) error {
	c.logger.Debug("Redis cache cleanup skipped, keys expire natively")
	return nil
}

// Stop closes the client
func (c *RedisCache) Stop() {
	if err := c.client.Close(); err != nil {
		c.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
