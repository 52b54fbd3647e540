package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

// MySQLCache stores suggestions in a shared MySQL database
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
	stopOnce    sync.Once
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	cache, err := NewMySQLCacheFromDB(db, logger, cleanupFreq)
	if err != nil {
		db.Close()
		return nil, err
	}
	return cache, nil
}

// NewMySQLCacheFromDB wraps an open connection and ensures the schema exists
func NewMySQLCacheFromDB(db *sql.DB, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS suggestion_cache (
			email_id VARCHAR(255) PRIMARY KEY,
			company VARCHAR(255),
			position VARCHAR(255),
			status VARCHAR(32),
			confidence DOUBLE,
			explanation TEXT,
			model_used VARCHAR(128),
			suggested_at DATETIME,
			last_seen DATETIME,
			expires_at DATETIME,
			INDEX idx_suggestion_expires_at (expires_at)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	if cleanupFreq > 0 {
		go cache.startCleanupTask()
	}

	return cache, nil
}

// Get retrieves the cached suggestion for an email
func (c *MySQLCache) Get(ctx context.Context, emailID string) (*core.CacheEntry, error) {
	return scanEntry(c.db.QueryRowContext(ctx, selectEntrySQL, emailID), time.Now())
}

// Set stores a cache entry
func (c *MySQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO suggestion_cache
			(email_id, company, position, status, confidence, explanation, model_used, suggested_at, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			company = VALUES(company),
			position = VALUES(position),
			status = VALUES(status),
			confidence = VALUES(confidence),
			explanation = VALUES(explanation),
			model_used = VALUES(model_used),
			suggested_at = VALUES(suggested_at),
			last_seen = VALUES(last_seen),
			expires_at = VALUES(expires_at)
	`, entryArgs(entry)...)
	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, emailID string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM suggestion_cache WHERE email_id = ?`, emailID)
	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}

	return nil
}

// Cleanup removes expired entries
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM suggestion_cache
		WHERE expires_at <= ?
	`, formatSQLTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

func (c *MySQLCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *MySQLCache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		if err := c.db.Close(); err != nil {
			c.logger.Error("Failed to close MySQL database", zap.Error(err))
		}
	})
}
