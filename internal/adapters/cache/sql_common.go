package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/job-tracker/internal/core"
)

// sqlTimeLayout is the UTC timestamp layout shared by the SQL backends.
// Fixed width keeps string comparison in SQL ordered by time.
const sqlTimeLayout = "2006-01-02 15:04:05"

const selectEntrySQL = `
	SELECT email_id, company, position, status, confidence, explanation, model_used, suggested_at, last_seen, expires_at
	FROM suggestion_cache
	WHERE email_id = ?
`

func formatSQLTime(t time.Time) string {
	return t.UTC().Format(sqlTimeLayout)
}

// parseSQLTime also accepts RFC 3339, which is what database/sql produces
// when a MySQL DSN sets parseTime=true and the column is scanned into a string.
func parseSQLTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(sqlTimeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// scanEntry reads one suggestion_cache row and applies the expiry check
func scanEntry(row *sql.Row, now time.Time) (*core.CacheEntry, error) {
	var (
		entry                          core.CacheEntry
		status                         string
		suggestedAt, lastSeen, expires string
	)
	s := &entry.Suggestion

	err := row.Scan(&entry.EmailID, &s.Company, &s.Position, &status, &s.Confidence,
		&s.Explanation, &s.ModelUsed, &suggestedAt, &lastSeen, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	if entry.ExpiresAt, err = parseSQLTime(expires); err != nil {
		return nil, fmt.Errorf("failed to parse expires_at timestamp: %w", err)
	}
	if now.After(entry.ExpiresAt) {
		return nil, ErrExpired
	}
	if entry.LastSeen, err = parseSQLTime(lastSeen); err != nil {
		return nil, fmt.Errorf("failed to parse last_seen timestamp: %w", err)
	}
	if s.SuggestedAt, err = parseSQLTime(suggestedAt); err != nil {
		return nil, fmt.Errorf("failed to parse suggested_at timestamp: %w", err)
	}

	s.EmailID = entry.EmailID
	if st, ok := core.ParseStatus(status); ok {
		s.Status = st
	} else {
		s.Status = core.StatusPending
	}

	return &entry, nil
}

// entryArgs returns the insert arguments in column order
func entryArgs(entry *core.CacheEntry) []any {
	s := entry.Suggestion
	return []any{
		entry.EmailID, s.Company, s.Position, string(s.Status), s.Confidence, s.Explanation, s.ModelUsed,
		formatSQLTime(s.SuggestedAt), formatSQLTime(entry.LastSeen), formatSQLTime(entry.ExpiresAt),
	}
}
