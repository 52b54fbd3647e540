package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikey/job-tracker/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	tracker := cfg.GetTracker()
	assert.Equal(t, "output.json", tracker.Input)
	assert.Equal(t, "severity", tracker.MergePolicy)
	assert.False(t, tracker.RelevanceFilter)

	ext := cfg.GetExtractor()
	assert.Equal(t, 500, ext.BodyScanChars)
	assert.Equal(t, core.DefaultJobTitles, ext.Titles)

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, "memory", cache.Type)
	assert.Equal(t, 168*time.Hour, cache.TTL)

	adv, err := cfg.GetAdvisor()
	require.NoError(t, err)
	assert.Equal(t, "openai", adv.Provider)
	assert.Equal(t, 2, adv.Concurrency)
}

func TestNew_ExplicitFile(t *testing.T) {
	path := writeFile(t, "config.yaml", `
tracker:
  merge_policy: latest
exclusion:
  patterns: ["no-reply", "newsletter"]
cache:
  type: redis
  ttl: 2h
`)
	cfg, err := New(path)
	require.NoError(t, err)

	assert.Equal(t, "latest", cfg.GetTracker().MergePolicy)
	assert.Equal(t, []string{"no-reply", "newsletter"}, cfg.GetStringSlice("exclusion.patterns"))

	cache, err := cfg.GetCache()
	require.NoError(t, err)
	assert.Equal(t, "redis", cache.Type)
	assert.Equal(t, 2*time.Hour, cache.TTL)
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestNew_EnvOverride(t *testing.T) {
	t.Setenv("JOB_TRACKER_TRACKER_MERGE_POLICY", "latest")
	path := writeFile(t, "config.yaml", "logging:\n  level: debug\n")

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "latest", cfg.GetTracker().MergePolicy)
	assert.Equal(t, "debug", cfg.GetString("logging.level"))
}

func TestGetKeywordSets_File(t *testing.T) {
	kw := writeFile(t, "keywords.yaml", `
interview:
  - "Let's Talk"
rejected:
  - "not a fit"
`)
	v := NewEmptyViper()
	v.Set("keywords.file", kw)

	sets, err := NewFromViper(v).GetKeywordSets()
	require.NoError(t, err)

	assert.Contains(t, sets.Interview, "let's talk")
	assert.Len(t, sets.Interview, 1)
	assert.Contains(t, sets.Rejected, "not a fit")
	// pending was not in the file, defaults stay
	assert.Contains(t, sets.Pending, "thank you for applying")
}

func TestGetKeywordSets_BadFile(t *testing.T) {
	v := NewEmptyViper()
	v.Set("keywords.file", writeFile(t, "bad.yaml", "interview: [unterminated"))

	_, err := NewFromViper(v).GetKeywordSets()
	assert.Error(t, err)
}

func TestGetMail_EnvCredentials(t *testing.T) {
	t.Setenv("OUTLOOK_USERNAME", "me@outlook.com")
	t.Setenv("OUTLOOK_APP_PASSWORD", "secret")

	v := NewEmptyViper()
	v.Set("mail.provider", "Outlook")

	mc, err := NewFromViper(v).GetMail()
	require.NoError(t, err)
	assert.Equal(t, "outlook", mc.Provider)
	assert.Equal(t, "me@outlook.com", mc.Username)
	assert.Equal(t, "secret", mc.Password)
	assert.Equal(t, 2*time.Minute, mc.Timeout)
}

func TestGetCache_InvalidDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("cache.ttl", "forever")

	_, err := NewFromViper(v).GetCache()
	assert.Error(t, err)
}
