package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLLM struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (f *fakeLLM) SuggestFields(_ context.Context, email *RawEmail) (*Suggestion, error) {
	f.calls.Add(1)
	if f.fail[email.ID] {
		return nil, errors.New("model unavailable")
	}
	return &Suggestion{
		Company:    "Suggested " + email.ID,
		Position:   "Software Engineer",
		Status:     Status("Offer"),
		Confidence: 0.8,
		ModelUsed:  "fake",
	}, nil
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string]*CacheEntry{}}
}

func (c *mapCache) Get(_ context.Context, id string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return e, nil
}

func (c *mapCache) Set(_ context.Context, e *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.EmailID] = e
	return nil
}

func (c *mapCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}

func (c *mapCache) Cleanup(context.Context) error { return nil }

func TestAdvisorService_CachesSuggestions(t *testing.T) {
	llm := &fakeLLM{}
	cache := newMapCache()
	svc := NewAdvisorService(llm, cache, zap.NewNop(), true, time.Hour, AdvisorOptions{Concurrency: 2})

	email := RawEmail{ID: "e1", From: "someone@gmail.com"}

	first, err := svc.Suggest(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, "e1", first.EmailID)
	assert.Equal(t, "Suggested e1", first.Company)
	assert.Equal(t, StatusPending, first.Status, "unknown labels fall back to pending")

	second, err := svc.Suggest(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, "cache", second.ModelUsed)
	assert.Equal(t, first.Company, second.Company)
	assert.Equal(t, int32(1), llm.calls.Load())
}

func TestAdvisorService_CacheDisabled(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewAdvisorService(llm, nil, zap.NewNop(), true, time.Hour, AdvisorOptions{})

	for i := 0; i < 3; i++ {
		_, err := svc.Suggest(context.Background(), RawEmail{ID: "e1"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), llm.calls.Load())
}

func TestAdvisorService_SuggestAllKeepsOrderAndSkipsFailures(t *testing.T) {
	llm := &fakeLLM{fail: map[string]bool{"e2": true}}
	svc := NewAdvisorService(llm, newMapCache(), zap.NewNop(), true, time.Hour, AdvisorOptions{Concurrency: 3})

	emails := []RawEmail{{ID: "e1"}, {ID: "e2"}, {ID: "e3"}, {ID: "e4"}}
	out, err := svc.SuggestAll(context.Background(), emails)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "e1", out[0].EmailID)
	assert.Equal(t, "e3", out[1].EmailID)
	assert.Equal(t, "e4", out[2].EmailID)
}

func TestAdvisorService_CancelledContext(t *testing.T) {
	llm := &fakeLLM{}
	svc := NewAdvisorService(llm, nil, zap.NewNop(), false, 0, AdvisorOptions{RequestsPerSecond: 0.001})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SuggestAll(ctx, []RawEmail{{ID: "e1"}, {ID: "e2"}})
	assert.Error(t, err)
}
