package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// memCounterStore is an in-memory CounterStore with window expiry semantics.
type memCounterStore struct {
	mu       sync.Mutex
	counts   map[string]int64
	deadline map[string]time.Time
	now      time.Time
	failing  bool
}

func newMemCounterStore() *memCounterStore {
	return &memCounterStore{
		counts:   make(map[string]int64),
		deadline: make(map[string]time.Time),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *memCounterStore) IncrWithTTL(
	_ context.Context,
	key string,
	ttl time.Duration,
) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return 0, apperrors.New("connection refused")
	}

	if deadline, ok := s.deadline[key]; ok && !s.now.Before(deadline) {
		delete(s.counts, key)
		delete(s.deadline, key)
	}

	s.counts[key]++
	if _, ok := s.deadline[key]; !ok {
		s.deadline[key] = s.now.Add(ttl)
	}
	return s.counts[key], nil
}

func (s *memCounterStore) TTL(_ context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failing {
		return 0, apperrors.New("connection refused")
	}

	deadline, ok := s.deadline[key]
	if !ok {
		return 0, nil
	}
	return deadline.Sub(s.now), nil
}

func (s *memCounterStore) advance(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(d)
}

var testPolicy = Policy{
	BurstLimit:  10,
	BurstWindow: 60 * time.Second,
	QuotaLimit:  1000,
	QuotaWindow: time.Hour,
}

func TestLimiter_AllowsUpToThreshold(t *testing.T) {
	ctx := context.Background()
	store := newMemCounterStore()
	limiter := NewLimiter(store, slog.Default())

	for i := 0; i < testPolicy.BurstLimit; i++ {
		result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, testPolicy)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}

	// Request N+1 within the same window must be throttled
	result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, testPolicy)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Greater(t, result.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, result.RetryAfter, testPolicy.BurstWindow)
}

func TestLimiter_WindowResets(t *testing.T) {
	ctx := context.Background()
	store := newMemCounterStore()
	limiter := NewLimiter(store, slog.Default())

	for i := 0; i < testPolicy.BurstLimit; i++ {
		_, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, testPolicy)
		require.NoError(t, err)
	}

	result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, testPolicy)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	// After the burst window elapses the counter resets
	store.advance(testPolicy.BurstWindow + time.Second)

	result, err = limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, testPolicy)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestLimiter_QuotaTierRejectsIndependently(t *testing.T) {
	ctx := context.Background()
	store := newMemCounterStore()
	limiter := NewLimiter(store, slog.Default())

	policy := Policy{
		BurstLimit:  100,
		BurstWindow: time.Second,
		QuotaLimit:  3,
		QuotaWindow: time.Hour,
	}

	for i := 0; i < 3; i++ {
		// Keep the burst window fresh so only the quota tier can reject
		store.advance(2 * time.Second)
		result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityCeram, policy)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	store.advance(2 * time.Second)
	result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityCeram, policy)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

func TestLimiter_CountersIsolatedPerTokenAndCapability(t *testing.T) {
	ctx := context.Background()
	store := newMemCounterStore()
	limiter := NewLimiter(store, slog.Default())

	policy := Policy{BurstLimit: 1, BurstWindow: time.Minute}

	result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, policy)
	require.NoError(t, err)
	require.True(t, result.Allowed)

	result, err = limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, policy)
	require.NoError(t, err)
	require.False(t, result.Allowed)

	// Different capability, same token: independent counter
	result, err = limiter.Allow(ctx, "hash-1", authDomain.CapabilityProvince, policy)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	// Different token, same capability: independent counter
	result, err = limiter.Allow(ctx, "hash-2", authDomain.CapabilityTendayCurrent, policy)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestLimiter_FailsOpenOnStoreError(t *testing.T) {
	ctx := context.Background()
	store := newMemCounterStore()
	store.failing = true
	limiter := NewLimiter(store, slog.Default())

	result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityTendayCurrent, testPolicy)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestLimiter_ZeroLimitsDisableTier(t *testing.T) {
	ctx := context.Background()
	store := newMemCounterStore()
	limiter := NewLimiter(store, slog.Default())

	policy := Policy{}

	for i := 0; i < 50; i++ {
		result, err := limiter.Allow(ctx, "hash-1", authDomain.CapabilityRegion, policy)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}
}
