// Package ratelimit enforces per-(token, capability) request volume limits
// against the shared counter store, so limits hold cluster-wide rather than
// per process.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	authDomain "github.com/cuacalab/forecast-api/internal/auth/domain"
)

// Policy is the explicit rate limit policy for one capability: a short burst
// window to stop hammering and a larger quota window as a fair-use ceiling.
type Policy struct {
	BurstLimit  int
	BurstWindow time.Duration
	QuotaLimit  int
	QuotaWindow time.Duration
}

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed bool
	// RetryAfter is the remaining window of the tier that rejected.
	RetryAfter time.Duration
}

// CounterStore is the shared store primitive the limiter needs: an atomic
// increment that sets the window expiry exactly once, in a single round trip.
type CounterStore interface {
	// IncrWithTTL increments the counter at key, setting ttl only if the key
	// has no expiry yet, and returns the post-increment count.
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// TTL returns the remaining lifetime of the counter at key.
	TTL(ctx context.Context, key string) (time.Duration, error)
}

// Limiter decides whether a request may proceed under the capability's policy.
type Limiter interface {
	Allow(
		ctx context.Context,
		tokenHash string,
		capability authDomain.CapabilityID,
		policy Policy,
	) (*Result, error)
}

// limiter implements Limiter over a CounterStore with fixed windows per tier.
type limiter struct {
	store  CounterStore
	logger *slog.Logger
}

// Allow checks both tiers and throttles if either rejects. Counter-store
// failures fail open: the request proceeds and a warning is logged, because
// refusing all traffic on a cache outage is worse than briefly unmetered
// traffic (authorization stays fail-closed upstream).
func (l *limiter) Allow(
	ctx context.Context,
	tokenHash string,
	capability authDomain.CapabilityID,
	policy Policy,
) (*Result, error) {
	tiers := []struct {
		name   string
		limit  int
		window time.Duration
	}{
		{"burst", policy.BurstLimit, policy.BurstWindow},
		{"quota", policy.QuotaLimit, policy.QuotaWindow},
	}

	for _, tier := range tiers {
		if tier.limit <= 0 {
			continue
		}

		key := counterKey(tokenHash, capability, tier.name)
		count, err := l.store.IncrWithTTL(ctx, key, tier.window)
		if err != nil {
			l.logger.Warn("rate limit store unavailable, failing open",
				slog.String("tier", tier.name),
				slog.Any("error", err),
			)
			return &Result{Allowed: true}, nil
		}

		if count > int64(tier.limit) {
			retryAfter, err := l.store.TTL(ctx, key)
			if err != nil || retryAfter <= 0 {
				retryAfter = tier.window
			}
			return &Result{Allowed: false, RetryAfter: retryAfter}, nil
		}
	}

	return &Result{Allowed: true}, nil
}

// counterKey builds the store key for one (token, capability, tier) counter.
func counterKey(tokenHash string, capability authDomain.CapabilityID, tier string) string {
	return fmt.Sprintf("ratelimit:%s:%d:%s", tokenHash, capability, tier)
}

// NewLimiter creates a Limiter backed by the given counter store.
func NewLimiter(store CounterStore, logger *slog.Logger) Limiter {
	return &limiter{store: store, logger: logger}
}
