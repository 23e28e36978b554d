// Package cache provides the read-through response cache over the shared
// key-value store. Entries are keyed by normalized request parameters and
// bounded by a TTL chosen per data volatility.
package cache

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// ErrMiss indicates the key holds no live entry.
var ErrMiss = apperrors.New("cache miss")

// Store is the key-value primitive the cache runs on.
type Store interface {
	// Get returns the payload at key or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the payload at key with the given TTL.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// DeleteByPrefix removes every key under the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// Cache is the read-through cache used by gated query handlers. Store outages
// degrade to the backing store instead of failing the request; only fallback
// errors surface to the caller.
type Cache struct {
	store  Store
	logger *slog.Logger
}

// New creates a Cache over the given store.
func New(store Store, logger *slog.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Key builds a deterministic cache key from a namespace, the normalized query
// parameters and an optional caller scope. Every parameter that affects the
// result must be present; scope separates caller-specific payloads so tenants
// never read each other's entries.
func Key(namespace string, params map[string]string, scope string) string {
	var b strings.Builder
	b.WriteString("cache:")
	b.WriteString(namespace)

	if len(params) > 0 {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString(":")
		for i, name := range names {
			if i > 0 {
				b.WriteString("&")
			}
			b.WriteString(url.QueryEscape(name))
			b.WriteString("=")
			b.WriteString(url.QueryEscape(params[name]))
		}
	}

	if scope != "" {
		b.WriteString(":scope=")
		b.WriteString(url.QueryEscape(scope))
	}

	return b.String()
}

// Fetch returns the payload for key, serving it from the store when live and
// populating it from the fallback query otherwise. The second return reports
// whether the payload came from cache. Concurrent misses for the same key may
// each run the fallback; that is accepted because fallbacks are idempotent
// reads.
func (c *Cache) Fetch(
	ctx context.Context,
	key string,
	ttl time.Duration,
	fallback func(ctx context.Context) ([]byte, error),
) ([]byte, bool, error) {
	payload, err := c.store.Get(ctx, key)
	if err == nil {
		return payload, true, nil
	}
	if !apperrors.Is(err, ErrMiss) {
		// The cache is an optimization; a store outage must not take down
		// reads the backing store can still serve.
		c.logger.Warn("cache read failed, serving from backing store",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	payload, err = fallback(ctx)
	if err != nil {
		return nil, false, err
	}

	if err := c.store.Set(ctx, key, payload, ttl); err != nil {
		c.logger.Warn("cache populate failed, serving uncached payload",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return payload, false, nil
}

// InvalidateNamespace drops every entry under the namespace. Data-ingestion
// writes call this so fresh data is visible promptly instead of waiting out
// the TTL.
func (c *Cache) InvalidateNamespace(ctx context.Context, namespace string) error {
	if err := c.store.DeleteByPrefix(ctx, "cache:"+namespace); err != nil {
		return apperrors.Wrapf(err, "failed to invalidate cache namespace %s", namespace)
	}
	return nil
}
