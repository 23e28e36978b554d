package ratelimit

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// redisCounterStore implements CounterStore on the shared Redis store.
type redisCounterStore struct {
	client *goredis.Client
}

// IncrWithTTL increments the counter and sets the window expiry in one
// pipelined round trip. EXPIRE NX only applies when the key carries no TTL
// yet, so concurrent first writers cannot race the expiry away and leave a
// counter that never resets.
func (s *redisCounterStore) IncrWithTTL(
	ctx context.Context,
	key string,
	ttl time.Duration,
) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, apperrors.Wrap(err, "failed to increment rate counter")
	}

	return incr.Val(), nil
}

// TTL returns the remaining lifetime of the counter at key.
func (s *redisCounterStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read rate counter ttl")
	}
	return ttl, nil
}

// NewRedisCounterStore creates a CounterStore backed by the shared Redis store.
func NewRedisCounterStore(client *goredis.Client) CounterStore {
	return &redisCounterStore{client: client}
}
