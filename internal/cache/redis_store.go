package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/cuacalab/forecast-api/internal/errors"
)

// redisStore implements Store on the shared Redis store.
type redisStore struct {
	client *goredis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if apperrors.Is(err, goredis.Nil) {
			return nil, ErrMiss
		}
		return nil, apperrors.Wrap(err, "failed to get cache entry")
	}
	return payload, nil
}

func (s *redisStore) Set(
	ctx context.Context,
	key string,
	payload []byte,
	ttl time.Duration,
) error {
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return apperrors.Wrap(err, "failed to set cache entry")
	}
	return nil
}

// DeleteByPrefix walks matching keys with SCAN and removes them in batches.
// SCAN keeps the store responsive under large keyspaces where KEYS would not.
func (s *redisStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return apperrors.Wrap(err, "failed to delete cache entries")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return apperrors.Wrap(err, "failed to scan cache entries")
	}

	if len(batch) > 0 {
		if err := s.client.Del(ctx, batch...).Err(); err != nil {
			return apperrors.Wrap(err, "failed to delete cache entries")
		}
	}
	return nil
}

// NewRedisStore creates a Store backed by the shared Redis store.
func NewRedisStore(client *goredis.Client) Store {
	return &redisStore{client: client}
}
