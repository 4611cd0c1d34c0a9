package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Cache implementation backed by Redis, for deployments where
// several processes must share the paid-set and promotion entries. Values are
// stored JSON-encoded; TTLs map onto Redis key expiry.
type RedisCache[V any] struct {
	client *redis.Client
	prefix string
}

// NewRedisCache wraps an established Redis client. The prefix namespaces keys
// so several caches can share one database.
func NewRedisCache[V any](client *redis.Client, prefix string) *RedisCache[V] {
	if client == nil {
		panic("cache: redis client is required")
	}
	return &RedisCache[V]{client: client, prefix: prefix}
}

func (c *RedisCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		return zero, false, errors.Join(ErrCacheUnavailable, err)
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		// A corrupt entry behaves like a miss so callers re-fetch from source.
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return zero, false, nil
	}

	return value, true, nil
}

func (c *RedisCache[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(ErrEncodeValue, err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisCache[V]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}
