// internal/adapter/cache/zone_cache.go

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// ZoneCache stores computed zone results in Redis as JSON
type ZoneCache struct {
	redis  redis.Cmdable
	prefix string
}

// NewZoneCache creates a new zone cache; keys are namespaced by prefix
func NewZoneCache(client redis.Cmdable, prefix string) *ZoneCache {
	return &ZoneCache{
		redis:  client,
		prefix: prefix,
	}
}

func (c *ZoneCache) key(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get decodes the cached value into dst, reporting false on a miss
func (c *ZoneCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "cache: get %s", key)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, eris.Wrapf(err, "cache: decode %s", key)
	}
	return true, nil
}

// Set stores value under key with an expiry
func (c *ZoneCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "cache: encode %s", key)
	}

	if err := c.redis.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}

// Invalidate drops every cached zone result under the prefix
func (c *ZoneCache) Invalidate(ctx context.Context) (int, error) {
	var cursor uint64
	deleted := 0

	for {
		keys, next, err := c.redis.Scan(ctx, cursor, c.key("*"), 100).Result()
		if err != nil {
			return deleted, eris.Wrap(err, "cache: scan keys")
		}

		if len(keys) > 0 {
			n, err := c.redis.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, eris.Wrap(err, "cache: delete keys")
			}
			deleted += int(n)
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
