package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const clearScanCount = 500

// RedisCache implements Cache using Redis. Capacity is left to the server's
// maxmemory policy; entries expire through native key TTLs.
type RedisCache struct {
	client *redis.Client
	prefix string
}

type RedisConfig struct {
	Prefix string
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, config RedisConfig) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: config.Prefix,
	}
}

// key builds the final Redis key with prefix.
func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get retrieves a value from Redis.
// On Redis error, it returns (nil, false, err) so caller can log and treat as miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}

	res, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	return res, true, nil
}

// Set stores a value with TTL. ttl <= 0 deletes the key.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if ttl <= 0 {
		if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
		return nil
	}

	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Clear deletes every key under the cache prefix. A prefix is required so a
// shared Redis database is never wiped wholesale.
func (c *RedisCache) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return errors.New("redis clear requires a key prefix")
	}

	iter := c.client.Scan(ctx, 0, c.prefix+":*", clearScanCount).Iterator()
	batch := make([]string, 0, clearScanCount)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearScanCount {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del failed: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	if len(batch) > 0 {
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	return nil
}

// Ping checks if Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return c.client.Ping(ctx).Err()
}
