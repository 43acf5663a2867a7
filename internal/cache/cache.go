package cache

import (
	"context"
	"time"
)

// Cache stores serialized dispatch results keyed by Key.String().
// Implemented by MemoryCache (default) and RedisCache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Clear(ctx context.Context) error
}
