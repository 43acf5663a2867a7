package cache

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Backend  string
	Capacity int
	Prefix   string
}

// New builds the configured backend. The redis backend requires a client.
func New(cfg Config, redisClient *redis.Client) (Cache, error) {
	switch cfg.Backend {
	case BackendRedis:
		if redisClient == nil {
			return nil, errors.New("redis cache backend requires a redis client")
		}
		return NewRedisCache(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
		}), nil
	case BackendMemory, "":
		return NewMemoryCache(cfg.Capacity), nil
	default:
		return nil, errors.New("unknown cache backend " + cfg.Backend)
	}
}
