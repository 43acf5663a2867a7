package cache

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/midunthangavel/fixmyevent-sub001/internal/metrics"
	"github.com/midunthangavel/fixmyevent-sub001/pkg/logging/logging"
)

// LoggingCache wraps a Cache with logging + metrics.
type LoggingCache struct {
	inner  Cache
	logger *zap.Logger
}

// NewLoggingCache returns a cache that logs and records metrics. The logger
// is used when the request context does not carry one.
func NewLoggingCache(inner Cache, logger *zap.Logger) Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingCache{inner: inner, logger: logger.Named("cache")}
}

func (c *LoggingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}

	parts, parsed := parseKey(key)
	task := "unknown"
	if parsed {
		task = parts.task
	}
	metrics.CacheLookupsTotal.WithLabelValues(task, result).Inc()

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.String("cache_result", result), // hit | miss | error
		zap.Float64("latency_ms", latencyMs),
	}
	if parsed {
		fields = append(fields, zap.String("task", parts.task), zap.String("hash", parts.hash))
	}

	logger := logging.Scoped(ctx, c.logger)
	if err != nil {
		logger.Error("cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("cache_get", fields...)
	}

	return value, ok, err
}

func (c *LoggingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	fields := []zap.Field{
		zap.String("cache_key", key),
		zap.Duration("ttl", ttl),
		zap.Int("bytes", len(value)),
		zap.Float64("latency_ms", latencyMs),
	}

	logger := logging.Scoped(ctx, c.logger)
	if err != nil {
		logger.Error("cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("cache_set", fields...)
	}

	return err
}

func (c *LoggingCache) Clear(ctx context.Context) error {
	err := c.inner.Clear(ctx)
	logger := logging.Scoped(ctx, c.logger)
	if err != nil {
		logger.Error("cache_clear", zap.Error(err))
	} else {
		logger.Info("cache_clear")
	}
	return err
}

// Close releases the wrapped cache if it holds resources.
func (c *LoggingCache) Close() error {
	if closer, ok := c.inner.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

type keyParts struct {
	task string
	hash string
}

// parseKey reads the last two segments of [<PREFIX>:]<TASK>:<HASH>, so
// keys arrive with or without a namespace prefix.
func parseKey(key string) (keyParts, bool) {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 || i == len(key)-1 {
		return keyParts{}, false
	}
	head, hash := key[:i], key[i+1:]
	task := head[strings.LastIndexByte(head, ':')+1:]
	if task == "" {
		return keyParts{}, false
	}
	return keyParts{task: task, hash: hash}, true
}
