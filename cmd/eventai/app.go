package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/midunthangavel/fixmyevent-sub001/internal/cache"
	"github.com/midunthangavel/fixmyevent-sub001/internal/config"
	"github.com/midunthangavel/fixmyevent-sub001/internal/dispatch"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

// app is the wired dispatch stack shared by every command.
type app struct {
	cfg        *config.Config
	registry   provider.Registry
	dispatcher *dispatch.Dispatcher
	closers    []func() error
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg}

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.Cache.Backend == cache.BackendRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})
		a.closers = append(a.closers, redisClient.Close)

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("redis connection failed", zap.Error(err))
			_ = a.Close()
			return nil, err
		}
		logger.Info("redis connection established",
			zap.String("addr", cfg.Cache.RedisAddr),
		)
	}

	// ----- Response cache -----
	store, err := cache.New(cache.Config{
		Backend:  cfg.Cache.Backend,
		Capacity: cfg.Cache.Capacity,
		Prefix:   cfg.Cache.Prefix,
	}, redisClient)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	loggingCache := cache.NewLoggingCache(store, logger)
	if closer, ok := loggingCache.(interface{ Close() error }); ok {
		a.closers = append(a.closers, closer.Close)
	}

	// ----- Providers -----
	a.registry = provider.NewRegistry(ctx, cfg.Providers, logger)
	a.closers = append(a.closers, a.registry.Close)

	a.dispatcher = dispatch.New(cfg.Dispatch, a.registry, loggingCache, logger)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
