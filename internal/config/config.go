package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/midunthangavel/fixmyevent-sub001/internal/cache"
	"github.com/midunthangavel/fixmyevent-sub001/internal/dispatch"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Dispatch  dispatch.Config `yaml:"dispatch"`
	Providers provider.Config `yaml:"providers"`
}

type ServerConfig struct {
	Port           string        `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// CacheConfig selects the response cache backend. RedisAddr is only used by
// the redis backend.
type CacheConfig struct {
	Backend   string `yaml:"backend"`
	Capacity  int    `yaml:"capacity"`
	Prefix    string `yaml:"prefix"`
	RedisAddr string `yaml:"redis_addr"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			RequestTimeout: 90 * time.Second,
			MaxBodyBytes:   64 * 1024,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendMemory,
			Capacity:  100,
			Prefix:    "eventai",
			RedisAddr: "127.0.0.1:6379",
		},
		Dispatch: dispatch.Config{
			Primary:      provider.OpenAI,
			Fallback:     provider.Local,
			CacheEnabled: true,
			TTLs:         dispatch.DefaultTTLs(),
			CallTimeout:  dispatch.DefaultCallTimeout,
		},
		Providers: provider.Config{
			OpenAI:      provider.HostedConfig{BaseURL: provider.DefaultOpenAIBaseURL, Model: provider.DefaultOpenAIModel},
			Anthropic:   provider.HostedConfig{BaseURL: provider.DefaultAnthropicBaseURL, Model: provider.DefaultAnthropicModel},
			HuggingFace: provider.HostedConfig{BaseURL: provider.DefaultHuggingFaceBaseURL, Model: provider.DefaultHuggingFaceModel},
			Local: provider.LocalConfig{
				PrimaryURL:   provider.DefaultLocalPrimaryURL,
				SecondaryURL: provider.DefaultLocalSecondaryURL,
				Model:        provider.DefaultLocalModel,
				ProbeTimeout: provider.DefaultProbeTimeout,
			},
		},
	}
}

// Load reads an optional YAML file over Default, expanding environment
// variables in it, then applies environment overrides. An empty path skips
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. lookup is
// os.Getenv outside tests.
func (c *Config) ApplyEnv(lookup func(string) string) error {
	getenv := func(key, def string) string {
		if v := lookup(key); v != "" {
			return v
		}
		return def
	}

	c.Server.Port = getenv("PORT", c.Server.Port)
	c.Cache.Backend = getenv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.RedisAddr = getenv("REDIS_ADDR", c.Cache.RedisAddr)

	c.Dispatch.Primary = provider.ID(getenv("AI_PRIMARY_PROVIDER", string(c.Dispatch.Primary)))
	c.Dispatch.Fallback = provider.ID(getenv("AI_FALLBACK_PROVIDER", string(c.Dispatch.Fallback)))

	c.Providers.OpenAI.APIKey = getenv("OPENAI_API_KEY", c.Providers.OpenAI.APIKey)
	c.Providers.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY", c.Providers.Anthropic.APIKey)
	c.Providers.HuggingFace.APIKey = getenv("HUGGINGFACE_API_KEY", c.Providers.HuggingFace.APIKey)
	c.Providers.Local.PrimaryURL = getenv("LOCAL_AI_URL", c.Providers.Local.PrimaryURL)

	if v := lookup("AI_CACHE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AI_CACHE_ENABLED: %w", err)
		}
		c.Dispatch.CacheEnabled = enabled
	}
	if v := lookup("AI_CACHE_CAPACITY"); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AI_CACHE_CAPACITY: %w", err)
		}
		c.Cache.Capacity = capacity
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port: %w", err)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}

	switch c.Cache.Backend {
	case cache.BackendMemory:
		if c.Cache.Capacity <= 0 {
			return errors.New("cache.capacity must be positive")
		}
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis backend")
		}
		if c.Cache.Prefix == "" {
			return errors.New("cache.prefix is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}

	if err := c.Dispatch.Validate(); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}
	return nil
}
