package provider

import (
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOpenAIBaseURL      = "https://api.openai.com"
	DefaultAnthropicBaseURL   = "https://api.anthropic.com"
	DefaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"
	DefaultLocalPrimaryURL    = "http://localhost:11434"
	DefaultLocalSecondaryURL  = "http://localhost:1234"

	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultAnthropicModel   = "claude-3-haiku-20240307"
	DefaultHuggingFaceModel = "mistralai/Mistral-7B-Instruct-v0.2"
	DefaultLocalModel       = "llama3.2"

	// DefaultProbeTimeout bounds the one-time local availability probe.
	DefaultProbeTimeout = 2 * time.Second
)

// HostedConfig configures one API-key-authenticated provider. An empty
// APIKey makes every call fail fast with ErrCredentialsMissing.
type HostedConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// LocalConfig configures the local inference adapter.
type LocalConfig struct {
	PrimaryURL   string        `yaml:"primary_url"`
	SecondaryURL string        `yaml:"secondary_url"`
	Model        string        `yaml:"model"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

type Config struct {
	OpenAI      HostedConfig `yaml:"openai"`
	Anthropic   HostedConfig `yaml:"anthropic"`
	HuggingFace HostedConfig `yaml:"huggingface"`
	Local       LocalConfig  `yaml:"local"`

	MaxTokens   int     `yaml:"max_tokens"`  // default: 1024
	Temperature float32 `yaml:"temperature"` // default: 0.7

	UpstreamTimeout time.Duration `yaml:"upstream_timeout"` // per HTTP call (default: 30s)
	MaxRetries      int           `yaml:"max_retries"`      // extra attempts on transient failures (default: 0)
	BaseBackoff     time.Duration `yaml:"base_backoff"`     // initial backoff (default: 100ms)

	// Optional connection pool settings
	MaxIdleConns        int `yaml:"max_idle_conns"`          // default: 100
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"` // default: 100

	// Custom HTTP client (for testing or special configs)
	HTTPClient *http.Client `yaml:"-"`
}

// WithDefaults returns a copy of Config with sane defaults applied.
func (c *Config) WithDefaults() Config {
	cfg := *c

	cfg.OpenAI = cfg.OpenAI.withDefaults(DefaultOpenAIBaseURL, DefaultOpenAIModel)
	cfg.Anthropic = cfg.Anthropic.withDefaults(DefaultAnthropicBaseURL, DefaultAnthropicModel)
	cfg.HuggingFace = cfg.HuggingFace.withDefaults(DefaultHuggingFaceBaseURL, DefaultHuggingFaceModel)

	if cfg.Local.PrimaryURL == "" {
		cfg.Local.PrimaryURL = DefaultLocalPrimaryURL
	}
	if cfg.Local.SecondaryURL == "" {
		cfg.Local.SecondaryURL = DefaultLocalSecondaryURL
	}
	cfg.Local.PrimaryURL = strings.TrimRight(cfg.Local.PrimaryURL, "/")
	cfg.Local.SecondaryURL = strings.TrimRight(cfg.Local.SecondaryURL, "/")
	if cfg.Local.Model == "" {
		cfg.Local.Model = DefaultLocalModel
	}
	if cfg.Local.ProbeTimeout <= 0 {
		cfg.Local.ProbeTimeout = DefaultProbeTimeout
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.7
	}
	if cfg.UpstreamTimeout <= 0 {
		cfg.UpstreamTimeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 100
	}
	if cfg.MaxIdleConnsPerHost <= 0 {
		cfg.MaxIdleConnsPerHost = 100
	}

	return cfg
}

func (h HostedConfig) withDefaults(baseURL, model string) HostedConfig {
	if h.BaseURL == "" {
		h.BaseURL = baseURL
	}
	// Normalize BaseURL: trim trailing slashes so we can safely append paths.
	h.BaseURL = strings.TrimRight(h.BaseURL, "/")
	if h.Model == "" {
		h.Model = model
	}
	h.APIKey = strings.TrimSpace(h.APIKey)
	return h
}

// defaultTransport creates a production-ready HTTP transport
// with connection pooling and reasonable timeouts.
func defaultTransport(cfg Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// newHTTPClient returns cfg.HTTPClient or a pooled default.
func newHTTPClient(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return &http.Client{Transport: defaultTransport(cfg)}
}
