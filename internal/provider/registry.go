package provider

import (
	"context"

	"go.uber.org/zap"
)

// NewRegistry constructs every adapter over one pooled HTTP client. The local
// adapter probes its endpoints here, bounded by ctx and the probe timeout.
func NewRegistry(ctx context.Context, cfg Config, logger *zap.Logger) Registry {
	cfg = cfg.WithDefaults()
	cfg.HTTPClient = newHTTPClient(cfg)

	return Registry{
		Local:       NewLocal(ctx, cfg, logger),
		HuggingFace: NewHuggingFace(cfg, logger),
		OpenAI:      NewOpenAI(cfg, logger),
		Anthropic:   NewAnthropic(cfg, logger),
	}
}

// Close releases pooled connections held by the adapters.
func (r Registry) Close() error {
	for _, p := range r {
		if closer, ok := p.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}
	return nil
}
