package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// anthropicVersion is sent on every call; the messages API rejects requests
// without it.
const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Anthropic messages API.
type AnthropicProvider struct {
	cfg         HostedConfig
	maxTokens   int
	temperature float32
	t           *transport
}

func NewAnthropic(cfg Config, logger *zap.Logger) *AnthropicProvider {
	cfg = cfg.WithDefaults()
	return &AnthropicProvider{
		cfg:         cfg.Anthropic,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		t:           newTransport(cfg, logger),
	}
}

func (p *AnthropicProvider) ID() ID { return Anthropic }

func (p *AnthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", credentialsMissing(Anthropic)
	}

	req := anthropicRequest{
		Model:     p.cfg.Model,
		MaxTokens: p.maxTokens,
		System:    systemPrompt,
		Messages: []ChatMessage{
			{Role: RoleUser, Content: prompt},
		},
		Temperature: p.temperature,
	}

	var resp anthropicResponse
	err := p.t.postJSON(ctx, Anthropic, p.cfg.BaseURL+"/v1/messages", map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}, req, &resp)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", upstreamError(Anthropic, 0, "provider returned no text content", nil)
	}
	return out, nil
}

func (p *AnthropicProvider) Close() error { return p.t.Close() }
