package provider

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// OpenAIProvider calls the OpenAI chat completions API.
type OpenAIProvider struct {
	cfg         HostedConfig
	maxTokens   int
	temperature float32
	t           *transport
}

func NewOpenAI(cfg Config, logger *zap.Logger) *OpenAIProvider {
	cfg = cfg.WithDefaults()
	return &OpenAIProvider{
		cfg:         cfg.OpenAI,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		t:           newTransport(cfg, logger),
	}
}

func (p *OpenAIProvider) ID() ID { return OpenAI }

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", credentialsMissing(OpenAI)
	}

	req := openAIChatRequest{
		Model: p.cfg.Model,
		Messages: []ChatMessage{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: prompt},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}

	var resp openAIChatResponse
	err := p.t.postJSON(ctx, OpenAI, p.cfg.BaseURL+"/v1/chat/completions", map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	}, req, &resp)
	if err != nil {
		return "", err
	}

	return firstChoice(OpenAI, resp)
}

func (p *OpenAIProvider) Close() error { return p.t.Close() }

func firstChoice(id ID, resp openAIChatResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", upstreamError(id, 0, "provider returned no choices", nil)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", upstreamError(id, 0, "provider returned empty content", nil)
	}
	return content, nil
}
