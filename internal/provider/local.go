package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// LocalProvider talks to an inference server on the local host. It prefers
// the Ollama API at PrimaryURL and falls back to an OpenAI-compatible server
// at SecondaryURL. Availability is probed once, at construction.
type LocalProvider struct {
	cfg         LocalConfig
	maxTokens   int
	temperature float32
	t           *transport
	logger      *zap.Logger
	available   bool
}

// NewLocal builds the adapter and probes both endpoints within
// cfg.Local.ProbeTimeout (2s by default).
func NewLocal(ctx context.Context, cfg Config, logger *zap.Logger) *LocalProvider {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &LocalProvider{
		cfg:         cfg.Local,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		t:           newTransport(cfg, logger),
		logger:      logger.Named("provider").With(zap.String("provider", string(Local))),
	}
	p.available = p.probe(ctx)
	p.logger.Info("local inference probe",
		zap.Bool("available", p.available),
		zap.String("primary_url", p.cfg.PrimaryURL),
		zap.String("secondary_url", p.cfg.SecondaryURL),
	)
	return p
}

func (p *LocalProvider) ID() ID { return Local }

// Available reports the result of the startup probe.
func (p *LocalProvider) Available() bool { return p.available }

func (p *LocalProvider) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.ProbeTimeout)
	defer cancel()

	for _, u := range []string{p.cfg.PrimaryURL + "/api/tags", p.cfg.SecondaryURL + "/v1/models"} {
		status, err := p.t.get(ctx, u)
		if err == nil && status == http.StatusOK {
			return true
		}
	}
	return false
}

func (p *LocalProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if !p.available {
		return "", unavailable(Local, "no local inference server detected at startup", nil)
	}

	out, primaryErr := p.generate(ctx, prompt)
	if primaryErr == nil {
		return out, nil
	}
	if isContextError(ctx.Err()) {
		return "", unavailable(Local, "primary endpoint failed", primaryErr)
	}

	p.logger.Warn("local primary endpoint failed, trying secondary", zap.Error(primaryErr))

	out, secondaryErr := p.chat(ctx, prompt)
	if secondaryErr == nil {
		return out, nil
	}

	return "", unavailable(Local, "primary and secondary endpoints failed", errors.Join(primaryErr, secondaryErr))
}

// generate calls Ollama's /api/generate in JSON mode.
func (p *LocalProvider) generate(ctx context.Context, prompt string) (string, error) {
	req := ollamaGenerateRequest{
		Model:  p.cfg.Model,
		Prompt: prompt,
		System: systemPrompt,
		Format: "json",
	}

	var resp ollamaGenerateResponse
	if err := p.t.postJSON(ctx, Local, p.cfg.PrimaryURL+"/api/generate", nil, req, &resp); err != nil {
		return "", err
	}
	out := strings.TrimSpace(resp.Response)
	if out == "" {
		return "", upstreamError(Local, 0, "primary endpoint returned empty response", nil)
	}
	return out, nil
}

// chat calls the OpenAI-compatible /v1/chat/completions endpoint.
func (p *LocalProvider) chat(ctx context.Context, prompt string) (string, error) {
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
	if err := p.t.postJSON(ctx, Local, p.cfg.SecondaryURL+"/v1/chat/completions", nil, req, &resp); err != nil {
		return "", err
	}
	return firstChoice(Local, resp)
}

func (p *LocalProvider) Close() error { return p.t.Close() }
