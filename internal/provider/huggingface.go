package provider

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// HuggingFaceProvider calls the hosted text-generation inference API.
type HuggingFaceProvider struct {
	cfg         HostedConfig
	maxTokens   int
	temperature float32
	t           *transport
}

func NewHuggingFace(cfg Config, logger *zap.Logger) *HuggingFaceProvider {
	cfg = cfg.WithDefaults()
	return &HuggingFaceProvider{
		cfg:         cfg.HuggingFace,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		t:           newTransport(cfg, logger),
	}
}

func (p *HuggingFaceProvider) ID() ID { return HuggingFace }

func (p *HuggingFaceProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if p.cfg.APIKey == "" {
		return "", credentialsMissing(HuggingFace)
	}

	// Instruction models take the system framing inline.
	req := huggingFaceRequest{
		Inputs: systemPrompt + "\n\n" + prompt,
		Parameters: huggingFaceParameters{
			MaxNewTokens: p.maxTokens,
			Temperature:  p.temperature,
		},
		Options: huggingFaceOptions{WaitForModel: true},
	}

	var resp []huggingFaceGeneration
	err := p.t.postJSON(ctx, HuggingFace, p.cfg.BaseURL+"/models/"+modelPath(p.cfg.Model), map[string]string{
		"Authorization": "Bearer " + p.cfg.APIKey,
	}, req, &resp)
	if err != nil {
		return "", err
	}

	if len(resp) == 0 {
		return "", upstreamError(HuggingFace, 0, "provider returned no generations", nil)
	}
	out := strings.TrimSpace(resp[0].GeneratedText)
	if out == "" {
		return "", upstreamError(HuggingFace, 0, "provider returned empty generation", nil)
	}
	return out, nil
}

func (p *HuggingFaceProvider) Close() error { return p.t.Close() }

// modelPath escapes each segment of an "org/model" id.
func modelPath(model string) string {
	segments := strings.Split(model, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
