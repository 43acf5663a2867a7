package provider

import (
	"context"
	"fmt"
)

// ID names one of the supported completion backends.
type ID string

const (
	// Local is an inference server on the same host (Ollama, with an
	// OpenAI-compatible server as secondary endpoint).
	Local ID = "local"
	// HuggingFace is the hosted small-model inference API.
	HuggingFace ID = "huggingface"
	// OpenAI is the first hosted chat-completion API.
	OpenAI ID = "openai"
	// Anthropic is the second hosted chat-completion API.
	Anthropic ID = "anthropic"
)

// IDs lists every provider in a stable order.
func IDs() []ID {
	return []ID{Local, HuggingFace, OpenAI, Anthropic}
}

// ParseID validates a provider name from configuration.
func ParseID(s string) (ID, error) {
	for _, id := range IDs() {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Provider turns a prompt into the backend's raw text completion.
// Errors match ErrCredentialsMissing, ErrUpstreamUnavailable or
// ErrUpstreamError via errors.Is.
type Provider interface {
	ID() ID
	Complete(ctx context.Context, prompt string) (string, error)
}

// Registry maps provider ids to constructed adapters.
type Registry map[ID]Provider

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// systemPrompt frames every hosted chat call; the task prompt carries the
// output schema.
const systemPrompt = "You are an expert event planner for a venue and vendor marketplace. " +
	"Respond only with valid JSON matching the requested shape, with no prose or markdown."
