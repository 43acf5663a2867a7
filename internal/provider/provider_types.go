package provider

import "encoding/json"

// OpenAI-style chat completion, also spoken by the local secondary endpoint.
type openAIChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

type openAIChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

type openAIChatResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

// Anthropic messages API.
type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type anthropicResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Content    []anthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason,omitempty"`
}

// Hugging Face text-generation inference API.
type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
	Options    huggingFaceOptions    `json:"options"`
}

type huggingFaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type huggingFaceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type huggingFaceGeneration struct {
	GeneratedText string `json:"generated_text"`
}

// Ollama /api/generate.
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Error bodies differ per provider: OpenAI and Anthropic nest an object,
// Hugging Face and Ollama use a bare string.
type providerErrorResponse struct {
	Error json.RawMessage `json:"error"`
}

type providerErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// upstreamMessage extracts a human-readable message from an error body.
func upstreamMessage(body []byte) string {
	var perr providerErrorResponse
	if err := json.Unmarshal(body, &perr); err == nil && len(perr.Error) > 0 {
		var detail providerErrorDetail
		if err := json.Unmarshal(perr.Error, &detail); err == nil && detail.Message != "" {
			if detail.Type != "" {
				return detail.Message + " (" + detail.Type + ")"
			}
			return detail.Message
		}
		var msg string
		if err := json.Unmarshal(perr.Error, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return truncate(string(body), 200)
}
