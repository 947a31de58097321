// Package providers implements concrete LLM provider backends.
package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/toyinlola/heft/pkg/ai"
)

// OpenAIProvider talks to any /chat/completions API: OpenAI, Ollama, vLLM,
// LocalAI or OpenRouter.
type OpenAIProvider struct {
	config ai.ProviderConfig
	api    endpoint
}

// NewOpenAIProvider creates a provider for OpenAI-compatible endpoints.
func NewOpenAIProvider(cfg ai.ProviderConfig, timeout time.Duration) *OpenAIProvider {
	headers := http.Header{}
	if cfg.APIKey != "" {
		headers.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	return &OpenAIProvider{
		config: cfg,
		api:    newEndpoint(cfg.Endpoint, timeout, headers),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the system and user prompts and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string, opts ai.CompletionOpts) (string, error) {
	req := chatRequest{
		Model:       p.config.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: temperature(opts.Temperature),
	}
	if opts.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: opts.SystemPrompt})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt})

	var resp chatResponse
	if err := p.api.post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("ai: provider error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: provider returned no choices")
	}

	choice := resp.Choices[0]
	if choice.FinishReason == "length" {
		slog.Warn("narration hit the token limit and may be cut off", "model", p.config.Model, "max_tokens", opts.MaxTokens)
	}
	return choice.Message.Content, nil
}

// Available probes GET /models. A missing endpoint or model is never available.
func (p *OpenAIProvider) Available(ctx context.Context) bool {
	if p.config.Endpoint == "" || p.config.Model == "" {
		return false
	}
	if err := p.api.probe(ctx, "/models"); err != nil {
		slog.Debug("ai: endpoint unreachable", "endpoint", p.config.Endpoint, "error", err)
		return false
	}
	return true
}
