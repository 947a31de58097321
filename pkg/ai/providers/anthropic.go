package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/toyinlola/heft/pkg/ai"
)

const (
	// DefaultAnthropicEndpoint is the public Anthropic API base URL.
	DefaultAnthropicEndpoint = "https://api.anthropic.com/v1"
	anthropicVersion         = "2023-06-01"
	anthropicDefaultTokens   = 2048
)

// AnthropicProvider implements ai.LLMProvider for the Anthropic Messages API.
type AnthropicProvider struct {
	config ai.ProviderConfig
	api    endpoint
}

// NewAnthropicProvider creates a provider for the Anthropic Messages API.
// An empty endpoint defaults to DefaultAnthropicEndpoint.
func NewAnthropicProvider(cfg ai.ProviderConfig, timeout time.Duration) *AnthropicProvider {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultAnthropicEndpoint
	}
	headers := http.Header{}
	headers.Set("x-api-key", cfg.APIKey)
	headers.Set("anthropic-version", anthropicVersion)

	return &AnthropicProvider{
		config: cfg,
		api:    newEndpoint(cfg.Endpoint, timeout, headers),
	}
}

type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt to the Messages API and returns the joined text blocks.
func (p *AnthropicProvider) Complete(ctx context.Context, prompt string, opts ai.CompletionOpts) (string, error) {
	req := messagesRequest{
		Model:       p.config.Model,
		MaxTokens:   anthropicDefaultTokens,
		System:      opts.SystemPrompt,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	var resp messagesResponse
	if err := p.api.post(ctx, "/messages", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("ai: provider error: %s: %s", resp.Error.Type, resp.Error.Message)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("ai: no text content in response")
	}

	if resp.StopReason == "max_tokens" {
		slog.Warn("narration hit the token limit and may be cut off", "model", p.config.Model, "max_tokens", req.MaxTokens)
	}
	return text.String(), nil
}

// Available reports whether the provider has the credentials and model it needs.
// No request is sent.
func (p *AnthropicProvider) Available(_ context.Context) bool {
	return p.config.APIKey != "" && p.config.Model != ""
}
