// Package ai builds the narrator prompt context and turns an LLM completion
// into the markdown body of a heaviness report.
package ai

import "context"

// ProviderType names the wire protocol a provider speaks.
type ProviderType string

const (
	// ProviderOpenAICompatible covers any /chat/completions server.
	ProviderOpenAICompatible ProviderType = "openai-compatible"
	// ProviderAnthropic is the Anthropic Messages API.
	ProviderAnthropic ProviderType = "anthropic"
)

// ProviderConfig locates a model. APIKey is never written to a report or log.
type ProviderConfig struct {
	Type     ProviderType
	Endpoint string
	Model    string
	APIKey   string `json:"-" yaml:"-"`
}

// CompletionOpts are per-request generation settings.
// A zero MaxTokens or Temperature leaves the provider default in place.
type CompletionOpts struct {
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

// LLMProvider is a text completion backend.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)

	// Available is false when the backend is unconfigured or unreachable.
	Available(ctx context.Context) bool
}
