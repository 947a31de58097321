package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Defaults for narration requests.
const (
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.3
)

// ErrEmptyNarration is returned when the provider answers with no usable text.
var ErrEmptyNarration = errors.New("ai: provider returned an empty narration")

// Narrator implements interfaces.Narrator using an LLM provider.
type Narrator struct {
	provider    LLMProvider
	maxTokens   int
	temperature float64
}

// Option configures a Narrator.
type Option func(*Narrator)

// WithMaxTokens sets the completion token limit.
func WithMaxTokens(n int) Option {
	return func(r *Narrator) {
		if n > 0 {
			r.maxTokens = n
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(r *Narrator) {
		r.temperature = t
	}
}

// NewNarrator creates a narrator backed by the given LLM provider.
func NewNarrator(provider LLMProvider, opts ...Option) *Narrator {
	n := &Narrator{
		provider:    provider,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Narrate sends the prompts to the provider and returns the markdown body
// with any wrapping code fence removed.
func (n *Narrator) Narrate(ctx context.Context, system, prompt string) (string, error) {
	start := time.Now()

	response, err := n.provider.Complete(ctx, prompt, CompletionOpts{
		MaxTokens:    n.maxTokens,
		Temperature:  n.temperature,
		SystemPrompt: system,
	})
	if err != nil {
		return "", fmt.Errorf("ai: narrating report: %w", err)
	}

	body := stripCodeFences(response)
	if body == "" {
		return "", ErrEmptyNarration
	}

	slog.Debug("narration complete", "chars", len(body), "duration", time.Since(start),
		"preview", truncateStr(body, 80))
	return body, nil
}

// Available returns true if the LLM provider is configured and reachable.
func (n *Narrator) Available(ctx context.Context) bool {
	return n.provider.Available(ctx)
}

// stripCodeFences removes a markdown code fence (```markdown ... ```) wrapping the whole response.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	// Remove opening fence (```markdown or ```)
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// truncateStr shortens s to at most maxLen bytes plus "...".
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:runeBoundary(s, maxLen)] + "..."
}

// runeBoundary returns the largest cut point not after n that keeps s[:cut] valid UTF-8.
func runeBoundary(s string, n int) int {
	if n >= len(s) {
		return len(s)
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
