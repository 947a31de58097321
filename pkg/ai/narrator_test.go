package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a test double for LLMProvider.
type mockProvider struct {
	response  string
	available bool
	err       error

	gotPrompt string
	gotOpts   CompletionOpts
}

func (m *mockProvider) Complete(_ context.Context, prompt string, opts CompletionOpts) (string, error) {
	m.gotPrompt = prompt
	m.gotOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockProvider) Available(_ context.Context) bool {
	return m.available
}

func TestNarrator_Narrate(t *testing.T) {
	p := &mockProvider{response: "# Heaviness Report: a/b\n\n## Summary\nLight."}
	n := NewNarrator(p, WithMaxTokens(512), WithTemperature(0.1))

	out, err := n.Narrate(context.Background(), "system", "user")
	require.NoError(t, err)

	assert.Equal(t, "# Heaviness Report: a/b\n\n## Summary\nLight.", out)
	assert.Equal(t, "user", p.gotPrompt)
	assert.Equal(t, CompletionOpts{MaxTokens: 512, Temperature: 0.1, SystemPrompt: "system"}, p.gotOpts)
}

func TestNarrator_Defaults(t *testing.T) {
	p := &mockProvider{response: "ok"}
	_, err := NewNarrator(p, WithMaxTokens(0)).Narrate(context.Background(), "", "x")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, p.gotOpts.MaxTokens)
	assert.Equal(t, DefaultTemperature, p.gotOpts.Temperature)
}

func TestNarrator_StripsFence(t *testing.T) {
	p := &mockProvider{response: "```markdown\n# Report\n\nbody\n```\n"}
	out, err := NewNarrator(p).Narrate(context.Background(), "", "x")
	require.NoError(t, err)
	assert.Equal(t, "# Report\n\nbody", out)
}

func TestNarrator_Errors(t *testing.T) {
	_, err := NewNarrator(&mockProvider{err: errors.New("down")}).Narrate(context.Background(), "", "x")
	assert.ErrorContains(t, err, "ai: narrating report: down")

	_, err = NewNarrator(&mockProvider{response: "  ```\n```  "}).Narrate(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrEmptyNarration)
}

func TestNarrator_Available(t *testing.T) {
	assert.True(t, NewNarrator(&mockProvider{available: true}).Available(context.Background()))
	assert.False(t, NewNarrator(&mockProvider{}).Available(context.Background()))
}

func TestStripCodeFences(t *testing.T) {
	tests := map[string]string{
		"plain":                "plain",
		"```\nfenced\n```":     "fenced",
		"```md\n# A\n```":      "# A",
		"text with ``` inside": "text with ``` inside",
		"```\nunterminated":    "unterminated",
	}
	for in, want := range tests {
		assert.Equal(t, want, stripCodeFences(in), in)
	}
}
