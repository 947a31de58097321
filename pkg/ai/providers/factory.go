package providers

import (
	"fmt"
	"time"

	"github.com/toyinlola/heft/pkg/ai"
)

// New builds the provider matching cfg.Type. An empty type or "openai" means OpenAI-compatible.
func New(cfg ai.ProviderConfig, timeout time.Duration) (ai.LLMProvider, error) {
	switch cfg.Type {
	case ai.ProviderOpenAICompatible, "openai", "":
		return NewOpenAIProvider(cfg, timeout), nil
	case ai.ProviderAnthropic:
		return NewAnthropicProvider(cfg, timeout), nil
	default:
		return nil, fmt.Errorf("ai: unknown provider type %q", cfg.Type)
	}
}
