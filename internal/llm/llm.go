package llm

import (
	"context"
	"fmt"

	"mealwise/internal/config"
	"mealwise/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// NewFromConfig builds the generator for the configured provider.
// The caller should close the result when it implements Closer.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderGroq:
		return NewGroqClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
