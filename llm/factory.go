package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by New.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// Options configures a provider client.
type Options struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
	// MaxRetries overrides the SDK retry count when >= 0.
	MaxRetries int
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	switch normalizeProvider(provider) {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	case ProviderAnthropic:
		return "claude-haiku-4-5"
	case ProviderGemini:
		return "gemini-2.5-flash-lite"
	default:
		return "google/gemini-2.5-flash-lite"
	}
}

// New creates the Completer for opts.Provider. The default provider is
// OpenRouter through its OpenAI-compatible API.
func New(ctx context.Context, opts Options) (Completer, error) {
	if opts.Model == "" {
		opts.Model = DefaultModel(opts.Provider)
	}

	switch normalizeProvider(opts.Provider) {
	case ProviderOpenRouter:
		if opts.BaseURL == "" {
			opts.BaseURL = OpenRouterBaseURL
		}
		return NewOpenAIClient(opts), nil
	case ProviderOpenAI:
		return NewOpenAIClient(opts), nil
	case ProviderAnthropic:
		return NewAnthropicClient(opts), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openrouter, openai, anthropic, gemini)", opts.Provider)
	}
}

func normalizeProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return ProviderOpenRouter
	}
	return provider
}
