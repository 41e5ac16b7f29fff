package llm

import (
	"context"
	"fmt"

	"github.com/skillbit/skillbit/internal/logger"
	"github.com/skillbit/skillbit/internal/store"
)

// New builds the configured provider wrapped as caller → retry → logging
// → base, so every attempt is recorded. It returns (nil, nil) when the
// provider is ProviderNone or empty.
func New(ctx context.Context, cfg Config, events store.LLMEventLogger, log *logger.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderMock:
		base = &MockProvider{Fallback: []byte(`{"headline":"Nice work!","tip":"Keep practicing a little every day."}`)}
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}
	return WithRetry(WithLogging(base, cfg.Provider, events, log), retry), nil
}
