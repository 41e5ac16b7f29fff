package llm

import (
	"fmt"
	"time"
)

// Provider names accepted by New.
const (
	ProviderNone       = "none"
	ProviderMock       = "mock"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is one of the Provider* names. Empty means auto-detect.
	Provider   string
	Timeout    time.Duration
	Retry      RetryConfig
	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// envKeys are the conventional API key variables, in detection order.
var envKeys = []struct {
	provider string
	env      string
}{
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// Discover fills missing API keys from the conventional environment
// variables and, when Provider is empty, picks the first provider with a
// key. With no key anywhere the provider becomes ProviderNone.
func (c Config) Discover(getenv func(string) string) Config {
	for _, k := range envKeys {
		pc := c.settings(k.provider)
		if pc.APIKey == "" {
			pc.APIKey = getenv(k.env)
		}
	}
	if c.Provider != "" {
		return c
	}
	c.Provider = ProviderNone
	for _, k := range envKeys {
		if c.settings(k.provider).APIKey != "" {
			c.Provider = k.provider
			break
		}
	}
	return c
}

// Enabled reports whether a real or mock provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		pc := c.settings(c.Provider)
		if pc.APIKey == "" {
			return fmt.Errorf("llm: %s requires an API key", c.Provider)
		}
		if pc.Model == "" {
			return fmt.Errorf("llm: %s requires a model", c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("llm: unknown provider %q", c.Provider)
	}
}

func (c *Config) settings(provider string) *ProviderConfig {
	switch provider {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return &ProviderConfig{}
}
