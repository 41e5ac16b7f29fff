// Package config loads SkillBit's layered configuration: defaults, an
// optional config.yaml, SKILLBIT_* environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skillbit/skillbit/internal/breaks"
	"github.com/skillbit/skillbit/internal/llm"
	"github.com/skillbit/skillbit/internal/store"
)

// EnvPrefix prefixes every environment override, e.g. SKILLBIT_DB.
const EnvPrefix = "SKILLBIT"

// Config holds all application configuration.
type Config struct {
	DB      string        `mapstructure:"db"`
	Bank    string        `mapstructure:"bank"`
	Log     LogConfig     `mapstructure:"log"`
	Break   BreakConfig   `mapstructure:"break"`
	Session SessionConfig `mapstructure:"session"`
	LLM     LLMConfig     `mapstructure:"llm"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Mode string `mapstructure:"mode"` // development or production
	File string `mapstructure:"file"` // empty disables logging
}

// BreakConfig sets the rest-break policy.
type BreakConfig struct {
	Duration time.Duration `mapstructure:"duration"`
	Relief   int           `mapstructure:"relief"`
}

// Policy converts the section into a break policy.
func (b BreakConfig) Policy() breaks.Policy {
	return breaks.Policy{Duration: b.Duration, Relief: b.Relief}
}

// SessionConfig tunes the practice loop.
type SessionConfig struct {
	// MaxQuestions caps a session's length. Zero runs until the pool is exhausted.
	MaxQuestions int `mapstructure:"max_questions"`
	// History is how many finished sessions are kept. Zero keeps all.
	History int `mapstructure:"history"`
}

// LLMConfig selects the coach's language model.
type LLMConfig struct {
	// Provider is anthropic, openai, gemini, openrouter, mock or none.
	// Empty picks the first provider whose standard API key variable is set.
	Provider   string         `mapstructure:"provider"`
	Timeout    time.Duration  `mapstructure:"timeout"`
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Client converts to the llm package's config, filling API keys from
// the conventional provider environment variables.
func (c LLMConfig) Client() llm.Config {
	convert := func(p ProviderConfig) llm.ProviderConfig {
		return llm.ProviderConfig{APIKey: p.APIKey, Model: p.Model, BaseURL: p.BaseURL}
	}
	return llm.Config{
		Provider:   c.Provider,
		Timeout:    c.Timeout,
		Anthropic:  convert(c.Anthropic),
		OpenAI:     convert(c.OpenAI),
		Gemini:     convert(c.Gemini),
		OpenRouter: convert(c.OpenRouter),
	}.Discover(os.Getenv)
}

// Options tells Load where to look beyond the defaults.
type Options struct {
	// ConfigFile is an explicit config path. Empty searches the user config dir.
	ConfigFile string
	// Flags are bound by name: "db" and "bank" override their keys when set.
	Flags *pflag.FlagSet
}

// Load resolves the configuration. A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for _, name := range []string{"db", "bank"} {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(name, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) error {
	dataDir, err := store.DataDir()
	if err != nil {
		return err
	}

	v.SetDefault("db", filepath.Join(dataDir, "skillbit.db"))
	v.SetDefault("bank", "")
	v.SetDefault("log.mode", "production")
	v.SetDefault("log.file", filepath.Join(dataDir, "skillbit.log"))

	policy := breaks.DefaultPolicy()
	v.SetDefault("break.duration", policy.Duration)
	v.SetDefault("break.relief", policy.Relief)
	v.SetDefault("session.max_questions", 0)
	v.SetDefault("session.history", 50)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-haiku")
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", "gemini-flash")
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", "google/gemini-2.0-flash-exp")
	v.SetDefault("llm.openrouter.base_url", "")
	return nil
}

// ConfigDir returns $XDG_CONFIG_HOME/skillbit, falling back to ~/.config/skillbit.
func ConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "skillbit"), nil
}

// Validate performs all structural checks on the configuration.
// Returns a combined error describing all problems found, or nil if valid.
func (c *Config) Validate() error {
	var errs []string

	if c.DB == "" {
		errs = append(errs, "db: path must not be empty")
	}
	switch strings.ToLower(c.Log.Mode) {
	case "dev", "development", "prod", "production":
	default:
		errs = append(errs, fmt.Sprintf("log.mode: unknown mode %q", c.Log.Mode))
	}
	if c.Break.Duration <= 0 {
		errs = append(errs, fmt.Sprintf("break.duration: must be positive, got %s", c.Break.Duration))
	}
	if c.Break.Relief < 0 || c.Break.Relief > 100 {
		errs = append(errs, fmt.Sprintf("break.relief: must be within [0,100], got %d", c.Break.Relief))
	}
	if c.Session.MaxQuestions < 0 {
		errs = append(errs, fmt.Sprintf("session.max_questions: must not be negative, got %d", c.Session.MaxQuestions))
	}
	if c.Session.History < 0 {
		errs = append(errs, fmt.Sprintf("session.history: must not be negative, got %d", c.Session.History))
	}
	switch c.LLM.Provider {
	case "", "none", "mock", "anthropic", "openai", "gemini", "openrouter":
	default:
		errs = append(errs, fmt.Sprintf("llm.provider: unknown provider %q", c.LLM.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
