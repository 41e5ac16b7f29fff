package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return dir
}

func TestDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data", "skillbit", "skillbit.db"), cfg.DB)
	assert.Equal(t, filepath.Join(dir, "data", "skillbit", "skillbit.log"), cfg.Log.File)
	assert.Equal(t, "production", cfg.Log.Mode)
	assert.Equal(t, 30*time.Second, cfg.Break.Duration)
	assert.Equal(t, 30, cfg.Break.Relief)
	assert.Zero(t, cfg.Session.MaxQuestions)
	assert.Equal(t, 50, cfg.Session.History)
	assert.Equal(t, "", cfg.LLM.Provider)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := isolate(t)
	cfgDir := filepath.Join(dir, "config", "skillbit")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(`
break:
  duration: 45s
  relief: 20
session:
  max_questions: 12
llm:
  provider: mock
`), 0o644))

	t.Setenv("SKILLBIT_BREAK_RELIEF", "40")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Break.Duration)
	assert.Equal(t, 40, cfg.Break.Relief) // env beats file
	assert.Equal(t, 12, cfg.Session.MaxQuestions)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, 40, cfg.Break.Policy().Relief)
}

func TestFlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLBIT_DB", "/from/env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	fs.String("bank", "", "")
	require.NoError(t, fs.Parse([]string{"--db", "/from/flag.db"}))

	cfg, err := Load(Options{Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.db", cfg.DB)
	assert.Equal(t, "", cfg.Bank)
}

func TestEnvWithoutFlag(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLBIT_DB", "/from/env.db")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("db", "", "")
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(Options{Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DB)
}

func TestExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	t.Setenv("SKILLBIT_BREAK_DURATION", "0s")
	t.Setenv("SKILLBIT_BREAK_RELIEF", "120")
	t.Setenv("SKILLBIT_SESSION_MAX_QUESTIONS", "-1")
	t.Setenv("SKILLBIT_SESSION_HISTORY", "-3")
	t.Setenv("SKILLBIT_LLM_PROVIDER", "skynet")
	t.Setenv("SKILLBIT_LOG_MODE", "loud")

	_, err := Load(Options{})
	require.Error(t, err)
	for _, want := range []string{"break.duration", "break.relief", "session.max_questions", "session.history", "llm.provider", "log.mode"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLLMClientConfig(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("OPENROUTER_API_KEY", "")

	c := LLMConfig{Gemini: ProviderConfig{Model: "gemini-flash"}}
	got := c.Client()
	assert.Equal(t, "gemini", got.Provider)
	assert.Equal(t, "env-gemini", got.Gemini.APIKey)
	assert.Equal(t, "gemini-flash", got.Gemini.Model)

	c.Provider = "none"
	assert.False(t, c.Client().Enabled())
}
