package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "skillbit.log")

	l, err := New("production", path)
	require.NoError(t, err)
	l.Info("session started", "session_id", "abc")
	l.Debug("dropped at info level")
	l.Close()
	l.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session started")
	assert.Contains(t, string(data), `"session_id":"abc"`)
	assert.NotContains(t, string(data), "dropped at info level")
}

func TestEmptyPathIsNop(t *testing.T) {
	l, err := New("development", "")
	require.NoError(t, err)
	l.Warn("nowhere")
	l.Close()
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("user_id", "u1")

	l.Warn("persist failed", "kind", "sessionResults")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "u1", fields["user_id"])
	assert.Equal(t, "sessionResults", fields["kind"])
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}
