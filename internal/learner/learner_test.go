package learner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbit/skillbit/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "learner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestResolveCreatesOnce(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	first, err := Resolve(ctx, s.Profiles(), "")
	require.NoError(t, err)
	assert.True(t, first.New)
	assert.Equal(t, DefaultName, first.Name)
	_, err = uuid.Parse(first.ID)
	assert.NoError(t, err)

	again, err := Resolve(ctx, s.Profiles(), "")
	require.NoError(t, err)
	assert.False(t, again.New)
	assert.Equal(t, first.ID, again.ID)
}

func TestResolveRenames(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	first, err := Resolve(ctx, s.Profiles(), "  Ada ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.Name)

	renamed, err := Resolve(ctx, s.Profiles(), "Grace")
	require.NoError(t, err)
	assert.Equal(t, first.ID, renamed.ID)
	assert.Equal(t, "Grace", renamed.Name)
}
