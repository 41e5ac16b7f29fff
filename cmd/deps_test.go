package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))

	cmd := &cobra.Command{}
	cmd.Flags().String("db", "", "")
	cmd.Flags().String("bank", "", "")
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.Flags().Parse(args))
	cmd.SetContext(context.Background())
	return cmd
}

func TestOpenDeps(t *testing.T) {
	db := filepath.Join(t.TempDir(), "skillbit.db")
	d, err := openDeps(depsCmd(t, "--db", db))
	require.NoError(t, err)
	assert.NotEmpty(t, d.learner.ID)
	assert.NotNil(t, d.catalog)
	d.Close()

	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestOpenDepsCleansUpOnError(t *testing.T) {
	db := filepath.Join(t.TempDir(), "skillbit.db")
	bank := filepath.Join(t.TempDir(), "missing.yaml")

	d, err := openDeps(depsCmd(t, "--db", db, "--bank", bank))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load question bank")
	assert.Nil(t, d)

	_, err = os.Stat(db)
	assert.True(t, os.IsNotExist(err), "store must not be opened after a bank failure")
}
