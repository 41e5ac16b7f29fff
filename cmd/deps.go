package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/config"
	"github.com/skillbit/skillbit/internal/learner"
	"github.com/skillbit/skillbit/internal/logger"
	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/store"
)

// deps are the collaborators shared by the TUI and the subcommands.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	catalog *questionbank.Catalog
	learner *learner.Learner
}

// openDeps loads config, opens the store and resolves the local learner.
// The caller must Close the result.
func openDeps(cmd *cobra.Command) (_ *deps, err error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	if d.catalog, err = questionbank.Open(cfg.Bank); err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	if err = store.EnsureDir(cfg.DB); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	if d.store, err = store.Open(cfg.DB); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if d.learner, err = learner.Resolve(cmd.Context(), d.store.Profiles(), ""); err != nil {
		return nil, err
	}

	log.Debug("dependencies ready", "db", cfg.DB, "learner", d.learner.ID)
	return d, nil
}

// Close releases whatever openDeps managed to open.
func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	d.log.Close()
}
