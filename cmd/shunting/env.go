package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-shunting/internal/config"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting/core"
	"github.com/vovakirdan/tui-shunting/internal/games/shunting/levels"
	"github.com/vovakirdan/tui-shunting/internal/storage"
)

// appEnv bundles the configuration, levels and logger every command needs.
type appEnv struct {
	cfg     config.ShuntingConfig
	catalog *core.Catalog
	logger  *log.Logger
	closers []io.Closer
}

// loadEnv reads the config, applies flag overrides and loads the levels.
// Interactive commands own the terminal, so they only log to a file and
// only when --log is set.
func loadEnv(cmd *cobra.Command, prefix string, interactive bool) (*appEnv, error) {
	cfg, err := config.LoadShunting(flagConfig)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, &cfg)

	env := &appEnv{cfg: cfg}

	switch {
	case !interactive:
		env.logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          prefix,
		})
	case flagLog:
		dir := config.DataDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cannot create data directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "shunting.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("cannot open log file: %w", err)
		}
		env.closers = append(env.closers, f)
		env.logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          prefix,
			Level:           log.DebugLevel,
		})
	default:
		env.logger = log.New(io.Discard)
	}

	catalog, err := levels.Open(cfg.Levels.Dir, cfg.Gameplay.DefaultCapacity, env.logger)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.catalog = catalog

	return env, nil
}

// applyFlags lets explicitly set flags win over config values.
func applyFlags(cmd *cobra.Command, cfg *config.ShuntingConfig) {
	if flagChanged(cmd, "fps") {
		cfg.Gameplay.TickRate = flagFPS
	}
	if flagChanged(cmd, "db") {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagChanged(cmd, "levels") {
		cfg.Levels.Dir = flagLevelsDir
	}
	if flagChanged(cmd, "player") {
		cfg.Player.Name = flagPlayer
	}
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// openStore opens the records database. When it cannot be opened, records
// are kept in memory for this run only and the open error is returned
// alongside the fallback store.
func (e *appEnv) openStore() (core.ScoreStore, error) {
	store, err := storage.Open(e.cfg.Storage.DBPath)
	if err != nil {
		return core.NewMemoryStore(), err
	}
	e.closers = append(e.closers, store)
	return store, nil
}

// Close releases the store and log file.
func (e *appEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		//nolint:errcheck // Best-effort cleanup on exit
		e.closers[i].Close()
	}
	e.closers = nil
}
