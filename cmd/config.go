package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Before loads the configuration named by --config and applies the log level.
//
// A missing default config.toml falls back to the embedded defaults. A path given with
// --config or TDSDASH_CONFIG must exist before any command connects to TDS, so
// setup config can still create it.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if err := r.loadConfig(path, cmd.IsSet("config")); err != nil {
		return ctx, err
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	ll, err := shared.ParseLogLevel(level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, ll)
	return ctx, nil
}

// After releases resources opened by commands.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	r.close()
	return nil
}

func (r *Runner) loadConfig(path string, required bool) error {
	r.configPath = path
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if required {
			r.configErr = fmt.Errorf("%w: %s (run 'tdsdash setup config' to create it)", shared.ErrMissingConfig, path)
		}
		r.logger.Debug("config file not found, using defaults", "path", path)
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	r.config = config
	return nil
}
