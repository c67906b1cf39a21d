package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/desertthunder/tdsdash/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	if path := r.config.Log.File; path != "" {
		fileLogger, err := shared.NewFileLogger(path)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		fileLogger.SetLevel(r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}

	if err := r.connect(); err != nil {
		return err
	}

	m, err := r.cookieMap()
	if err != nil {
		return err
	}

	doc := dom.NewDocument()
	model := ui.NewModel(ctx, r.newDashboard(doc), doc, m)

	if err := ui.Run(ctx, model); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
