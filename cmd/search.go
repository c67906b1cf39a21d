package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/formatter"
	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/urfave/cli/v3"
)

// Search queries applications by name through the home flow and prints or exports the matches.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}

	if err := r.connect(); err != nil {
		return err
	}

	name := cmd.StringArg("name")
	apps, err := r.newDashboard(dom.NewDocument()).Home.Submit(ctx, models.FormValues{"name": name})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	r.logger.Debug("search complete", "name", name, "results", len(apps))

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(format, name, apps, path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d application(s) to %s\n", len(apps), written)
	}

	if format == formatter.FormatJSON {
		if apps == nil {
			apps = []models.Application{}
		}
		return r.writeJSON(apps, cmd.Bool("pretty"))
	}

	data, err := formatter.Export(format, name, apps)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
