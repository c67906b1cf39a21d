package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/desertthunder/tdsdash/internal/dashboard"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/desertthunder/tdsdash/internal/views"
	"github.com/urfave/cli/v3"
)

const pageTitle = "TDS"

// Page performs a page load for the stored session and writes the resulting HTML document.
func (r *Runner) Page(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	m, err := r.cookieMap()
	if err != nil {
		return err
	}

	doc := dom.NewDocument()
	d := r.newDashboard(doc)
	view := d.Router.Route(ctx, m)
	r.logger.Info("page routed", "view", view)

	if name := cmd.String("search"); name != "" && view == dashboard.ViewHome {
		if _, err := d.Home.Submit(ctx, models.FormValues{"name": name}); err != nil {
			r.logger.Warn("search failed", "name", name, "error", err)
		}
	}

	output := cmd.String("output")
	if output == "" && cmd.Bool("open") {
		output = filepath.Join(os.TempDir(), "tdsdash.html")
	}

	if output == "" {
		return views.WritePage(r.output, pageTitle, r.client.BaseURL(), doc)
	}

	if err := writePageFile(output, r.client.BaseURL(), doc); err != nil {
		return err
	}
	r.logger.Info("page written", "path", output)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(output); err != nil {
			return fmt.Errorf("failed to open browser: %w", err)
		}
	}
	return r.writePlain("✓ %s view written to %s\n", view, output)
}

func writePageFile(path, baseURL string, doc *dom.Document) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create page file: %w", err)
	}

	if err := views.WritePage(f, pageTitle, baseURL, doc); err != nil {
		f.Close()
		return err
	}
	return closeFile(f)
}

func closeFile(c io.Closer) error {
	if err := c.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
