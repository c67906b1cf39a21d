package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sort"

	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/repositories"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the configuration template to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		r.logger.Info("config file already exists", "path", path)
		return r.writePlain("Config already exists at %s (use --force to overwrite)\n", path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}

// SetupDatabase initializes the database, runs migrations and purges expired cookies.
//
// With --rollback the most recent migration is reverted instead.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.logger.Info("rolled back latest migration", "path", r.config.Database.Path)
		return r.writePlain("✓ Rolled back latest migration for %s\n", r.config.Database.Path)
	}

	purged, err := repositories.NewCookieRepository(db).PurgeExpired()
	if err != nil {
		return fmt.Errorf("failed to purge expired cookies: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s (%d expired cookie(s) purged)\n", r.config.Database.Path, purged)
}

// SetupSession imports the cookies of a browser request into the jar.
//
// Accepts a cURL command copied from a request to the TDS API; its Cookie header must carry a session.
func (r *Runner) SetupSession(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidInput)
	}

	var req *shared.CurlRequest
	var err error

	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		req, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	m := cookies.Parse(req.Cookie)
	if _, ok := m.Session(); !ok {
		return fmt.Errorf("%w: no %q cookie in the cURL command", shared.ErrNoSession, cookies.SessionKey)
	}

	if err := r.connect(); err != nil {
		return err
	}

	target, err := r.apiURL()
	if err != nil {
		return err
	}
	if req.URL != "" {
		if u, err := url.Parse(req.URL); err == nil && u.Host != "" && u.Hostname() != target.Hostname() {
			r.logger.Warn("cURL request host differs from the configured API", "curl", u.Hostname(), "api", target.Hostname())
		}
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	jarCookies := make([]*http.Cookie, 0, len(names))
	for _, name := range names {
		jarCookies = append(jarCookies, &http.Cookie{Name: name, Value: m[name], Path: "/", Secure: target.Scheme == "https"})
	}
	r.jar.SetCookies(target, jarCookies)
	r.logger.Info("imported cookies", "host", target.Hostname(), "count", len(jarCookies))

	if err := r.writePlain("✓ Imported %d cookie(s) for %s\n", len(jarCookies), target.Hostname()); err != nil {
		return err
	}

	if !cmd.Bool("verify") {
		return nil
	}

	result := r.newDashboard(nil).Prober.Probe(ctx, m)
	if !result.Valid {
		if result.Err != nil && !errors.Is(result.Err, shared.ErrNoSession) {
			r.logger.Warn("imported session rejected", "status", result.Status, "error", result.Err)
		}
		return r.writePlain("✗ Session rejected by the server (%s)\n", statusOrUnknown(result.Status))
	}
	return r.writePlain("✓ Session accepted (%s)\n", result.Status)
}

func statusOrUnknown(status string) string {
	if status == "" {
		return "no response"
	}
	return status
}
