package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tdsdash/internal/dashboard"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// sessionStatus is the JSON form of a session probe.
type sessionStatus struct {
	Valid  bool   `json:"valid"`
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AuthLogin posts the credentials through the login flow. The session lands in the jar.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	username := cmd.String("username")
	values := models.FormValues{"username": username, "password": cmd.String("password")}

	doc := dom.NewDocument()
	d := r.newDashboard(doc)
	d.Login.Render()

	r.logger.Info("logging in", "username", username, "api", r.client.BaseURL())
	if err := d.Login.Submit(ctx, values); err != nil {
		if errors.Is(err, shared.ErrMissingField) {
			return fmt.Errorf("%w: --username and --password are required", err)
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, dashboard.Describe(err))
	}

	if dashboard.CurrentView(doc) != dashboard.ViewHome {
		return fmt.Errorf("%w: login did not reach the home view", shared.ErrAuthFailed)
	}

	return r.writePlain("✓ Logged in as %s\n", username)
}

// AuthStatus probes the stored session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	m, err := r.cookieMap()
	if err != nil {
		return err
	}

	result := r.newDashboard(nil).Prober.Probe(ctx, m)
	status := sessionStatus{Valid: result.Valid, Status: result.Status}
	if result.Err != nil {
		status.Error = result.Err.Error()
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	switch {
	case result.Valid:
		return r.writePlain("✓ Session valid (%s)\n", result.Status)
	case errors.Is(result.Err, shared.ErrNoSession):
		return r.writePlain("✗ No session stored. Run 'tdsdash auth login' first\n")
	default:
		return r.writePlain("✗ Session rejected (%s)\n", statusOrUnknown(result.Status))
	}
}

// AuthLogout removes every cookie stored for the API host.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	u, err := r.apiURL()
	if err != nil {
		return err
	}

	n, err := r.jar.Clear(u)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.logger.Info("logged out", "host", u.Hostname(), "cookies_removed", n)
	return r.writePlain("✓ Removed %d cookie(s) for %s\n", n, u.Hostname())
}
