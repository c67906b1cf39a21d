package services

import (
	"context"
	"errors"
	"io"
	"net/http/cookiejar"
	"testing"

	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
	tu "github.com/desertthunder/tdsdash/internal/testing"
)

func TestTDSEndpoints(t *testing.T) {
	t.Run("Login Stores Session In Jar", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		jar, _ := cookiejar.New(nil)
		c := NewClient(ClientOpts{BaseURL: api.URL(), Jar: jar, Logger: shared.NewLogger(io.Discard)})

		if _, err := c.Login(context.Background(), models.LoginForm{Username: "jdoe", Password: "hunter2"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		resp, err := c.Get(context.Background(), DefaultProbePath)
		if err != nil {
			t.Fatalf("probe after login should succeed: %v", err)
		}
		if resp.Status != "200 OK" {
			t.Errorf("unexpected status %q", resp.Status)
		}
	})

	t.Run("Login Failure Carries Description", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		c := NewClient(ClientOpts{BaseURL: api.URL(), Logger: shared.NewLogger(io.Discard)})

		_, err := c.Login(context.Background(), models.LoginForm{Username: "jdoe", Password: "wrong"})

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected *StatusError, got %v", err)
		}
		if statusErr.Description != "Authentication failed. Please check your username and password and try again." {
			t.Errorf("unexpected description %q", statusErr.Description)
		}
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Error("expected 401 to wrap ErrNotAuthenticated")
		}
	})

	t.Run("SearchApplications", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		jar, _ := cookiejar.New(nil)
		c := NewClient(ClientOpts{BaseURL: api.URL(), Jar: jar, Logger: shared.NewLogger(io.Discard)})

		if _, err := c.Login(context.Background(), models.LoginForm{Username: "jdoe", Password: "hunter2"}); err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		apps, err := c.SearchApplications(context.Background(), models.SearchForm{Name: "tagged"})
		if err != nil {
			t.Fatalf("SearchApplications() error = %v", err)
		}
		if len(apps) != 2 {
			t.Fatalf("expected 2 tagged applications, got %d", len(apps))
		}
		if apps[1].Name != "tagged-api" || !apps[1].EnvSpecific {
			t.Errorf("unexpected application %+v", apps[1])
		}

		all, err := c.SearchApplications(context.Background(), models.SearchForm{})
		if err != nil {
			t.Fatalf("SearchApplications() error = %v", err)
		}
		if len(all) != len(api.Apps) {
			t.Errorf("expected every application for an empty name, got %d", len(all))
		}
	})

	t.Run("SearchApplications Requires Session", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		c := NewClient(ClientOpts{BaseURL: api.URL(), Logger: shared.NewLogger(io.Discard)})

		_, err := c.SearchApplications(context.Background(), models.SearchForm{Name: "web"})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
