package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
)

// TDS endpoints used by the dashboard.
const (
	LoginPath              = "/login"
	DefaultProbePath       = "/projects/1"
	ApplicationsSearchPath = "/search/applications"
)

// Login posts the credentials to /login. The session cookie is captured by the client's jar.
func (c *Client) Login(ctx context.Context, form models.LoginForm) (*Response, error) {
	return c.PostJSON(ctx, LoginPath, form.Payload())
}

// SearchApplications queries the applications collection with the form's payload as query parameters.
func (c *Client) SearchApplications(ctx context.Context, form models.SearchForm) ([]models.Application, error) {
	path := ApplicationsSearchPath
	if q := form.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var apps []models.Application
	if err := json.Unmarshal(resp.Body, &apps); err != nil {
		return nil, fmt.Errorf("%w: applications: %v", shared.ErrMalformedResponse, err)
	}
	return apps, nil
}
