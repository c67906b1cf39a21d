package dashboard

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/services"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/desertthunder/tdsdash/internal/views"
)

// Authenticator posts login credentials.
type Authenticator interface {
	Login(ctx context.Context, form models.LoginForm) (*services.Response, error)
}

// Searcher queries the applications resource.
type Searcher interface {
	SearchApplications(ctx context.Context, form models.SearchForm) ([]models.Application, error)
}

// ResultRenderer displays search results.
type ResultRenderer interface {
	RenderResults(apps []models.Application)
}

// ResultRendererFunc adapts a function to [ResultRenderer].
type ResultRendererFunc func(apps []models.Application)

func (f ResultRendererFunc) RenderResults(apps []models.Application) { f(apps) }

// TableResults renders results as a table into the results mount.
type TableResults struct {
	Sink dom.Sink
}

func (r TableResults) RenderResults(apps []models.Application) {
	r.Sink.Update(dom.MountResults, views.Results(apps))
}

// LoginFlow renders the login form and handles its submission.
type LoginFlow struct {
	client Authenticator
	sink   dom.Sink
	home   Renderer
	logger *log.Logger
}

// NewLoginFlow creates a login flow that hands over to home after a successful login.
func NewLoginFlow(client Authenticator, sink dom.Sink, home Renderer, logger *log.Logger) *LoginFlow {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &LoginFlow{client: client, sink: sink, home: home, logger: shared.WithLogger(logger, "component", "login")}
}

// Render mounts the login form and removes any home view content.
func (f *LoginFlow) Render() {
	f.sink.Update(dom.MountBody, views.Login())
	f.sink.Update(dom.MountSearch, "")
	f.sink.Update(dom.MountResults, "")
}

// Submit validates the form, posts it and switches to the home view on success.
//
// Validation failures never reach the network. Any failure leaves the login form mounted with
// an alert describing it.
func (f *LoginFlow) Submit(ctx context.Context, values models.FormValues) error {
	form := models.NewLoginForm(values)
	if err := form.Validate(); err != nil {
		f.logger.Debug("login form invalid", "error", err)
		f.sink.Update(dom.MountAlert, views.Alert(views.LoginErrorID, views.MissingFieldMessage))
		return err
	}

	f.logger.Debug("posting credentials", "username", form.Username)
	if _, err := f.client.Login(ctx, form); err != nil {
		f.logger.Warn("login failed", "username", form.Username, "error", err)
		f.sink.Update(dom.MountAlert, views.Alert(views.LoginErrorID, Describe(err)))
		return err
	}

	f.logger.Info("logged in", "username", form.Username)
	f.home.Render()
	return nil
}

// HomeFlow renders the search bar and handles searches.
type HomeFlow struct {
	client  Searcher
	sink    dom.Sink
	results ResultRenderer
	logger  *log.Logger
}

// NewHomeFlow creates a home flow. A nil results renderer writes a table into the results mount.
func NewHomeFlow(client Searcher, sink dom.Sink, results ResultRenderer, logger *log.Logger) *HomeFlow {
	if results == nil {
		results = TableResults{Sink: sink}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HomeFlow{client: client, sink: sink, results: results, logger: shared.WithLogger(logger, "component", "home")}
}

// Render mounts the search bar and the home body and clears any alert left by the login view.
func (f *HomeFlow) Render() {
	f.sink.Update(dom.MountSearch, views.SearchBar())
	f.sink.Update(dom.MountBody, views.Home())
	f.sink.Update(dom.MountAlert, "")
}

// Submit searches applications by the submitted name and renders the matches.
func (f *HomeFlow) Submit(ctx context.Context, values models.FormValues) ([]models.Application, error) {
	form := models.NewSearchForm(values)
	if err := form.Validate(); err != nil {
		f.sink.Update(dom.MountAlert, views.Alert(views.SearchErrorID, Describe(err)))
		return nil, err
	}

	apps, err := f.client.SearchApplications(ctx, form)
	if err != nil {
		f.logger.Warn("search failed", "name", form.Name, "error", err)
		f.sink.Update(dom.MountAlert, views.Alert(views.SearchErrorID, Describe(err)))
		return nil, err
	}

	f.logger.Debug("search complete", "name", form.Name, "results", len(apps))
	f.sink.Update(dom.MountAlert, "")
	f.results.RenderResults(apps)
	return apps, nil
}

// Describe returns the text shown to the user for err: the server's description when
// it sent one, otherwise the status text, otherwise the error itself.
func Describe(err error) string {
	var statusErr *services.StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr) && statusErr.Description != "":
		return statusErr.Description
	case errors.As(err, &statusErr):
		return statusErr.Status
	case errors.Is(err, shared.ErrMissingField):
		return views.MissingFieldMessage
	default:
		return err.Error()
	}
}
