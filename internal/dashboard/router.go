package dashboard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/desertthunder/tdsdash/internal/views"
)

// View identifies which top-level view is rendered.
type View int

const (
	ViewNone View = iota
	ViewLogin
	ViewHome
)

func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewHome:
		return "home"
	case ViewNone:
		return "none"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Renderer draws a view into the document.
type Renderer interface {
	Render()
}

// Router picks the view for a page load.
type Router struct {
	prober *Prober
	login  Renderer
	home   Renderer
	logger *log.Logger
}

// NewRouter creates a router that renders home for a valid session and login otherwise.
func NewRouter(prober *Prober, login, home Renderer, logger *log.Logger) *Router {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Router{prober: prober, login: login, home: home, logger: shared.WithLogger(logger, "component", "router")}
}

// Route waits for the session probe, then renders exactly one view and returns it.
func (r *Router) Route(ctx context.Context, m cookies.Map) View {
	v, _ := r.RouteWithResult(ctx, m)
	return v
}

// RouteWithResult is [Router.Route] that also returns the probe it decided on.
func (r *Router) RouteWithResult(ctx context.Context, m cookies.Map) (View, ProbeResult) {
	result := r.prober.Probe(ctx, m)

	if result.Valid {
		r.home.Render()
		r.logger.Info("routed", "view", ViewHome)
		return ViewHome, result
	}

	r.login.Render()
	r.logger.Info("routed", "view", ViewLogin, "status", result.Status)
	return ViewLogin, result
}

// CurrentView reports which view is mounted in the body of sink.
func CurrentView(sink dom.Sink) View {
	switch sink.HTML(dom.MountBody) {
	case views.Login():
		return ViewLogin
	case views.Home():
		return ViewHome
	default:
		return ViewNone
	}
}
