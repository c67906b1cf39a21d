package dashboard

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/dom"
)

// Client is everything the dashboard needs from the TDS API.
type Client interface {
	Getter
	Authenticator
	Searcher
}

// Opts configures [New].
type Opts struct {
	Client       Client
	Sink         dom.Sink
	Results      ResultRenderer
	ProbePath    string
	ProbeTimeout time.Duration
	Logger       *log.Logger
}

// Dashboard wires the prober, router and both flows over one sink.
type Dashboard struct {
	Prober *Prober
	Router *Router
	Login  *LoginFlow
	Home   *HomeFlow
}

// New creates a dashboard. A nil Sink gets a fresh [dom.Document].
func New(opts Opts) *Dashboard {
	if opts.Sink == nil {
		opts.Sink = dom.NewDocument()
	}

	prober := NewProber(opts.Client, opts.ProbePath, opts.ProbeTimeout, opts.Logger)
	home := NewHomeFlow(opts.Client, opts.Sink, opts.Results, opts.Logger)
	login := NewLoginFlow(opts.Client, opts.Sink, home, opts.Logger)

	return &Dashboard{
		Prober: prober,
		Router: NewRouter(prober, login, home, opts.Logger),
		Login:  login,
		Home:   home,
	}
}

// Bootstrap is the page-load entry point: it routes raw, a Cookie header value.
func (d *Dashboard) Bootstrap(ctx context.Context, raw string) View {
	return d.Router.Route(ctx, cookies.Parse(raw))
}
