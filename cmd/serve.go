package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/desertthunder/tdsdash/internal/server"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the dashboard web front end until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	apiURL, err := r.apiURL()
	if err != nil {
		return err
	}

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(r.logger), server.Recover(r.logger))
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		io.WriteString(w, "ok\n")
	}))
	router.Handler(server.NewDashboardHandler(server.DashboardOpts{
		Client:       r.client,
		Jar:          r.jar,
		APIURL:       apiURL,
		ProbePath:    r.config.API.ProbePath,
		ProbeTimeout: r.config.API.ProbeTimeout.Duration,
		Title:        pageTitle,
		Logger:       r.logger,
	}))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ready := make(chan string, 1)
	if cmd.Bool("open") {
		go func() {
			select {
			case addr := <-ready:
				if err := shared.OpenBrowser("http://" + addr + "/"); err != nil {
					r.logger.Warn("failed to open browser", "error", err)
				}
			case <-ctx.Done():
			}
		}()
	}

	return server.Serve(ctx, cmd.String("addr"), router, r.logger, ready)
}
