package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/dashboard"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/repositories"
	"github.com/desertthunder/tdsdash/internal/services"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The cookie jar and API client are opened lazily by [Runner.connect] so commands that never talk
// to TDS (setup config) do not create a database.
type Runner struct {
	config     *shared.Config
	configPath string
	configErr  error
	client     *services.Client
	jar        *repositories.Jar
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Jar        *repositories.Jar
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		jar:        opts.Jar,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, pageCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger. Call it before [Runner.connect] so the client and jar log there too.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// connect opens the cookie jar and builds the API client from the configuration.
func (r *Runner) connect() error {
	if r.configErr != nil {
		return r.configErr
	}

	if r.jar == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return fmt.Errorf("failed to open cookie jar: %w", err)
		}
		r.db = db
		r.jar = repositories.NewJar(repositories.NewCookieRepository(db), shared.WithLogger(r.logger, "component", "jar"))
	}

	if r.client == nil {
		r.client = services.NewClient(services.ClientOpts{
			BaseURL:    r.config.API.BaseURL,
			HTTPClient: r.httpClient,
			Jar:        r.jar,
			Limiter:    services.NewLimiter(r.config.API.RequestsPerSecond),
			Timeout:    r.config.API.RequestTimeout.Duration,
			Logger:     r.logger,
		})
	}
	return nil
}

// close releases the database opened by [Runner.connect].
func (r *Runner) close() {
	if r.db == nil {
		return
	}
	if err := r.db.Close(); err != nil {
		r.logger.Warn("failed to close database", "error", err)
	}
	r.db = nil
}

func (r *Runner) apiURL() (*url.URL, error) {
	u, err := url.Parse(r.client.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", shared.ErrInvalidConfig, err)
	}
	return u, nil
}

// cookieMap reads the Cookie Map for the API host from the jar, the way a page load reads document.cookie.
func (r *Runner) cookieMap() (cookies.Map, error) {
	u, err := r.apiURL()
	if err != nil {
		return nil, err
	}
	return cookies.Parse(cookies.FromHTTP(r.jar.Cookies(u))), nil
}

func (r *Runner) newDashboard(sink dom.Sink) *dashboard.Dashboard {
	return dashboard.New(dashboard.Opts{
		Client:       r.client,
		Sink:         sink,
		ProbePath:    r.config.API.ProbePath,
		ProbeTimeout: r.config.API.ProbeTimeout.Duration,
		Logger:       r.logger,
	})
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
