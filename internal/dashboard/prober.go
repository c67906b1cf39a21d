package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/services"
	"github.com/desertthunder/tdsdash/internal/shared"
)

// Getter issues credentialed GET requests.
type Getter interface {
	Get(ctx context.Context, path string) (*services.Response, error)
}

// ProbeResult is the outcome of a single session probe. It is never cached.
type ProbeResult struct {
	Valid   bool
	Status  string
	Payload any
	Err     error
}

// Prober checks whether the current session is still accepted by the server.
type Prober struct {
	client  Getter
	path    string
	timeout time.Duration
	logger  *log.Logger
}

// NewProber creates a prober requesting path, defaulting to [services.DefaultProbePath].
// A zero timeout leaves the call bounded only by the caller's context.
func NewProber(client Getter, path string, timeout time.Duration, logger *log.Logger) *Prober {
	if path == "" {
		path = services.DefaultProbePath
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Prober{client: client, path: path, timeout: timeout, logger: shared.WithLogger(logger, "component", "prober")}
}

// Probe requests the probe path when m carries a session token.
func (p *Prober) Probe(ctx context.Context, m cookies.Map) ProbeResult {
	if _, ok := m.Session(); !ok {
		p.logger.Debug("no session cookie, skipping probe")
		return ProbeResult{Err: shared.ErrNoSession}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	resp, err := p.client.Get(ctx, p.path)

	result := ProbeResult{Err: err}
	if resp != nil {
		result.Status = resp.Status
		result.Payload = resp.JSONData
	}
	result.Valid = err == nil && strings.Contains(result.Status, "200")

	p.logger.Debug("session probed", "path", p.path, "status", result.Status, "valid", result.Valid, "error", err)
	return result
}

// IsSessionValid reports whether the probe succeeded with a 200 status.
func (p *Prober) IsSessionValid(ctx context.Context, m cookies.Map) bool {
	return p.Probe(ctx, m).Valid
}
