// HTTP client adapter for the TDS REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the TDS API root used when none is configured.
const DefaultBaseURL = "https://deploybeta.tagged.com/v1"

// Client issues credentialed requests to the TDS REST API.
//
// When a cookie jar is configured every request carries the stored cookies and every
// Set-Cookie in a response is captured, so callers never read the session header themselves.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	logger     *log.Logger
}

// ClientOpts contains configuration options for creating a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Jar        http.CookieJar
	Limiter    *rate.Limiter
	Timeout    time.Duration
	Logger     *log.Logger
}

// NewClient creates a new API client.
//
// A Jar is attached to a copy of HTTPClient so a shared client such as [http.DefaultClient] is never mutated.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	httpClient := opts.HTTPClient
	if opts.Jar != nil {
		withJar := *opts.HTTPClient
		withJar.Jar = opts.Jar
		httpClient = &withJar
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    opts.Limiter,
		timeout:    opts.Timeout,
		logger:     shared.WithLogger(opts.Logger, "component", "api"),
	}
}

// NewLimiter returns a limiter allowing rps requests per second, or nil when rps <= 0.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// BaseURL returns the API root all paths are relative to.
func (c *Client) BaseURL() string { return c.baseURL }

// Response represents a raw API response with status and body.
type Response struct {
	Status     string // raw status text, e.g. "200 OK"
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusError is returned alongside the [Response] when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode  int
	Status      string
	Description string // error descriptions from the TDS error document, if any
}

func (e *StatusError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Status, e.Description)
	}
	return e.Status
}

// Unwrap maps 401 and 403 to [shared.ErrNotAuthenticated], 502 through 504 to [shared.ErrServiceUnavailable]
// and everything else to [shared.ErrAPIRequest].
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return shared.ErrNotAuthenticated
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return shared.ErrServiceUnavailable
	}
	return shared.ErrAPIRequest
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// PostJSON encodes payload as JSON and POSTs it to the specified path.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", shared.ErrInvalidInput, err)
	}
	return c.do(ctx, http.MethodPost, path, data)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %w", shared.ErrAPIRequest, err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With("method", method, "path", path, "request_id", requestID)
	logger.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("request failed", "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request failed: %w", shared.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: request failed: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrMalformedResponse, err)
	}

	apiResp := &Response{
		Status:     resp.Status,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}

	var jsonData any
	if err := json.Unmarshal(data, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	logger.Debug("received response", "status", resp.Status)

	if !apiResp.OK() {
		return apiResp, &StatusError{
			StatusCode:  resp.StatusCode,
			Status:      statusText(resp),
			Description: errorDescription(data),
		}
	}

	return apiResp, nil
}

// statusText falls back to the reason phrase when a transport reports a bare code.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// errorDocument is the error body TDS returns: {"status": "error", "errors": [{"location", "name", "description"}]}.
type errorDocument struct {
	Errors []struct {
		Location    string `json:"location"`
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"errors"`
}

func errorDescription(body []byte) string {
	var doc errorDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}

	var parts []string
	for _, e := range doc.Errors {
		if e.Description != "" {
			parts = append(parts, e.Description)
		}
	}
	return strings.Join(parts, "; ")
}
