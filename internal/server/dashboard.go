package server

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/dashboard"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
	"github.com/desertthunder/tdsdash/internal/views"
)

// CookieStore is the credential jar the dashboard reads the Cookie Map from.
type CookieStore interface {
	Cookies(u *url.URL) []*http.Cookie
	Clear(u *url.URL) (int64, error)
}

// DashboardOpts configures a [DashboardHandler].
type DashboardOpts struct {
	Client       dashboard.Client
	Jar          CookieStore
	APIURL       *url.URL
	ProbePath    string
	ProbeTimeout time.Duration
	Title        string
	Logger       *log.Logger
}

// DashboardHandler serves the dashboard pages.
//
// The jar is shared by every visitor: this is a single-user front end for the local machine.
type DashboardHandler struct {
	opts   DashboardOpts
	logger *log.Logger
}

var _ Handler = (*DashboardHandler)(nil)

// NewDashboardHandler creates the handler for /, /login, /search and /logout.
func NewDashboardHandler(opts DashboardOpts) *DashboardHandler {
	if opts.Title == "" {
		opts.Title = "TDS"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &DashboardHandler{opts: opts, logger: shared.WithLogger(opts.Logger, "component", "web")}
}

// Routes implements [Handler].
func (h *DashboardHandler) Routes() []string {
	return []string{"/", "/login", "/search", "/logout"}
}

// ServeHTTP implements [Handler].
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && isRead(r):
		h.index(w, r)
	case r.URL.Path == "/login" && r.Method == http.MethodPost:
		h.login(w, r)
	case r.URL.Path == "/login" && isRead(r):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case r.URL.Path == "/search" && isRead(r):
		h.search(w, r)
	case r.URL.Path == "/logout" && r.Method == http.MethodPost:
		h.logout(w, r)
	case r.URL.Path == "/" || r.URL.Path == "/login" || r.URL.Path == "/search" || r.URL.Path == "/logout":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func isRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// load starts a page load over a fresh document.
func (h *DashboardHandler) load(logger *log.Logger) (*dom.Document, *dashboard.Dashboard) {
	doc := dom.NewDocument()
	d := dashboard.New(dashboard.Opts{
		Client:       h.opts.Client,
		Sink:         doc,
		ProbePath:    h.opts.ProbePath,
		ProbeTimeout: h.opts.ProbeTimeout,
		Logger:       logger,
	})
	return doc, d
}

func (h *DashboardHandler) cookieMap() cookies.Map {
	return cookies.Parse(cookies.FromHTTP(h.opts.Jar.Cookies(h.opts.APIURL)))
}

func (h *DashboardHandler) requestLogger(r *http.Request) *log.Logger {
	return shared.WithLogger(h.logger, "request_id", r.Header.Get(RequestIDHeader))
}

func (h *DashboardHandler) index(w http.ResponseWriter, r *http.Request) {
	doc, d := h.load(h.requestLogger(r))
	d.Router.Route(r.Context(), h.cookieMap())
	h.write(w, http.StatusOK, doc)
}

func (h *DashboardHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	doc, d := h.load(h.requestLogger(r))
	d.Login.Render()

	values := models.FormValues{"username": r.PostForm.Get("username"), "password": r.PostForm.Get("password")}
	if err := d.Login.Submit(r.Context(), values); err != nil {
		h.write(w, statusFor(err), doc)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) search(w http.ResponseWriter, r *http.Request) {
	doc, d := h.load(h.requestLogger(r))

	if view := d.Router.Route(r.Context(), h.cookieMap()); view != dashboard.ViewHome {
		h.write(w, http.StatusUnauthorized, doc)
		return
	}

	values := models.FormValues{"name": r.URL.Query().Get("name")}
	if _, err := d.Home.Submit(r.Context(), values); err != nil {
		h.write(w, statusFor(err), doc)
		return
	}
	h.write(w, http.StatusOK, doc)
}

func (h *DashboardHandler) logout(w http.ResponseWriter, r *http.Request) {
	n, err := h.opts.Jar.Clear(h.opts.APIURL)
	if err != nil {
		h.requestLogger(r).Error("failed to clear session", "error", err)
		http.Error(w, "failed to clear session", http.StatusInternalServerError)
		return
	}
	h.requestLogger(r).Info("logged out", "cookies_removed", n)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *DashboardHandler) write(w http.ResponseWriter, status int, doc *dom.Document) {
	var buf bytes.Buffer
	if err := views.WritePage(&buf, h.opts.Title, h.opts.APIURL.String(), doc); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrMissingField), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
