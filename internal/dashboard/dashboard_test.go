package dashboard

import (
	"context"
	"errors"
	"io"
	"net/http/cookiejar"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/tdsdash/internal/cookies"
	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/services"
	"github.com/desertthunder/tdsdash/internal/shared"
	tu "github.com/desertthunder/tdsdash/internal/testing"
	"github.com/desertthunder/tdsdash/internal/views"
)

type fakeGetter struct {
	resp  *services.Response
	err   error
	calls atomic.Int32
}

func (g *fakeGetter) Get(ctx context.Context, path string) (*services.Response, error) {
	g.calls.Add(1)
	return g.resp, g.err
}

type blockingGetter struct{}

func (blockingGetter) Get(ctx context.Context, path string) (*services.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fakeAuth struct {
	err   error
	calls int
}

func (a *fakeAuth) Login(ctx context.Context, form models.LoginForm) (*services.Response, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return &services.Response{Status: "200 OK", StatusCode: 200}, nil
}

type countingRenderer struct{ calls int }

func (r *countingRenderer) Render() { r.calls++ }

func newTestDashboard(t *testing.T) (*Dashboard, *dom.Document, *tu.FakeAPI, *services.Client) {
	t.Helper()
	api := tu.NewFakeAPI(t)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create jar: %v", err)
	}
	logger := shared.NewLogger(io.Discard)
	client := services.NewClient(services.ClientOpts{BaseURL: api.URL(), Jar: jar, Logger: logger})
	doc := dom.NewDocument()
	return New(Opts{Client: client, Sink: doc, Logger: logger}), doc, api, client
}

func TestProber(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("No Session Skips Network", func(t *testing.T) {
		g := &fakeGetter{resp: &services.Response{Status: "200 OK"}}
		p := NewProber(g, "", 0, logger)

		if p.IsSessionValid(context.Background(), cookies.Map{}) {
			t.Error("empty cookie map should be invalid")
		}
		if g.calls.Load() != 0 {
			t.Errorf("expected no network calls, got %d", g.calls.Load())
		}

		result := p.Probe(context.Background(), cookies.Map{"other": "1"})
		if !errors.Is(result.Err, shared.ErrNoSession) {
			t.Errorf("expected ErrNoSession, got %v", result.Err)
		}
	})

	tc := []struct {
		name   string
		status string
		err    error
		want   bool
	}{
		{name: "200", status: "200 OK", want: true},
		{name: "404", status: "404 Not Found", want: false},
		{name: "500", status: "500 Internal Server Error", want: false},
		{name: "transport failure", err: shared.ErrAPIRequest, want: false},
		{name: "200 with error", status: "200 OK", err: shared.ErrMalformedResponse, want: false},
	}

	for _, tt := range tc {
		t.Run("Status "+tt.name, func(t *testing.T) {
			g := &fakeGetter{err: tt.err}
			if tt.status != "" {
				g.resp = &services.Response{Status: tt.status}
			}
			p := NewProber(g, "", 0, logger)

			if got := p.IsSessionValid(context.Background(), cookies.Map{"session": "x"}); got != tt.want {
				t.Errorf("IsSessionValid() = %v, want %v", got, tt.want)
			}
			if g.calls.Load() != 1 {
				t.Errorf("expected exactly 1 probe, got %d", g.calls.Load())
			}
		})
	}

	t.Run("Timeout Bounds The Probe", func(t *testing.T) {
		p := NewProber(blockingGetter{}, "", 20*time.Millisecond, logger)

		result := p.Probe(context.Background(), cookies.Map{"session": "x"})
		if result.Valid {
			t.Error("timed out probe should be invalid")
		}
		if !errors.Is(result.Err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", result.Err)
		}
	})

	t.Run("Against API", func(t *testing.T) {
		api := tu.NewFakeAPI(t)
		client := services.NewClient(services.ClientOpts{BaseURL: api.URL(), Logger: logger})
		p := NewProber(client, "", time.Second, logger)

		if p.IsSessionValid(context.Background(), cookies.Map{"session": "forged"}) {
			t.Error("session unknown to the server should be invalid")
		}
		if api.Calls("projects") != 1 {
			t.Errorf("expected 1 probe request, got %d", api.Calls("projects"))
		}
	})
}

func TestRouter(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	tc := []struct {
		name    string
		cookies cookies.Map
		status  string
		want    View
	}{
		{name: "No Session Renders Login", cookies: cookies.Map{}, status: "200 OK", want: ViewLogin},
		{name: "Rejected Session Renders Login", cookies: cookies.Map{"session": "x"}, status: "401 Unauthorized", want: ViewLogin},
		{name: "Valid Session Renders Home", cookies: cookies.Map{"session": "x"}, status: "200 OK", want: ViewHome},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			login, home := &countingRenderer{}, &countingRenderer{}
			g := &fakeGetter{resp: &services.Response{Status: tt.status}}
			r := NewRouter(NewProber(g, "", 0, logger), login, home, logger)

			if got := r.Route(context.Background(), tt.cookies); got != tt.want {
				t.Errorf("Route() = %v, want %v", got, tt.want)
			}
			if login.calls+home.calls != 1 {
				t.Errorf("expected exactly one view rendered, got login=%d home=%d", login.calls, home.calls)
			}
		})
	}

	t.Run("Idempotent For Unchanged Cookies", func(t *testing.T) {
		d, doc, _, _ := newTestDashboard(t)

		first := d.Router.Route(context.Background(), cookies.Map{})
		mutations := doc.Mutations()
		second := d.Router.Route(context.Background(), cookies.Map{})

		if first != second || first != ViewLogin {
			t.Errorf("expected login twice, got %v then %v", first, second)
		}
		if doc.Mutations() != mutations {
			t.Errorf("second route should not mutate the document: %d -> %d", mutations, doc.Mutations())
		}
		if CurrentView(doc) != ViewLogin {
			t.Errorf("expected login mounted, got %v", CurrentView(doc))
		}
	})
}

func TestLoginFlow(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Empty Password Issues No Request", func(t *testing.T) {
		auth, home := &fakeAuth{}, &countingRenderer{}
		doc := dom.NewDocument()
		flow := NewLoginFlow(auth, doc, home, logger)
		flow.Render()

		err := flow.Submit(context.Background(), models.FormValues{"username": "jdoe", "password": ""})

		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if !errors.Is(err, shared.ErrMissingField) {
			t.Error("expected ErrMissingField")
		}
		if auth.calls != 0 {
			t.Errorf("expected zero network calls, got %d", auth.calls)
		}
		if home.calls != 0 {
			t.Error("home should not render after a validation failure")
		}
		if got := doc.Text(dom.MountAlert); got != views.MissingFieldMessage {
			t.Errorf("expected alert %q, got %q", views.MissingFieldMessage, got)
		}
	})

	t.Run("Empty Password Against API", func(t *testing.T) {
		d, _, api, _ := newTestDashboard(t)

		if err := d.Login.Submit(context.Background(), models.FormValues{"username": "jdoe"}); err == nil {
			t.Fatal("expected validation error")
		}
		if api.Calls("login") != 0 {
			t.Errorf("expected zero login requests, got %d", api.Calls("login"))
		}
	})

	t.Run("Success Transitions To Home Once", func(t *testing.T) {
		d, doc, api, _ := newTestDashboard(t)
		if v := d.Bootstrap(context.Background(), ""); v != ViewLogin {
			t.Fatalf("expected login on bootstrap, got %v", v)
		}

		err := d.Login.Submit(context.Background(), models.FormValues{"username": "jdoe", "password": "hunter2"})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}

		if CurrentView(doc) != ViewHome {
			t.Errorf("expected home view, got %v", CurrentView(doc))
		}
		if doc.MutationsOf(dom.MountSearch) != 1 {
			t.Errorf("expected search bar mounted once, got %d", doc.MutationsOf(dom.MountSearch))
		}
		if doc.MutationsOf(dom.MountBody) != 2 {
			t.Errorf("expected body mounted for login then home, got %d", doc.MutationsOf(dom.MountBody))
		}
		if api.Calls("login") != 1 {
			t.Errorf("expected 1 login request, got %d", api.Calls("login"))
		}
	})

	t.Run("Success Renders Home Exactly Once", func(t *testing.T) {
		home := &countingRenderer{}
		flow := NewLoginFlow(&fakeAuth{}, dom.NewDocument(), home, logger)

		if err := flow.Submit(context.Background(), models.FormValues{"username": "jdoe", "password": "pw"}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if home.calls != 1 {
			t.Errorf("expected home rendered once, got %d", home.calls)
		}
	})

	t.Run("Failure Keeps Login With Description", func(t *testing.T) {
		d, doc, _, _ := newTestDashboard(t)
		d.Bootstrap(context.Background(), "")

		err := d.Login.Submit(context.Background(), models.FormValues{"username": "jdoe", "password": "wrong"})
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if CurrentView(doc) != ViewLogin {
			t.Errorf("expected login to stay mounted, got %v", CurrentView(doc))
		}
		want := "Authentication failed. Please check your username and password and try again."
		if got := doc.Text(dom.MountAlert); got != want {
			t.Errorf("alert text = %q, want %q", got, want)
		}
		if doc.HTML(dom.MountSearch) != "" {
			t.Error("search bar should not be mounted after a failed login")
		}
	})

	t.Run("Transport Failure Shows Error", func(t *testing.T) {
		doc := dom.NewDocument()
		flow := NewLoginFlow(&fakeAuth{err: shared.ErrAPIRequest}, doc, &countingRenderer{}, logger)

		if err := flow.Submit(context.Background(), models.FormValues{"username": "a", "password": "b"}); err == nil {
			t.Fatal("expected error")
		}
		if got := doc.Text(dom.MountAlert); got != shared.ErrAPIRequest.Error() {
			t.Errorf("unexpected alert %q", got)
		}
	})
}

func TestHomeFlow(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("Render Twice Mutates Once", func(t *testing.T) {
		doc := dom.NewDocument()
		flow := NewHomeFlow(nil, doc, nil, logger)

		flow.Render()
		after := doc.Mutations()
		flow.Render()

		if doc.MutationsOf(dom.MountSearch) != 1 {
			t.Errorf("expected exactly 1 search bar mutation, got %d", doc.MutationsOf(dom.MountSearch))
		}
		if doc.Mutations() != after {
			t.Errorf("second render should not mutate: %d -> %d", after, doc.Mutations())
		}
	})

	t.Run("Search Renders Results", func(t *testing.T) {
		d, doc, _, _ := newTestDashboard(t)
		if err := d.Login.Submit(context.Background(), models.FormValues{"username": "jdoe", "password": "hunter2"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		apps, err := d.Home.Submit(context.Background(), models.FormValues{"name": "tagged"})
		if err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if len(apps) != 2 {
			t.Errorf("expected 2 matches, got %d", len(apps))
		}
		if doc.HTML(dom.MountResults) != views.Results(apps) {
			t.Error("results mount should hold the rendered table")
		}
	})

	t.Run("Custom Result Renderer", func(t *testing.T) {
		d, _, _, client := newTestDashboard(t)
		if err := d.Login.Submit(context.Background(), models.FormValues{"username": "jdoe", "password": "hunter2"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		var got []models.Application
		flow := NewHomeFlow(client, dom.NewDocument(), ResultRendererFunc(func(apps []models.Application) { got = apps }), logger)
		if _, err := flow.Submit(context.Background(), models.FormValues{"name": "mailer"}); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		if len(got) != 1 || got[0].Name != "mailer" {
			t.Errorf("unexpected results %+v", got)
		}
	})

	t.Run("Search Failure Shows Alert", func(t *testing.T) {
		d, doc, _, _ := newTestDashboard(t)

		if _, err := d.Home.Submit(context.Background(), models.FormValues{"name": "x"}); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated without a session, got %v", err)
		}
		if doc.Text(dom.MountAlert) == "" {
			t.Error("expected an alert")
		}
		if doc.HTML(dom.MountResults) != "" {
			t.Error("results should stay empty")
		}
	})
}

func TestBootstrap(t *testing.T) {
	api := tu.NewFakeAPI(t)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create jar: %v", err)
	}
	logger := shared.NewLogger(io.Discard)
	client := services.NewClient(services.ClientOpts{BaseURL: api.URL(), Jar: jar, Logger: logger})
	if _, err := client.Login(context.Background(), models.LoginForm{Username: "jdoe", Password: "hunter2"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	u, _ := url.Parse(api.URL())
	raw := cookies.FromHTTP(jar.Cookies(u))
	if _, ok := cookies.Parse(raw).Session(); !ok {
		t.Fatalf("expected a session cookie in %q", raw)
	}

	doc := dom.NewDocument()
	d := New(Opts{Client: client, Sink: doc, ProbeTimeout: time.Second, Logger: logger})
	if v := d.Bootstrap(context.Background(), raw); v != ViewHome {
		t.Errorf("expected home for a live session, got %v", v)
	}
	if CurrentView(doc) != ViewHome {
		t.Errorf("expected home mounted, got %v", CurrentView(doc))
	}
}

func TestDescribe(t *testing.T) {
	tc := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "description", err: &services.StatusError{StatusCode: 401, Status: "401 Unauthorized", Description: "bad creds"}, want: "bad creds"},
		{name: "status only", err: &services.StatusError{StatusCode: 500, Status: "500 Internal Server Error"}, want: "500 Internal Server Error"},
		{name: "validation", err: &models.ValidationError{Fields: []string{"password"}}, want: views.MissingFieldMessage},
		{name: "other", err: shared.ErrTimeout, want: shared.ErrTimeout.Error()},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestViewString(t *testing.T) {
	if ViewLogin.String() != "login" || ViewHome.String() != "home" || ViewNone.String() != "none" {
		t.Error("unexpected view names")
	}
}
