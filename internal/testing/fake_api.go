package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/gorilla/mux"
)

// FakeAPI is an in-process TDS REST API for tests, mounted under /v1.
//
// It accepts a single user, issues a "session" cookie on login and requires it on every other route.
type FakeAPI struct {
	Server   *httptest.Server
	Username string
	Password string
	Apps     []models.Application

	mu       sync.Mutex
	sessions map[string]bool
	calls    map[string]*atomic.Int32
}

// NewFakeAPI starts a fake API with one user and a small application catalogue.
// The server is closed when the test ends.
func NewFakeAPI(t interface{ Cleanup(func()) }) *FakeAPI {
	f := &FakeAPI{
		Username: "jdoe",
		Password: "hunter2",
		Apps: []models.Application{
			{ID: 1, Name: "tagged-web", Job: "tagged-web-build", BuildHost: "ci.example.com", BuildType: "jenkins", DeployType: "rpm", Arch: "noarch", ValidationType: "matching"},
			{ID: 2, Name: "tagged-api", Job: "tagged-api-build", BuildHost: "ci.example.com", BuildType: "jenkins", DeployType: "rpm", Arch: "x86_64", ValidationType: "valid", EnvSpecific: true},
			{ID: 3, Name: "mailer", Job: "mailer-build", BuildHost: "ci.example.com", BuildType: "developer", DeployType: "rpm", Arch: "noarch"},
		},
		sessions: map[string]bool{},
		calls:    map[string]*atomic.Int32{},
	}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/login", f.count("login", f.login)).Methods(http.MethodPost)
	v1.HandleFunc("/projects/{name_or_id}", f.count("projects", f.authed(f.project))).Methods(http.MethodGet)
	v1.HandleFunc("/search/{obj_type}", f.count("search", f.authed(f.search))).Methods(http.MethodGet)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API root, including the /v1 prefix.
func (f *FakeAPI) URL() string {
	return f.Server.URL + "/v1"
}

// Calls returns how many requests the named route ("login", "projects", "search") has served.
func (f *FakeAPI) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.calls[route]; ok {
		return int(c.Load())
	}
	return 0
}

// IssueSession registers token as a valid session, as if the user had logged in.
func (f *FakeAPI) IssueSession(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[token] = true
}

func (f *FakeAPI) count(route string, next http.HandlerFunc) http.HandlerFunc {
	f.mu.Lock()
	c, ok := f.calls[route]
	if !ok {
		c = &atomic.Int32{}
		f.calls[route] = c
	}
	f.mu.Unlock()

	return func(w http.ResponseWriter, r *http.Request) {
		c.Add(1)
		next(w, r)
	}
}

func (f *FakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		f.mu.Lock()
		valid := err == nil && f.sessions[c.Value]
		f.mu.Unlock()

		if !valid {
			writeErrors(w, http.StatusUnauthorized, "header", "cookie", "Cookie has expired or is invalid. Please reauthenticate.")
			return
		}
		next(w, r)
	}
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrors(w, http.StatusBadRequest, "body", "", `Could not parse body as valid JSON. Body must be a JSON object with attributes "username" and "password".`)
		return
	}

	if body["username"] != f.Username || body["password"] != f.Password {
		writeErrors(w, http.StatusUnauthorized, "query", "user", "Authentication failed. Please check your username and password and try again.")
		return
	}

	token := "issued=1461100000&user=" + f.Username + "&digest=c2lnbmVk=="
	f.IssueSession(token)

	http.SetCookie(w, &http.Cookie{Name: "session", Value: token, Path: "/", MaxAge: 3600})
	writeJSON(w, http.StatusOK, "SUCCESS")
}

func (f *FakeAPI) project(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": mux.Vars(r)["name_or_id"]})
}

func (f *FakeAPI) search(w http.ResponseWriter, r *http.Request) {
	if mux.Vars(r)["obj_type"] != "applications" {
		writeErrors(w, http.StatusNotFound, "path", "obj_type", "Unknown object type.")
		return
	}

	name := r.URL.Query().Get("name")
	out := []models.Application{}
	for _, app := range f.Apps {
		if name == "" || strings.Contains(app.Name, name) {
			out = append(out, app)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrors(w http.ResponseWriter, status int, location, name, description string) {
	writeJSON(w, status, map[string]any{
		"status": "error",
		"errors": []map[string]string{{"location": location, "name": name, "description": description}},
	})
}
