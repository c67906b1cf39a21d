// Package views renders the dashboard's HTML fragments from embedded templates.
//
// Every fragment is deterministic for the same input, so re-rendering an unchanged view
// produces byte-identical output and the [dom.Document] skips the write.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
)

// Alert element ids.
const (
	LoginErrorID  = "tds-login-error"
	SearchErrorID = "tds-search-error"
)

// MissingFieldMessage is shown when a required form field is empty.
const MissingFieldMessage = "Required field missing."

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("views").ParseFS(files, "templates/*.html"))

// Static fragments take no data, so they are rendered once when the package loads.
var (
	loginHTML     = mustRender("login", nil)
	searchBarHTML = mustRender("search_bar", nil)
	homeHTML      = mustRender("home", nil)
)

// Page is the data of a full dashboard document.
type Page struct {
	Title   string
	BaseURL string
	Mounts  map[string]template.HTML
}

// Login renders the login form.
func Login() string {
	return loginHTML
}

// SearchBar renders the navbar search form.
func SearchBar() string {
	return searchBarHTML
}

// Home renders the home view body.
func Home() string {
	return homeHTML
}

// Alert renders a dismissible error alert. The message is escaped.
func Alert(id, message string) string {
	return mustRender("alert", struct{ ID, Message string }{id, message})
}

// Results renders a table of applications, or an empty-state paragraph.
func Results(apps []models.Application) string {
	return mustRender("results", apps)
}

// WritePage writes the complete HTML document with the fragments currently mounted in doc.
func WritePage(w io.Writer, title, baseURL string, doc *dom.Document) error {
	mounts := make(map[string]template.HTML, len(dom.Mounts))
	for id, fragment := range doc.Snapshot() {
		mounts[id] = template.HTML(fragment)
	}

	if err := templates.ExecuteTemplate(w, "page", Page{Title: title, BaseURL: baseURL, Mounts: mounts}); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

func render(name string, data any) (string, error) {
	var sb strings.Builder
	if err := templates.ExecuteTemplate(&sb, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return sb.String(), nil
}

// mustRender is [render] for fragments whose data is fixed by this package. The templates are
// parsed from the embedded files and only read fields of that data, so execution cannot fail at
// run time and a failure means a broken template, caught when the package loads or by its tests.
func mustRender(name string, data any) string {
	out, err := render(name, data)
	if err != nil {
		panic(err)
	}
	return out
}
