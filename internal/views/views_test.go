package views

import (
	"bytes"
	"strings"
	"testing"

	"github.com/desertthunder/tdsdash/internal/dom"
	"github.com/desertthunder/tdsdash/internal/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parse(t *testing.T, fragment string) []*html.Node {
	t.Helper()
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		t.Fatalf("failed to parse fragment: %v", err)
	}
	return nodes
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// find returns every element matching tag in document order.
func find(nodes []*html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func TestLogin(t *testing.T) {
	nodes := parse(t, Login())

	forms := find(nodes, atom.Form)
	if len(forms) != 1 {
		t.Fatalf("expected 1 form, got %d", len(forms))
	}
	if id, _ := attr(forms[0], "id"); id != "tds-login-form" {
		t.Errorf("expected form id tds-login-form, got %q", id)
	}

	inputs := find(nodes, atom.Input)
	if len(inputs) != 2 {
		t.Fatalf("expected 2 inputs, got %d", len(inputs))
	}
	for i, name := range []string{"username", "password"} {
		if got, _ := attr(inputs[i], "name"); got != name {
			t.Errorf("input %d: expected name %q, got %q", i, name, got)
		}
		if _, ok := attr(inputs[i], "required"); !ok {
			t.Errorf("input %q should be required", name)
		}
	}
	if typ, _ := attr(inputs[1], "type"); typ != "password" {
		t.Errorf("expected password input type, got %q", typ)
	}
}

func TestSearchBar(t *testing.T) {
	nodes := parse(t, SearchBar())

	inputs := find(nodes, atom.Input)
	if len(inputs) != 1 {
		t.Fatalf("expected a single search field, got %d", len(inputs))
	}
	if name, _ := attr(inputs[0], "name"); name != "name" {
		t.Errorf("expected field name %q, got %q", "name", name)
	}
	if ph, _ := attr(inputs[0], "placeholder"); ph != "Application Name" {
		t.Errorf("unexpected placeholder %q", ph)
	}
}

func TestAlert(t *testing.T) {
	t.Run("Dismissible With Message", func(t *testing.T) {
		fragment := Alert(LoginErrorID, MissingFieldMessage)
		nodes := parse(t, fragment)

		divs := find(nodes, atom.Div)
		if len(divs) != 1 {
			t.Fatalf("expected 1 alert div, got %d", len(divs))
		}
		if class, _ := attr(divs[0], "class"); !strings.Contains(class, "alert-dismissible") {
			t.Errorf("expected dismissible alert, got class %q", class)
		}
		if id, _ := attr(divs[0], "id"); id != LoginErrorID {
			t.Errorf("expected id %q, got %q", LoginErrorID, id)
		}
		if got := dom.Text(fragment); got != MissingFieldMessage {
			t.Errorf("expected text %q, got %q", MissingFieldMessage, got)
		}
	})

	t.Run("Escapes Message", func(t *testing.T) {
		fragment := Alert(SearchErrorID, "<script>x</script>")
		if strings.Contains(fragment, "<script>") {
			t.Errorf("message should be escaped: %s", fragment)
		}
		if len(find(parse(t, fragment), atom.Script)) != 0 {
			t.Error("escaped message should not produce a script element")
		}
	})
}

func TestResults(t *testing.T) {
	t.Run("Table", func(t *testing.T) {
		apps := []models.Application{
			{ID: 1, Name: "tagged-web", Arch: "noarch"},
			{ID: 2, Name: "tagged-api", EnvSpecific: true},
		}
		nodes := parse(t, Results(apps))

		rows := find(find(nodes, atom.Tbody), atom.Tr)
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		if id, _ := attr(rows[1], "data-application-id"); id != "2" {
			t.Errorf("expected row id 2, got %q", id)
		}
		if text := dom.Text(Results(apps)); !strings.Contains(text, "tagged-api") {
			t.Errorf("expected application name in %q", text)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := dom.Text(Results(nil)); got != "No applications found." {
			t.Errorf("unexpected empty state %q", got)
		}
	})
}

func TestDeterministic(t *testing.T) {
	if SearchBar() != SearchBar() || Login() != Login() || Home() != Home() {
		t.Error("static fragments should render identically every time")
	}
}

func TestWritePage(t *testing.T) {
	doc := dom.NewDocument()
	doc.Update(dom.MountBody, Login())
	doc.Update(dom.MountAlert, Alert(LoginErrorID, "nope"))

	var buf bytes.Buffer
	if err := WritePage(&buf, "TDS", "https://tds.example.com/v1", doc); err != nil {
		t.Fatalf("WritePage failed: %v", err)
	}

	root, err := html.Parse(&buf)
	if err != nil {
		t.Fatalf("failed to parse page: %v", err)
	}

	ids := map[string]*html.Node{}
	for _, div := range find([]*html.Node{root}, atom.Div) {
		if id, ok := attr(div, "id"); ok {
			ids[id] = div
		}
	}
	for _, id := range dom.Mounts {
		if ids[id] == nil {
			t.Errorf("page is missing mount %q", id)
		}
	}
	if len(find([]*html.Node{ids[dom.MountBody]}, atom.Form)) != 1 {
		t.Error("login form should be mounted inside the body")
	}
	if got := dom.Text(Alert(LoginErrorID, "nope")); got != "nope" {
		t.Errorf("unexpected alert text %q", got)
	}
}

func TestRender(t *testing.T) {
	t.Run("returns errors instead of panicking", func(t *testing.T) {
		out, err := render("no_such_template", nil)
		if err == nil {
			t.Fatal("expected an error for an unknown template")
		}
		if out != "" {
			t.Errorf("expected no output on error, got %q", out)
		}
	})

	t.Run("static fragments match a fresh render", func(t *testing.T) {
		for name, got := range map[string]string{"login": Login(), "search_bar": SearchBar(), "home": Home()} {
			want, err := render(name, nil)
			if err != nil {
				t.Fatalf("render(%s) error = %v", name, err)
			}
			if got != want {
				t.Errorf("%s fragment differs from render output", name)
			}
		}
	})
}
