// Package dom models the page's mount points as an HTML fragment sink
package dom

import (
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Mount point ids of the dashboard page.
const (
	MountBody    = "tds-fluid-body"         // login or home root container
	MountAlert   = "tds-alert"              // inline dismissible alerts
	MountSearch  = "tds-search-placeholder" // navbar search bar
	MountResults = "tds-search-results"     // application search results
)

// Mounts lists every mount in page order.
var Mounts = []string{MountSearch, MountAlert, MountBody, MountResults}

// Sink accepts HTML fragments for named mount points.
type Sink interface {
	// Update replaces the fragment mounted at id and reports whether anything changed.
	Update(id, fragment string) bool
	// HTML returns the fragment currently mounted at id.
	HTML(id string) string
}

// Document is an in-memory [Sink].
//
// Updates with unchanged content are skipped so redundant redraws never disturb what is mounted.
type Document struct {
	mu        sync.RWMutex
	fragments map[string]string
	mutations map[string]int
}

var _ Sink = (*Document)(nil)

// NewDocument creates an empty document with no mounted content.
func NewDocument() *Document {
	return &Document{fragments: map[string]string{}, mutations: map[string]int{}}
}

// Update implements [Sink].
func (d *Document) Update(id, fragment string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fragments[id] == fragment {
		return false
	}
	d.fragments[id] = fragment
	d.mutations[id]++
	return true
}

// UpdatePage applies every fragment whose id is in ids, skipping ids missing from fragments.
func (d *Document) UpdatePage(ids []string, fragments map[string]string) int {
	changed := 0
	for _, id := range ids {
		if fragment, ok := fragments[id]; ok && d.Update(id, fragment) {
			changed++
		}
	}
	return changed
}

// HTML implements [Sink].
func (d *Document) HTML(id string) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fragments[id]
}

// Snapshot returns a copy of every mounted fragment.
func (d *Document) Snapshot() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]string, len(d.fragments))
	for id, f := range d.fragments {
		out[id] = f
	}
	return out
}

// Mutations returns the total number of writes that changed the document.
func (d *Document) Mutations() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	total := 0
	for _, n := range d.mutations {
		total += n
	}
	return total
}

// MutationsOf returns how many writes changed the fragment at id.
func (d *Document) MutationsOf(id string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mutations[id]
}

// Text returns the visible text of the fragment at id with whitespace collapsed.
func (d *Document) Text(id string) string {
	return Text(d.HTML(id))
}

// Text extracts visible text from an HTML fragment. Buttons are skipped, so an alert's
// dismiss control does not leak into the message.
func Text(fragment string) string {
	if fragment == "" {
		return ""
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return ""
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		case html.ElementNode:
			if n.DataAtom == atom.Button || n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}
