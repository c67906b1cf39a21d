// package cookies parses browser-style cookie header strings
package cookies

import (
	"net/http"
	"sort"
	"strings"
)

// SessionKey is the cookie that carries the TDS session token.
const SessionKey = "session"

// Map is a snapshot of cookie name to value.
//
// It is built once per page load and treated as read-only afterwards.
type Map map[string]string

// Parse splits a raw cookie header ("a=1; b=2") into a [Map].
//
// Each entry is split on its first "=" only, so values keep embedded "=" characters.
// Entries without "=" map to the empty string and the last duplicate name wins.
func Parse(raw string) Map {
	m := Map{}
	if raw == "" {
		return m
	}

	for _, entry := range strings.Split(raw, "; ") {
		name, value, _ := strings.Cut(entry, "=")
		m[name] = value
	}
	return m
}

// Get returns the value for name and whether it was present.
func (m Map) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Session returns the session token, if any. The token is opaque.
func (m Map) Session() (string, bool) {
	return m.Get(SessionKey)
}

// Header renders the map back into a raw header with names sorted.
func (m Map) Header() string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+m[name])
	}
	return strings.Join(pairs, "; ")
}

// FromHTTP formats jar cookies the way a browser exposes document.cookie.
func FromHTTP(cs []*http.Cookie) string {
	pairs := make([]string, 0, len(cs))
	for _, c := range cs {
		pairs = append(pairs, c.Name+"="+c.Value)
	}
	return strings.Join(pairs, "; ")
}
