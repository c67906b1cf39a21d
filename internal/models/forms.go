package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/tdsdash/internal/shared"
)

// FormValues is the raw field name to text mapping a submitted form serializes into.
type FormValues map[string]string

// Get returns the named value with surrounding whitespace removed.
func (v FormValues) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// ValidationError reports the required fields that were left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", shared.ErrMissingField, strings.Join(e.Fields, ", "))
}

// Unwrap lets callers match with errors.Is(err, shared.ErrMissingField).
func (e *ValidationError) Unwrap() error {
	return shared.ErrMissingField
}

// LoginForm holds the credentials posted to /login.
type LoginForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewLoginForm builds a [LoginForm] from submitted values.
//
// The password is kept verbatim; only the username is trimmed.
func NewLoginForm(v FormValues) LoginForm {
	return LoginForm{Username: v.Get("username"), Password: v["password"]}
}

// Validate requires both fields.
func (f LoginForm) Validate() error {
	var missing []string
	if f.Username == "" {
		missing = append(missing, "username")
	}
	if f.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Payload returns the form as the key-value structure sent on the wire.
func (f LoginForm) Payload() map[string]string {
	return map[string]string{"username": f.Username, "password": f.Password}
}

// SearchForm holds the application search query.
type SearchForm struct {
	Name string `json:"name"`
}

// NewSearchForm builds a [SearchForm] from submitted values.
func NewSearchForm(v FormValues) SearchForm {
	return SearchForm{Name: v.Get("name")}
}

// Validate accepts any name; an empty name lists every application.
func (f SearchForm) Validate() error {
	return nil
}

// Payload returns the form as the key-value structure sent on the wire.
func (f SearchForm) Payload() map[string]string {
	if f.Name == "" {
		return map[string]string{}
	}
	return map[string]string{"name": f.Name}
}

// Query encodes the payload as URL query parameters.
func (f SearchForm) Query() url.Values {
	q := url.Values{}
	for k, v := range f.Payload() {
		q.Set(k, v)
	}
	return q
}
