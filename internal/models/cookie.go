package models

import (
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/tdsdash/internal/shared"
)

// StoredCookie is a cookie persisted in the credential jar, scoped to a host.
type StoredCookie struct {
	id        string
	Host      string
	Name      string
	Value     string
	Path      string
	Secure    bool
	HTTPOnly  bool
	HostOnly  bool // sent only to Host itself, never to its subdomains
	ExpiresAt *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewStoredCookie converts a response cookie received from host into a [StoredCookie].
//
// Max-Age takes precedence over Expires, as in a browser. A cookie without a Domain attribute is host-only.
func NewStoredCookie(host string, c *http.Cookie, now time.Time) *StoredCookie {
	path := c.Path
	if path == "" {
		path = "/"
	}

	sc := &StoredCookie{
		Host:      host,
		Name:      c.Name,
		Value:     c.Value,
		Path:      path,
		Secure:    c.Secure,
		HTTPOnly:  c.HttpOnly,
		HostOnly:  c.Domain == "",
		createdAt: now,
		updatedAt: now,
	}

	switch {
	case c.MaxAge > 0:
		exp := now.Add(time.Duration(c.MaxAge) * time.Second)
		sc.ExpiresAt = &exp
	case c.MaxAge < 0:
		exp := now.Add(-time.Second)
		sc.ExpiresAt = &exp
	case !c.Expires.IsZero():
		exp := c.Expires
		sc.ExpiresAt = &exp
	}

	return sc
}

// ID returns the row identifier assigned by the repository.
func (c *StoredCookie) ID() string { return c.id }

func (c *StoredCookie) SetID(id string) { c.id = id }

func (c *StoredCookie) CreatedAt() time.Time { return c.createdAt }

func (c *StoredCookie) UpdatedAt() time.Time { return c.updatedAt }

func (c *StoredCookie) SetCreatedAt(t time.Time) { c.createdAt = t }

func (c *StoredCookie) SetUpdatedAt(t time.Time) { c.updatedAt = t }

// Expired reports whether the cookie is past its expiry at now. Session cookies never expire here.
func (c *StoredCookie) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Validate requires a host and a name.
func (c *StoredCookie) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("%w: cookie host is required", shared.ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: cookie name is required", shared.ErrInvalidInput)
	}
	return nil
}

// HTTP converts the stored row back into an [http.Cookie] for a request.
func (c *StoredCookie) HTTP() *http.Cookie {
	hc := &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Path:     c.Path,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
	}
	if c.ExpiresAt != nil {
		hc.Expires = *c.ExpiresAt
	}
	return hc
}

var _ Model = (*StoredCookie)(nil)
