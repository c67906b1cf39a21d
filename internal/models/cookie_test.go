package models

import (
	"net/http"
	"testing"
	"time"
)

func TestStoredCookie(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	t.Run("Max-Age sets expiry", func(t *testing.T) {
		c := NewStoredCookie("deploy.example.com", &http.Cookie{Name: "session", Value: "x", MaxAge: 60}, now)

		if c.Path != "/" {
			t.Errorf("expected default path /, got %s", c.Path)
		}
		if c.ExpiresAt == nil || !c.ExpiresAt.Equal(now.Add(time.Minute)) {
			t.Errorf("unexpected expiry %v", c.ExpiresAt)
		}
		if c.Expired(now) {
			t.Error("cookie should not be expired yet")
		}
		if !c.Expired(now.Add(2 * time.Minute)) {
			t.Error("cookie should expire after Max-Age")
		}
	})

	t.Run("negative Max-Age deletes", func(t *testing.T) {
		c := NewStoredCookie("deploy.example.com", &http.Cookie{Name: "session", MaxAge: -1}, now)
		if !c.Expired(now) {
			t.Error("expected cookie to be expired immediately")
		}
	})

	t.Run("session cookie never expires", func(t *testing.T) {
		c := NewStoredCookie("deploy.example.com", &http.Cookie{Name: "session", Value: "x"}, now)
		if c.Expired(now.Add(24 * time.Hour)) {
			t.Error("session cookie should not expire")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (&StoredCookie{Name: "session"}).Validate(); err == nil {
			t.Error("expected error for missing host")
		}
		if err := (&StoredCookie{Host: "h"}).Validate(); err == nil {
			t.Error("expected error for missing name")
		}
	})

	t.Run("HTTP", func(t *testing.T) {
		c := NewStoredCookie("h", &http.Cookie{Name: "session", Value: "a=b", Path: "/v1", Secure: true}, now)
		hc := c.HTTP()
		if hc.Name != "session" || hc.Value != "a=b" || hc.Path != "/v1" || !hc.Secure {
			t.Errorf("unexpected cookie %+v", hc)
		}
	})
}
