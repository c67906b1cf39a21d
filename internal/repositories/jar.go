package repositories

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdsdash/internal/models"
	"golang.org/x/net/publicsuffix"
)

// Jar implements [http.CookieJar] on top of a [CookieRepository].
//
// Cookies are scoped by host and path. A Domain attribute is accepted only when the sending host
// domain-matches it and it is not a public suffix; such cookies are also sent to subdomains.
// Secure cookies are only returned for https URLs.
type Jar struct {
	mu     sync.Mutex
	repo   *CookieRepository
	logger *log.Logger
	now    func() time.Time
}

var _ http.CookieJar = (*Jar)(nil)

// NewJar creates a [Jar]. Storage errors are logged since [http.CookieJar] cannot return them.
func NewJar(repo *CookieRepository, logger *log.Logger) *Jar {
	if logger == nil {
		logger = log.Default()
	}
	return &Jar{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// SetCookies stores response cookies for u. Cookies that are already expired delete the stored copy.
func (j *Jar) SetCookies(u *url.URL, cs []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	for _, c := range cs {
		host, hostOnly, ok := cookieScope(u, c)
		if !ok {
			j.logger.Warn("rejected cookie for foreign domain", "host", u.Hostname(), "domain", c.Domain, "name", c.Name)
			continue
		}
		sc := models.NewStoredCookie(host, c, now)
		sc.HostOnly = hostOnly

		if sc.Expired(now) {
			if err := j.repo.Delete(host, sc.Name, sc.Path); err != nil {
				j.logger.Error("failed to delete cookie", "name", sc.Name, "error", err)
			}
			continue
		}

		if err := j.repo.Save(sc); err != nil {
			j.logger.Error("failed to store cookie", "name", sc.Name, "error", err)
			continue
		}
		j.logger.Debug("stored cookie", "host", host, "name", sc.Name)
	}
}

// Cookies returns the cookies to send in a request for u.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	host := strings.ToLower(u.Hostname())
	stored, err := j.repo.ListForHost(host)
	if err != nil {
		j.logger.Error("failed to load cookies", "host", host, "error", err)
		return nil
	}

	reqPath := u.EscapedPath()
	if reqPath == "" {
		reqPath = "/"
	}

	now := j.now()
	var out []*http.Cookie
	for _, sc := range stored {
		if sc.Expired(now) {
			continue
		}
		if sc.Secure && u.Scheme != "https" {
			continue
		}
		if !pathMatch(sc.Path, reqPath) {
			continue
		}
		out = append(out, &http.Cookie{Name: sc.Name, Value: sc.Value})
	}
	return out
}

// Clear removes every cookie that would be sent to u's host, including parent domain cookies.
func (j *Jar) Clear(u *url.URL) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.repo.DeleteHost(strings.ToLower(u.Hostname()))
}

// cookieScope returns the host a cookie from u is stored under and whether it is host-only,
// following RFC 6265 section 5.3 steps 5 and 6. ok is false when the cookie must be ignored.
func cookieScope(u *url.URL, c *http.Cookie) (host string, hostOnly, ok bool) {
	host = strings.ToLower(u.Hostname())
	domain := strings.TrimPrefix(strings.ToLower(c.Domain), ".")
	if domain == "" {
		return host, true, true
	}

	// IP hosts and public suffixes only accept a Domain naming the request host, which stays host-only.
	if net.ParseIP(host) != nil || publicsuffix.List.PublicSuffix(domain) == domain {
		return host, true, domain == host
	}

	if host != domain && !strings.HasSuffix(host, "."+domain) {
		return "", false, false
	}
	return domain, false, true
}

// pathMatch implements the RFC 6265 path-match rule.
func pathMatch(cookiePath, reqPath string) bool {
	if cookiePath == reqPath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
