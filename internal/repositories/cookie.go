package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tdsdash/internal/models"
	"github.com/desertthunder/tdsdash/internal/shared"
)

// CookieRepository persists [models.StoredCookie] rows.
type CookieRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Save inserts the cookie or replaces the value of the existing (host, name, path) row.
func (r *CookieRepository) Save(cookie *models.StoredCookie) error {
	if err := cookie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if cookie.ID() == "" {
		cookie.SetID(shared.GenerateID())
	}
	now := r.now()
	cookie.SetUpdatedAt(now)

	query := `
		INSERT INTO cookies (id, host, name, value, path, secure, http_only, host_only, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (host, name, path) DO UPDATE SET
			value = excluded.value,
			secure = excluded.secure,
			http_only = excluded.http_only,
			host_only = excluded.host_only,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	_, err := r.db.Exec(query,
		cookie.ID(), cookie.Host, cookie.Name, cookie.Value, cookie.Path,
		boolInt(cookie.Secure), boolInt(cookie.HTTPOnly), boolInt(cookie.HostOnly), nullTime(cookie.ExpiresAt), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save cookie: %w", err)
	}

	return nil
}

// matchesHost selects rows stored for host itself and domain cookies of its parent domains.
const matchesHost = `(host = ? OR (host_only = 0 AND ? LIKE '%.' || host))`

// ListForHost returns unexpired cookies for host: its own cookies and the domain cookies of its parent domains.
func (r *CookieRepository) ListForHost(host string) ([]*models.StoredCookie, error) {
	query := `
		SELECT id, host, name, value, path, secure, http_only, host_only, expires_at, created_at, updated_at
		FROM cookies
		WHERE ` + matchesHost + `
		  AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY length(path) DESC, created_at ASC
	`

	rows, err := r.db.Query(query, host, host, r.now())
	if err != nil {
		return nil, fmt.Errorf("failed to query cookies: %w", err)
	}
	defer rows.Close()

	var cookies []*models.StoredCookie
	for rows.Next() {
		var (
			c         models.StoredCookie
			id        string
			secure    int
			httpOnly  int
			hostOnly  int
			expiresAt sql.NullTime
			createdAt time.Time
			updatedAt time.Time
		)

		if err := rows.Scan(&id, &c.Host, &c.Name, &c.Value, &c.Path, &secure, &httpOnly, &hostOnly, &expiresAt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cookie: %w", err)
		}

		c.SetID(id)
		c.Secure = secure == 1
		c.HTTPOnly = httpOnly == 1
		c.HostOnly = hostOnly == 1
		c.SetCreatedAt(createdAt)
		c.SetUpdatedAt(updatedAt)
		if expiresAt.Valid {
			exp := expiresAt.Time
			c.ExpiresAt = &exp
		}

		cookies = append(cookies, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return cookies, nil
}

// Delete removes a single cookie.
func (r *CookieRepository) Delete(host, name, path string) error {
	if _, err := r.db.Exec("DELETE FROM cookies WHERE host = ? AND name = ? AND path = ?", host, name, path); err != nil {
		return fmt.Errorf("failed to delete cookie: %w", err)
	}
	return nil
}

// DeleteHost removes every cookie [CookieRepository.ListForHost] would return for host,
// expired or not, and returns how many were removed.
func (r *CookieRepository) DeleteHost(host string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM cookies WHERE "+matchesHost, host, host)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cookies: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// PurgeExpired removes cookies whose expiry has passed.
func (r *CookieRepository) PurgeExpired() (int64, error) {
	result, err := r.db.Exec("DELETE FROM cookies WHERE expires_at IS NOT NULL AND expires_at <= ?", r.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cookies: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}
