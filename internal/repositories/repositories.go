// package repositories provides persistence layer implementations for the credential jar.
package repositories

import (
	"database/sql"
	"time"
)

// nullTime converts an optional timestamp into a UTC [sql.NullTime] parameter.
//
// Timestamps are compared as text by SQLite, so every stored value uses the same zone.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// boolInt stores booleans as SQLite integers.
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
