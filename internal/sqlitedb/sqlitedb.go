// Package sqlitedb opens application databases from phone backups for
// reading.
//
// Backups are opened read-only so a planning run never alters them, and every
// query is retried briefly when SQLite reports the file as busy (for example
// while a sync tool is still copying it).
package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// DB is a read-only SQLite handle.
type DB struct {
	db   *sql.DB
	path string
}

// OpenReadOnly opens the database at path without write access and verifies
// that it is readable.
func OpenReadOnly(ctx context.Context, path string) (*DB, error) {
	ctx = ensureContext(ctx)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat sqlite db: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("sqlite db %s is a directory", path)
	}

	dsn := (&url.URL{
		Scheme:   "file",
		OmitHost: true,
		Path:     path,
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)&_pragma=query_only(1)",
	}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	handle := &DB{db: db, path: path}
	if err := retryOnBusy(ctx, func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db %s: %w", path, err)
	}
	return handle, nil
}

// Path returns the file the handle was opened from.
func (d *DB) Path() string { return d.path }

// Close closes the underlying database connection.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Query runs query and calls scan once per row. The whole query is retried
// when SQLite reports the database busy before any row was delivered.
func (d *DB) Query(ctx context.Context, scan func(*sql.Rows) error, query string, args ...any) error {
	ctx = ensureContext(ctx)
	var rows *sql.Rows
	if err := retryOnBusy(ctx, func() error {
		var err error
		rows, err = d.db.QueryContext(ctx, query, args...)
		return err
	}); err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// HasTable reports whether the schema contains a table with the given name.
func (d *DB) HasTable(ctx context.Context, name string) (bool, error) {
	var found bool
	err := d.Query(ctx, func(rows *sql.Rows) error {
		found = true
		return nil
	}, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	return found, err
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// NullString converts a nullable column into a trimmed string.
func NullString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return strings.TrimSpace(v.String)
}
