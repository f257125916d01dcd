// Package sqlite persists the client session as key/value pairs in a local
// SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"time-tracker-gateway/internal/domain"
	"time-tracker-gateway/internal/errors"
	"time-tracker-gateway/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for key/value storage
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// KVRepository implements the Repository interface
type KVRepository struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at dbPath and applies pending
// migrations.
func New(dbPath string) (*KVRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// One connection so the busy timeout applies to every statement.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &KVRepository{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (r *KVRepository) Close() error {
	return r.db.Close()
}

// Get returns the value stored under key.
func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	return QueryOptional[string](ctx, r.db, "get session entry",
		"SELECT value FROM session_entries WHERE key = ?", key)
}

// Set stores value under key, replacing any previous value.
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO session_entries (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := ExecuteWithRowsAffected(ctx, r.db, "set session entry", query,
		key, value, domain.FormatTimestamp(r.now()))
	return err
}

// Remove deletes key. Removing a missing key is not an error.
func (r *KVRepository) Remove(ctx context.Context, key string) error {
	_, err := ExecuteWithRowsAffected(ctx, r.db, "remove session entry",
		"DELETE FROM session_entries WHERE key = ?", key)
	return err
}
