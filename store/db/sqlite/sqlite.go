// Package sqlite implements the store driver backed by SQLite.
//
// SQLite has no vector extension, so embeddings are stored as raw float32
// blobs and the nearest-neighbor scan runs in-process. Fine for a single-user
// demo instance; use PostgreSQL with pgvector for anything larger.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/lifeinbox/lifeinbox/internal/profile"
	"github.com/lifeinbox/lifeinbox/store"
)

// DB is the SQLite implementation of store.Driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

const schema = `
CREATE TABLE IF NOT EXISTS record (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	uid TEXT NOT NULL UNIQUE,
	creator_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT 'text',
	created_ts BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_record_creator ON record (creator_id, created_ts);

CREATE TABLE IF NOT EXISTS record_embedding (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	record_id INTEGER NOT NULL,
	embedding BLOB NOT NULL,
	model TEXT NOT NULL,
	created_ts BIGINT NOT NULL,
	updated_ts BIGINT NOT NULL,
	UNIQUE (record_id, model)
);
`

// NewDB opens a SQLite database from the profile DSN and ensures the schema.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("sqlite", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database with DSN %s", profile.DSN)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ensure schema")
	}

	return &DB{db: db, profile: profile}, nil
}

// GetDB returns the underlying database handle.
func (d *DB) GetDB() *sql.DB {
	return d.db
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
