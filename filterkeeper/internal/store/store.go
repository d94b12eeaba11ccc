// Package store persists cosmetic filters in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/hazyhaar/pkg/dbopen"

	_ "modernc.org/sqlite"
)

// Schema creates the filter table.
const Schema = `
CREATE TABLE IF NOT EXISTS cosmetic_filters (
	id         TEXT PRIMARY KEY,
	host       TEXT NOT NULL,
	selector   TEXT NOT NULL,
	enabled    INTEGER NOT NULL DEFAULT 1,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE (host, selector)
);
CREATE INDEX IF NOT EXISTS idx_cosmetic_filters_host ON cosmetic_filters(host);
`

// Store is the filter database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the filter database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := dbopen.Open(path, dbopen.WithMkdirAll(), dbopen.WithSchema(Schema))
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	return &Store{DB: db}, nil
}

// OpenMemory opens an in-memory store for tests, closed on test cleanup.
func OpenMemory(t testing.TB) *Store {
	t.Helper()
	return &Store{DB: dbopen.OpenMemory(t, dbopen.WithSchema(Schema))}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
