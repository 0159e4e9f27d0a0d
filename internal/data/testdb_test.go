//go:build integration

package data

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// setupTestDB creates a new in-memory SQLite database with the full schema
// and returns it with a teardown function to be deferred.
func setupTestDB(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	// Use a non-shared in-memory database for complete test isolation.
	db, err := sqlx.Connect("sqlite", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}

	schema := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('Admin', 'Editor')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL DEFAULT '',
		content_ref TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);
	CREATE TABLE direct_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL UNIQUE
	);`
	db.MustExec(schema)

	teardown := func() {
		db.Close()
	}

	return db, teardown
}
