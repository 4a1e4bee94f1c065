// Package sqlite provides the SQLite-backed corpus index for gemdocs.
// Page rows and their FTS5 postings live in the same database so a single
// write transaction can replace both.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DefaultMaxReaders is the connection pool size for file-based databases.
const DefaultMaxReaders = 4

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string

	// wmu serializes write transactions. SQLite allows one writer at a time;
	// holding the lock in-process avoids SQLITE_BUSY churn between workers.
	wmu sync.Mutex
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Each in-memory connection is a separate database, so keep one.
	// File databases get a small pool so readers are not queued behind
	// the writer.
	if db.path == ":memory:" {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(DefaultMaxReaders)
	}

	// Verify connection
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db.db = conn

	// Create schema
	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// WithTx runs fn inside a write transaction. Writes are serialized; fn's
// changes become visible to readers only when the transaction commits.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db.wmu.Lock()
	defer db.wmu.Unlock()

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// dsn builds the data source name. Pragmas are passed as URI parameters so
// that every connection in the pool gets them, not just the first.
//
// WAL lets readers see the last committed snapshot while a write
// transaction is open. It is not supported for in-memory databases.
func (db *DB) dsn() string {
	if db.path == ":memory:" {
		return "file::memory:?_pragma=busy_timeout(5000)"
	}
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(wal)")
	q.Add("_pragma", "synchronous(normal)")
	u := url.URL{Scheme: "file", OmitHost: true, Path: db.path, RawQuery: q.Encode()}
	return u.String()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS pages (
			id INTEGER PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			capability TEXT NOT NULL DEFAULT '',
			section TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_pages_capability ON pages(capability);

		CREATE VIRTUAL TABLE IF NOT EXISTS pages_fts USING fts5(
			title,
			body,
			tokenize = 'porter unicode61'
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
