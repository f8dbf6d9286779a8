// Package sqlstore keeps normalized items and sync state in SQLite or PostgreSQL.
package sqlstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("sqlstore: not found")

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS items (
    collection   TEXT NOT NULL,
    slug         TEXT NOT NULL,
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    published_on TIMESTAMP NULL,
    sort_order   INTEGER NOT NULL DEFAULT 0,
    category     TEXT NOT NULL DEFAULT '',
    module       TEXT NOT NULL DEFAULT '',
    emoji        TEXT NOT NULL DEFAULT '',
    cover        TEXT NOT NULL DEFAULT '',
    source_id    TEXT NOT NULL,
    position     INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (collection, slug)
);

CREATE TABLE IF NOT EXISTS sync_state (
    collection     TEXT PRIMARY KEY,
    last_synced_at TIMESTAMP NOT NULL,
    item_count     INTEGER NOT NULL DEFAULT 0,
    total_synced   INTEGER NOT NULL DEFAULT 0
);
`

// Open connects to the database and ensures the schema exists. For SQLite the
// dsn is a file path whose directory is created when missing.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		db, err := sqlx.Connect(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := EnsureSchema(db); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

func openSQLite(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sqlx.Open(DriverSQLite, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes the two collection writers; the
	// pragmas then apply to every statement.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
