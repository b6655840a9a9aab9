package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite verification history database.
type DB struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the history database.
func Open(configDir string) (*DB, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dbPath := filepath.Join(configDir, "history.db")
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	h := &DB{db: sqlDB, path: dbPath}
	if err := h.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the database.
func (h *DB) Close() error {
	return h.db.Close()
}

// Path returns the path to the history database file.
func (h *DB) Path() string {
	return h.path
}

func (h *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		serial TEXT NOT NULL,
		model TEXT NOT NULL DEFAULT '',
		android_version TEXT NOT NULL DEFAULT '',
		manufacturer TEXT NOT NULL DEFAULT '',
		network_ok INTEGER NOT NULL DEFAULT 0,
		filesystem_ok INTEGER NOT NULL DEFAULT 0,
		checked_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_serial ON runs(serial);
	CREATE INDEX IF NOT EXISTS idx_runs_checked_at ON runs(checked_at);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
