package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// New opens (or creates) the SQLite file at dbPath and runs migrations.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer; a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: dbPath}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pan_x REAL NOT NULL DEFAULT 0,
			pan_y REAL NOT NULL DEFAULT 0,
			zoom REAL NOT NULL DEFAULT 1.0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		// Screen ids are unique within a collection only
		`CREATE TABLE IF NOT EXISTS screens (
			id TEXT NOT NULL,
			collection_id TEXT NOT NULL REFERENCES collections(id),
			name TEXT NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (collection_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS node_positions (
			collection_id TEXT NOT NULL REFERENCES collections(id),
			screen_id TEXT NOT NULL,
			x REAL NOT NULL DEFAULT 0,
			y REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (collection_id, screen_id)
		)`,
		`CREATE TABLE IF NOT EXISTS connections (
			id TEXT PRIMARY KEY,
			collection_id TEXT NOT NULL REFERENCES collections(id),
			sort_order INTEGER NOT NULL DEFAULT 0,
			from_screen_id TEXT NOT NULL,
			to_screen_id TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'tap',
			label TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_screens_collection ON screens(collection_id)`,
		`CREATE INDEX IF NOT EXISTS idx_connections_collection ON connections(collection_id)`,
		// Grid snap preference per collection
		`ALTER TABLE collections ADD COLUMN grid_snap INTEGER NOT NULL DEFAULT 0`,
		// Layout history: one row per saved position snapshot
		`CREATE TABLE IF NOT EXISTS layout_history (
			id TEXT PRIMARY KEY,
			collection_id TEXT NOT NULL REFERENCES collections(id),
			parent_id TEXT,
			label TEXT NOT NULL,
			positions_json TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_layout_history_collection ON layout_history(collection_id)`,
		// History state: current entry pointer per collection
		`CREATE TABLE IF NOT EXISTS history_state (
			collection_id TEXT PRIMARY KEY REFERENCES collections(id),
			current_entry_id TEXT NOT NULL REFERENCES layout_history(id)
		)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			// ALTER TABLE fails if the column already exists
			if strings.Contains(m, "ALTER TABLE") && strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}
