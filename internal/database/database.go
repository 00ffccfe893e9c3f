package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Database wraps the sqlite handle shared by repositories, the authz
// adapter and the logger.
type Database struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at dbPath and ensures
// the schema exists. Use ":memory:" for a throwaway database.
func Open(dbPath string) (*Database, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serializes writers; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	d := &Database{db: db}
	if err := d.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return d, nil
}

// createTables creates all necessary database tables
func (d *Database) createTables() error {
	createRolesTable := `
	CREATE TABLE IF NOT EXISTS roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		is_deleted BOOLEAN NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_roles_is_deleted ON roles(is_deleted);
	`

	createAccessLogsTable := `
	CREATE TABLE IF NOT EXISTS access_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT NOT NULL,
		level TEXT NOT NULL,
		service_id TEXT NOT NULL,
		instance_id TEXT NOT NULL,
		event_code TEXT NOT NULL,
		message TEXT NOT NULL,
		details TEXT,
		request_id TEXT,
		hostname TEXT,
		source_location TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_access_logs_event_code ON access_logs(event_code);
	CREATE INDEX IF NOT EXISTS idx_access_logs_request_id ON access_logs(request_id);
	`

	createCasbinTable := `
	CREATE TABLE IF NOT EXISTS casbin_policies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ptype TEXT NOT NULL,
		v0 TEXT,
		v1 TEXT,
		v2 TEXT,
		v3 TEXT,
		v4 TEXT,
		v5 TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_casbin_ptype ON casbin_policies(ptype);
	CREATE INDEX IF NOT EXISTS idx_casbin_v0 ON casbin_policies(v0);
	`

	for _, stmt := range []string{createRolesTable, createAccessLogsTable, createCasbinTable} {
		if _, err := d.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetDB returns the underlying handle.
func (d *Database) GetDB() *sql.DB {
	return d.db
}

// Close closes the database connection
func (d *Database) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
