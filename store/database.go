// Package store provides persistence for websites, users, events,
// revenues, goals and heartbeats on libsql/SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"                      // SQLite driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver

	"github.com/insightly/insightly-go/config"
)

// timeFormat is how timestamps are written to the database. A fixed UTC
// layout keeps strftime bucketing and lexicographic range comparisons
// consistent across both drivers.
const timeFormat = "2006-01-02 15:04:05"

// Store wraps the database connection.
type Store struct {
	DB       *sql.DB
	UseTurso bool
}

// NewStore opens the events database. Turso is tried first when
// credentials are configured, with local SQLite as the fallback.
func NewStore() (*Store, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if config.TursoDatabase != "" && config.TursoToken != "" {
		connStr := config.TursoDatabase + "?authToken=" + config.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			if pingErr := conn.Ping(); pingErr == nil {
				useTurso = true
			} else {
				conn.Close()
				conn = nil
			}
		}
	}

	if conn == nil {
		dbDir := filepath.Dir(config.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}

		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("SQLite database ping failed: %w", err)
		}
		useTurso = false
	}

	s := &Store{DB: conn, UseTurso: useTurso}
	if err := s.Migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wraps an already-open connection and runs migrations.
// Tests use it with an in-memory SQLite handle.
func NewStoreWithDB(db *sql.DB) (*Store, error) {
	s := &Store{DB: db}
	if err := s.Migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS websites (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			domain TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			stripe_api_key TEXT NOT NULL DEFAULT '',
			polar_api_key TEXT NOT NULL DEFAULT '',
			dodo_api_key TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			website_id TEXT NOT NULL,
			page TEXT NOT NULL,
			visitor_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			type TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			browser TEXT NOT NULL DEFAULT '',
			os TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT '',
			country_code TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_website_created
			ON events(website_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_session
			ON events(website_id, visitor_id, session_id)`,
		`CREATE TABLE IF NOT EXISTS revenues (
			id TEXT PRIMARY KEY,
			website_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			visitor_id TEXT NOT NULL,
			revenue REAL NOT NULL DEFAULT 0,
			renewal REAL NOT NULL DEFAULT 0,
			refunded REAL NOT NULL DEFAULT 0,
			sales INTEGER NOT NULL DEFAULT 0,
			event_type TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_revenues_website_created
			ON revenues(website_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			website_id TEXT NOT NULL,
			visitor_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_website_name
			ON goals(website_id, name)`,
		`CREATE TABLE IF NOT EXISTS heartbeats (
			id TEXT PRIMARY KEY,
			website_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			visitor_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			UNIQUE(website_id, session_id, visitor_id)
		)`,
		`CREATE TABLE IF NOT EXISTS payment_idempotency (
			payment_id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			processed_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// GetConnectionInfo returns a string describing the database connection
func (s *Store) GetConnectionInfo() string {
	if s.UseTurso {
		return "Turso"
	}
	return "SQLite"
}
