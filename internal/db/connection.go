package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open creates a connection pool for the sqlite file at path, creating
// parent directories as needed. WAL and a busy timeout are set on the pool.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	pool, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single writer is all the history needs; it also keeps :memory: one database
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(0)

	if _, err := pool.Exec("PRAGMA journal_mode=WAL"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if _, err := pool.Exec("PRAGMA busy_timeout=5000"); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := pool.Ping(); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
