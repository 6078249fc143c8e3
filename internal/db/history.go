package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// MaxHistory is how many command-line entries are kept
const MaxHistory = 500

const schema = `
CREATE TABLE IF NOT EXISTS command_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	command    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// History persists ":" command-line entries
type History struct {
	db *sql.DB
}

// OpenHistory opens (and migrates) the history database at path
func OpenHistory(path string) (*History, error) {
	pool, err := Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	return &History{db: pool}, nil
}

// Append records command unless it is blank or repeats the latest entry
func (h *History) Append(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil
	}

	var last string
	err := h.db.QueryRowContext(ctx,
		"SELECT command FROM command_history ORDER BY id DESC LIMIT 1").Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if last == command {
		return nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO command_history (command, created_at) VALUES (?, ?)",
		command, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM command_history
		WHERE id NOT IN (SELECT id FROM command_history ORDER BY id DESC LIMIT ?)`,
		MaxHistory); err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, oldest first
func (h *History) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = MaxHistory
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT command FROM (
			SELECT id, command FROM command_history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var cmd string
		if err := rows.Scan(&cmd); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		out = append(out, cmd)
	}
	return out, rows.Err()
}

// Close releases the pool
func (h *History) Close() error {
	if h == nil || h.db == nil {
		return nil
	}
	return h.db.Close()
}
