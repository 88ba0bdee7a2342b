// Package sqlite stores preferences in a single-file database using the pure Go driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS map_preferences (
	client_id  TEXT NOT NULL,
	pref_key   TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (client_id, pref_key)
)`

// Preferences implements ports.PreferenceBackend on SQLite.
type Preferences struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and ensures the schema.
func Open(path string) (*Preferences, error) {
	if path == "" {
		path = "evoteli.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create map_preferences table: %w", err)
	}
	return &Preferences{db: db, path: path}, nil
}

// Path returns the database file location.
func (p *Preferences) Path() string { return p.path }

// Namespace returns storage scoped to clientID.
func (p *Preferences) Namespace(clientID string) ports.PreferenceStorage {
	return &namespace{db: p.db, client: clientID}
}

func (p *Preferences) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }
func (p *Preferences) Close() error                   { return p.db.Close() }

type namespace struct {
	db     *sql.DB
	client string
}

func (n *namespace) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := n.db.QueryRowContext(ctx,
		`SELECT value FROM map_preferences WHERE client_id = ? AND pref_key = ?`,
		n.client, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select preference: %w", err)
	}
	return v, nil
}

func (n *namespace) Set(ctx context.Context, key, value string) error {
	_, err := n.db.ExecContext(ctx, `
		INSERT INTO map_preferences (client_id, pref_key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (client_id, pref_key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at`,
		n.client, key, value,
	)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}
