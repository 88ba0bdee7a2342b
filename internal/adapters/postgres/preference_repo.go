package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

// PreferenceRepo implements ports.PreferenceBackend with pgx. Values are
// stored as JSONB, so a payload that is not valid JSON is rejected on write.
type PreferenceRepo struct {
	db *DB
}

// NewPreferenceRepo creates a new PreferenceRepo.
func NewPreferenceRepo(db *DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

// Namespace returns storage scoped to clientID.
func (r *PreferenceRepo) Namespace(clientID string) ports.PreferenceStorage {
	return &preferenceNamespace{db: r.db, client: clientID}
}

func (r *PreferenceRepo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

// Close closes the underlying pool.
func (r *PreferenceRepo) Close() error {
	r.db.Close()
	return nil
}

type preferenceNamespace struct {
	db     *DB
	client string
}

func (n *preferenceNamespace) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := n.db.Pool.QueryRow(ctx, `
		SELECT value::text FROM map_preferences
		WHERE client_id = $1 AND pref_key = $2
	`, n.client, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select preference: %w", err)
	}
	return v, nil
}

func (n *preferenceNamespace) Set(ctx context.Context, key, value string) error {
	_, err := n.db.Pool.Exec(ctx, `
		INSERT INTO map_preferences (client_id, pref_key, value, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (client_id, pref_key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, n.client, key, value)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}
