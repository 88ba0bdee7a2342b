package ports

import (
	"context"
)

// PreferenceStorage is durable client-side key-value storage with string values.
// Get returns domain.ErrNotFound when the key has never been written.
type PreferenceStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// PreferenceBackend opens storage scoped to one client.
type PreferenceBackend interface {
	Namespace(clientID string) PreferenceStorage
	Ping(ctx context.Context) error
	Close() error
}
