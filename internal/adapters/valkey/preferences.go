package valkey

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

const preferencePrefix = "evoteli:prefs:"

// Preferences implements ports.PreferenceBackend. Each client's preferences
// live in one hash, keyed by storage key.
type Preferences struct {
	client valkey.Client
}

// Preferences returns preference storage sharing the cache's connection.
func (c *Cache) Preferences() *Preferences {
	return &Preferences{client: c.client}
}

// PreferenceHash is the hash holding clientID's preferences.
func PreferenceHash(clientID string) string {
	return preferencePrefix + clientID
}

// Namespace returns storage scoped to clientID.
func (p *Preferences) Namespace(clientID string) ports.PreferenceStorage {
	return &preferenceNamespace{client: p.client, hash: PreferenceHash(clientID)}
}

func (p *Preferences) Ping(ctx context.Context) error {
	return p.client.Do(ctx, p.client.B().Ping().Build()).Error()
}

// Close releases the shared client.
func (p *Preferences) Close() error {
	p.client.Close()
	return nil
}

type preferenceNamespace struct {
	client valkey.Client
	hash   string
}

func (n *preferenceNamespace) Get(ctx context.Context, key string) (string, error) {
	v, err := n.client.Do(ctx, n.client.B().Hget().Key(n.hash).Field(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("hget %s: %w", n.hash, err)
	}
	return v, nil
}

func (n *preferenceNamespace) Set(ctx context.Context, key, value string) error {
	cmd := n.client.B().Hset().Key(n.hash).FieldValue().FieldValue(key, value).Build()
	if err := n.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("hset %s: %w", n.hash, err)
	}
	return nil
}
