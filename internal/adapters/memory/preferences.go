// Package memory keeps preferences in process. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

// Preferences implements ports.PreferenceBackend.
type Preferences struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

// NewPreferences creates an empty backend.
func NewPreferences() *Preferences {
	return &Preferences{values: make(map[string]map[string]string)}
}

// Namespace returns storage scoped to clientID.
func (p *Preferences) Namespace(clientID string) ports.PreferenceStorage {
	return &namespace{p: p, client: clientID}
}

func (p *Preferences) Ping(context.Context) error { return nil }
func (p *Preferences) Close() error               { return nil }

type namespace struct {
	p      *Preferences
	client string
}

func (n *namespace) Get(ctx context.Context, key string) (string, error) {
	n.p.mu.RLock()
	defer n.p.mu.RUnlock()
	v, ok := n.p.values[n.client][key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return v, nil
}

func (n *namespace) Set(ctx context.Context, key, value string) error {
	n.p.mu.Lock()
	defer n.p.mu.Unlock()
	m, ok := n.p.values[n.client]
	if !ok {
		m = make(map[string]string)
		n.p.values[n.client] = m
	}
	m[key] = value
	return nil
}
