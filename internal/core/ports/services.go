package ports

import (
	"context"

	"github.com/samirrijal/evoteli/internal/core/domain"
)

// EventPublisher publishes map-state changes to a message broker.
type EventPublisher interface {
	PublishMapState(ctx context.Context, clientID string, state domain.MapState) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
