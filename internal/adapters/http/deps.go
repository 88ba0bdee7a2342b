package http

import (
	"context"

	"github.com/samirrijal/evoteli/internal/core/usecases"
)

// Pinger is a dependency the readiness check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Connection reports broker connectivity.
type Connection interface {
	IsConnected() bool
}

// Dependencies holds all services needed by HTTP handlers.
// Events, Cache and Backend are optional and only used for readiness.
type Dependencies struct {
	Sessions      *usecases.SessionService
	Properties    *usecases.PropertyService
	Audiences     *usecases.AudienceService
	SavedSearches *usecases.SavedSearchService
	Territories   *usecases.TerritoryService
	Events        Connection
	Cache         Pinger
	Backend       Pinger
	Version       string
}
