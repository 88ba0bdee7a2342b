package ports

import (
	"context"

	"github.com/samirrijal/evoteli/internal/core/domain"
)

// PropertyBackend runs property queries against the analysis backend.
type PropertyBackend interface {
	SearchProperties(ctx context.Context, filters domain.PropertyFilters) (*domain.PropertySearchResponse, error)
	GetProperty(ctx context.Context, id string) (*domain.Property, error)
	GetRoofIQ(ctx context.Context, propertyID string) (*domain.RoofIQData, error)
	GetSolarFit(ctx context.Context, propertyID string) (*domain.SolarFitData, error)
	GetDrivewayPro(ctx context.Context, propertyID string) (*domain.DrivewayData, error)
	GetPermitScope(ctx context.Context, propertyID string) (*domain.PermitScopeData, error)
}

// AudienceBackend manages audiences and triggers ads-platform syncs.
type AudienceBackend interface {
	ListAudiences(ctx context.Context) ([]domain.Audience, error)
	GetAudience(ctx context.Context, id string) (*domain.Audience, error)
	CreateAudience(ctx context.Context, in domain.AudienceCreate) (*domain.Audience, error)
	UpdateAudience(ctx context.Context, id string, in domain.AudienceUpdate) (*domain.Audience, error)
	DeleteAudience(ctx context.Context, id string) error
	SyncAudience(ctx context.Context, id string) (*domain.AudienceSync, error)
}

// SavedSearchBackend manages saved searches and their alerts.
type SavedSearchBackend interface {
	ListSavedSearches(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error)
	GetSavedSearch(ctx context.Context, id string, includeAlerts bool) (*domain.SavedSearch, error)
	CreateSavedSearch(ctx context.Context, in domain.SavedSearchCreate) (*domain.SavedSearch, error)
	UpdateSavedSearch(ctx context.Context, id string, in domain.SavedSearchUpdate) (*domain.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id string) error
	SendTestAlert(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error)
	ListAlerts(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error)
	GetEmailPreferences(ctx context.Context) (*domain.EmailPreferences, error)
	UpdateEmailPreferences(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error)
}

// TerritoryBackend manages saved territories.
type TerritoryBackend interface {
	ListTerritories(ctx context.Context, p domain.ListParams) (*domain.TerritoryList, error)
	GetTerritory(ctx context.Context, id string) (*domain.Territory, error)
	CreateTerritory(ctx context.Context, in domain.TerritoryCreate) (*domain.Territory, error)
	UpdateTerritory(ctx context.Context, id string, in domain.TerritoryUpdate) (*domain.Territory, error)
	DeleteTerritory(ctx context.Context, id string) error
	CountTerritoryProperties(ctx context.Context, id string) (*domain.TerritoryPropertyCount, error)
}
