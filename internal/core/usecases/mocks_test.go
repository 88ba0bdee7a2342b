package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/evoteli/internal/core/domain"
)

// --- Mock backend ---

type mockBackend struct {
	searchFn         func(ctx context.Context, f domain.PropertyFilters) (*domain.PropertySearchResponse, error)
	getPropertyFn    func(ctx context.Context, id string) (*domain.Property, error)
	createAudienceFn func(ctx context.Context, in domain.AudienceCreate) (*domain.Audience, error)
	syncAudienceFn   func(ctx context.Context, id string) (*domain.AudienceSync, error)
	listSearchesFn   func(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error)
	createSearchFn   func(ctx context.Context, in domain.SavedSearchCreate) (*domain.SavedSearch, error)
	testAlertFn      func(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error)
	createTerrFn     func(ctx context.Context, in domain.TerritoryCreate) (*domain.Territory, error)
	updateTerrFn     func(ctx context.Context, id string, in domain.TerritoryUpdate) (*domain.Territory, error)
	listAlertsFn     func(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error)
	updateEmailFn    func(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error)

	mu       sync.Mutex
	searches int
}

func (m *mockBackend) SearchProperties(ctx context.Context, f domain.PropertyFilters) (*domain.PropertySearchResponse, error) {
	m.mu.Lock()
	m.searches++
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return &domain.PropertySearchResponse{}, nil
}

func (m *mockBackend) searchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searches
}

func (m *mockBackend) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	if m.getPropertyFn != nil {
		return m.getPropertyFn(ctx, id)
	}
	return &domain.Property{ID: id}, nil
}

func (m *mockBackend) GetRoofIQ(ctx context.Context, id string) (*domain.RoofIQData, error) {
	return &domain.RoofIQData{Condition: "good"}, nil
}

func (m *mockBackend) GetSolarFit(ctx context.Context, id string) (*domain.SolarFitData, error) {
	return &domain.SolarFitData{Score: 80}, nil
}

func (m *mockBackend) GetDrivewayPro(ctx context.Context, id string) (*domain.DrivewayData, error) {
	return &domain.DrivewayData{Condition: "fair", SealingRecommended: true}, nil
}

func (m *mockBackend) GetPermitScope(ctx context.Context, id string) (*domain.PermitScopeData, error) {
	return &domain.PermitScopeData{TotalPermits: 3}, nil
}

func (m *mockBackend) ListAudiences(ctx context.Context) ([]domain.Audience, error) {
	return nil, nil
}

func (m *mockBackend) GetAudience(ctx context.Context, id string) (*domain.Audience, error) {
	return &domain.Audience{ID: id}, nil
}

func (m *mockBackend) CreateAudience(ctx context.Context, in domain.AudienceCreate) (*domain.Audience, error) {
	if m.createAudienceFn != nil {
		return m.createAudienceFn(ctx, in)
	}
	return &domain.Audience{ID: "a1", Name: in.Name, Filters: in.Filters}, nil
}

func (m *mockBackend) UpdateAudience(ctx context.Context, id string, in domain.AudienceUpdate) (*domain.Audience, error) {
	return &domain.Audience{ID: id}, nil
}

func (m *mockBackend) DeleteAudience(ctx context.Context, id string) error { return nil }

func (m *mockBackend) SyncAudience(ctx context.Context, id string) (*domain.AudienceSync, error) {
	if m.syncAudienceFn != nil {
		return m.syncAudienceFn(ctx, id)
	}
	return &domain.AudienceSync{AudienceID: id, Status: "pending"}, nil
}

func (m *mockBackend) ListSavedSearches(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error) {
	if m.listSearchesFn != nil {
		return m.listSearchesFn(ctx, p)
	}
	return &domain.SavedSearchList{}, nil
}

func (m *mockBackend) GetSavedSearch(ctx context.Context, id string, includeAlerts bool) (*domain.SavedSearch, error) {
	return &domain.SavedSearch{ID: id}, nil
}

func (m *mockBackend) CreateSavedSearch(ctx context.Context, in domain.SavedSearchCreate) (*domain.SavedSearch, error) {
	if m.createSearchFn != nil {
		return m.createSearchFn(ctx, in)
	}
	return &domain.SavedSearch{ID: "s1", Name: in.Name, AlertFrequency: in.AlertFrequency}, nil
}

func (m *mockBackend) UpdateSavedSearch(ctx context.Context, id string, in domain.SavedSearchUpdate) (*domain.SavedSearch, error) {
	return &domain.SavedSearch{ID: id}, nil
}

func (m *mockBackend) DeleteSavedSearch(ctx context.Context, id string) error { return nil }

func (m *mockBackend) SendTestAlert(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error) {
	if m.testAlertFn != nil {
		return m.testAlertFn(ctx, id, recipient)
	}
	return &domain.TestAlertResult{Success: true}, nil
}

func (m *mockBackend) ListAlerts(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error) {
	if m.listAlertsFn != nil {
		return m.listAlertsFn(ctx, id, p)
	}
	return nil, nil
}

func (m *mockBackend) GetEmailPreferences(ctx context.Context) (*domain.EmailPreferences, error) {
	return &domain.EmailPreferences{ID: "e1", Email: "owner@example.com", AllAlertsEnabled: true}, nil
}

func (m *mockBackend) UpdateEmailPreferences(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error) {
	if m.updateEmailFn != nil {
		return m.updateEmailFn(ctx, in)
	}
	return &domain.EmailPreferences{ID: "e1"}, nil
}

func (m *mockBackend) ListTerritories(ctx context.Context, p domain.ListParams) (*domain.TerritoryList, error) {
	return &domain.TerritoryList{}, nil
}

func (m *mockBackend) CreateTerritory(ctx context.Context, in domain.TerritoryCreate) (*domain.Territory, error) {
	if m.createTerrFn != nil {
		return m.createTerrFn(ctx, in)
	}
	return &domain.Territory{ID: "t1", Name: in.Name, Color: in.Color, TerritoryType: in.TerritoryType, Geometry: in.Geometry}, nil
}

func (m *mockBackend) GetTerritory(ctx context.Context, id string) (*domain.Territory, error) {
	return &domain.Territory{ID: id}, nil
}

func (m *mockBackend) UpdateTerritory(ctx context.Context, id string, in domain.TerritoryUpdate) (*domain.Territory, error) {
	if m.updateTerrFn != nil {
		return m.updateTerrFn(ctx, id, in)
	}
	return &domain.Territory{ID: id}, nil
}

func (m *mockBackend) DeleteTerritory(ctx context.Context, id string) error { return nil }

func (m *mockBackend) CountTerritoryProperties(ctx context.Context, id string) (*domain.TerritoryPropertyCount, error) {
	return &domain.TerritoryPropertyCount{TerritoryID: id, PropertyCount: 42}, nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu     sync.Mutex
	events map[string][]uint64
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{events: make(map[string][]uint64)}
}

func (m *mockPublisher) PublishMapState(ctx context.Context, clientID string, st domain.MapState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[clientID] = append(m.events[clientID], st.Version)
	return nil
}

func (m *mockPublisher) versions(clientID string) []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint64(nil), m.events[clientID]...)
}

func ptr[T any](v T) *T { return &v }
