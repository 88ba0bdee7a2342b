package http_test

import (
	"context"
	"errors"

	"github.com/samirrijal/evoteli/internal/adapters/memory"
	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

// ---- Mock backend ----

type mockBackend struct {
	searchFn       func(ctx context.Context, f domain.PropertyFilters) (*domain.PropertySearchResponse, error)
	getPropertyFn  func(ctx context.Context, id string) (*domain.Property, error)
	listSearchesFn func(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error)
	createTerrFn   func(ctx context.Context, in domain.TerritoryCreate) (*domain.Territory, error)
	getTerrFn      func(ctx context.Context, id string) (*domain.Territory, error)
}

func (m *mockBackend) SearchProperties(ctx context.Context, f domain.PropertyFilters) (*domain.PropertySearchResponse, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, f)
	}
	return &domain.PropertySearchResponse{}, nil
}
func (m *mockBackend) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	if m.getPropertyFn != nil {
		return m.getPropertyFn(ctx, id)
	}
	return &domain.Property{ID: id}, nil
}
func (m *mockBackend) GetRoofIQ(ctx context.Context, id string) (*domain.RoofIQData, error) {
	return &domain.RoofIQData{Condition: "fair"}, nil
}
func (m *mockBackend) GetSolarFit(ctx context.Context, id string) (*domain.SolarFitData, error) {
	return &domain.SolarFitData{Score: 72}, nil
}
func (m *mockBackend) GetDrivewayPro(ctx context.Context, id string) (*domain.DrivewayData, error) {
	return &domain.DrivewayData{Condition: "poor", SealingRecommended: true}, nil
}
func (m *mockBackend) GetPermitScope(ctx context.Context, id string) (*domain.PermitScopeData, error) {
	return &domain.PermitScopeData{TotalPermits: 4, ConstructionActivityScore: 61}, nil
}
func (m *mockBackend) ListAudiences(ctx context.Context) ([]domain.Audience, error) { return nil, nil }
func (m *mockBackend) GetAudience(ctx context.Context, id string) (*domain.Audience, error) {
	return &domain.Audience{ID: id}, nil
}
func (m *mockBackend) CreateAudience(ctx context.Context, in domain.AudienceCreate) (*domain.Audience, error) {
	return &domain.Audience{ID: "a1", Name: in.Name, Filters: in.Filters}, nil
}
func (m *mockBackend) UpdateAudience(ctx context.Context, id string, in domain.AudienceUpdate) (*domain.Audience, error) {
	return &domain.Audience{ID: id}, nil
}
func (m *mockBackend) DeleteAudience(ctx context.Context, id string) error { return nil }
func (m *mockBackend) SyncAudience(ctx context.Context, id string) (*domain.AudienceSync, error) {
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
	return &domain.SavedSearch{ID: "s1", Name: in.Name, AlertFrequency: in.AlertFrequency}, nil
}
func (m *mockBackend) UpdateSavedSearch(ctx context.Context, id string, in domain.SavedSearchUpdate) (*domain.SavedSearch, error) {
	return &domain.SavedSearch{ID: id}, nil
}
func (m *mockBackend) DeleteSavedSearch(ctx context.Context, id string) error { return nil }
func (m *mockBackend) SendTestAlert(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error) {
	return &domain.TestAlertResult{Success: true}, nil
}
func (m *mockBackend) ListAlerts(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error) {
	return []domain.SearchAlert{{ID: "al1", PropertyCount: 5, EmailSent: true}}, nil
}
func (m *mockBackend) GetEmailPreferences(ctx context.Context) (*domain.EmailPreferences, error) {
	return &domain.EmailPreferences{ID: "e1", Email: "owner@example.com", DailyDigestTime: 9}, nil
}
func (m *mockBackend) UpdateEmailPreferences(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error) {
	out := &domain.EmailPreferences{ID: "e1", Email: "owner@example.com", DailyDigestTime: 9}
	if in.DailyDigestTime != nil {
		out.DailyDigestTime = *in.DailyDigestTime
	}
	return out, nil
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
	if m.getTerrFn != nil {
		return m.getTerrFn(ctx, id)
	}
	return &domain.Territory{ID: id, Name: "Midtown"}, nil
}
func (m *mockBackend) UpdateTerritory(ctx context.Context, id string, in domain.TerritoryUpdate) (*domain.Territory, error) {
	t := &domain.Territory{ID: id, Name: "Midtown"}
	if in.Name != nil {
		t.Name = *in.Name
	}
	return t, nil
}
func (m *mockBackend) DeleteTerritory(ctx context.Context, id string) error { return nil }
func (m *mockBackend) CountTerritoryProperties(ctx context.Context, id string) (*domain.TerritoryPropertyCount, error) {
	return &domain.TerritoryPropertyCount{TerritoryID: id, PropertyCount: 17}, nil
}

// ---- Mock preference backend ----

// brokenPrefs wraps the in-memory backend and fails Ping.
type brokenPrefs struct {
	*memory.Preferences
}

func (b brokenPrefs) Ping(context.Context) error { return errors.New("disk full") }

var _ ports.PreferenceBackend = brokenPrefs{}
