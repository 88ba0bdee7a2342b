package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/evoteli/internal/adapters/memory"
	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/usecases"
)

func TestSavedSearchService_CreateValidation(t *testing.T) {
	base := func() domain.SavedSearchCreate {
		return domain.SavedSearchCreate{Name: "Roofs", AlertEmail: "ops@example.com"}
	}
	tests := []struct {
		name   string
		modify func(*domain.SavedSearchCreate)
		ok     bool
	}{
		{"valid", func(*domain.SavedSearchCreate) {}, true},
		{"missing email", func(in *domain.SavedSearchCreate) { in.AlertEmail = "" }, false},
		{"bad email", func(in *domain.SavedSearchCreate) { in.AlertEmail = "not-an-email" }, false},
		{"display name email", func(in *domain.SavedSearchCreate) { in.AlertEmail = "Ops <ops@example.com>" }, false},
		{"unknown frequency", func(in *domain.SavedSearchCreate) { in.AlertFrequency = "hourly" }, false},
		{"weekly without day", func(in *domain.SavedSearchCreate) { in.AlertFrequency = domain.AlertWeekly }, false},
		{"weekly with day", func(in *domain.SavedSearchCreate) {
			in.AlertFrequency = domain.AlertWeekly
			in.AlertDay = ptr(1)
		}, true},
		{"monthly day zero", func(in *domain.SavedSearchCreate) {
			in.AlertFrequency = domain.AlertMonthly
			in.AlertDay = ptr(0)
		}, false},
		{"bad hour", func(in *domain.SavedSearchCreate) { in.AlertTime = ptr(24) }, false},
		{"instant", func(in *domain.SavedSearchCreate) { in.AlertFrequency = domain.AlertInstant }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.modify(&in)
			svc := usecases.NewSavedSearchService(&mockBackend{})
			_, err := svc.Create(context.Background(), in)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSavedSearchService_DefaultFrequency(t *testing.T) {
	svc := usecases.NewSavedSearchService(&mockBackend{})
	s, err := svc.Create(context.Background(), domain.SavedSearchCreate{Name: "Roofs", AlertEmail: "ops@example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AlertFrequency != domain.AlertDaily {
		t.Errorf("expected daily, got %s", s.AlertFrequency)
	}
}

func TestSavedSearchService_ListDefaults(t *testing.T) {
	var got domain.ListParams
	backend := &mockBackend{
		listSearchesFn: func(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error) {
			got = p
			return &domain.SavedSearchList{}, nil
		},
	}
	svc := usecases.NewSavedSearchService(backend)

	if _, err := svc.List(context.Background(), domain.ListParams{ActiveOnly: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Limit != 100 || !got.ActiveOnly {
		t.Errorf("unexpected params %+v", got)
	}
	if _, err := svc.List(context.Background(), domain.ListParams{Limit: 501}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := svc.List(context.Background(), domain.ListParams{Skip: -1}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSavedSearchService_CreateFromView(t *testing.T) {
	var got domain.SavedSearchCreate
	backend := &mockBackend{
		createSearchFn: func(ctx context.Context, in domain.SavedSearchCreate) (*domain.SavedSearch, error) {
			got = in
			return &domain.SavedSearch{ID: "s1"}, nil
		},
	}
	svc := usecases.NewSavedSearchService(backend)
	sessions, err := usecases.NewSessionService(memory.NewPreferences(), nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	sess := sessions.Get(context.Background(), "s1")
	sess.Store.SetFilters(context.Background(), domain.PropertyFilters{Zip: "30303", Offset: ptr(40)})

	_, err = svc.CreateFromView(context.Background(), sess, domain.SavedSearchCreate{
		Name:       "Downtown",
		AlertEmail: "ops@example.com",
		Filters:    domain.PropertyFilters{City: "ignored"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Filters.Zip != "30303" || got.Filters.City != "" || got.Filters.Offset != nil {
		t.Errorf("unexpected filters %+v", got.Filters)
	}
}

func TestSavedSearchService_TestAlert(t *testing.T) {
	var gotRecipient string
	backend := &mockBackend{
		testAlertFn: func(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error) {
			gotRecipient = recipient
			return &domain.TestAlertResult{Success: true, PropertyCount: 3}, nil
		},
	}
	svc := usecases.NewSavedSearchService(backend)

	res, err := svc.TestAlert(context.Background(), "s1", " me@example.com ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || gotRecipient != "me@example.com" {
		t.Errorf("unexpected result %+v recipient %q", res, gotRecipient)
	}
	if _, err := svc.TestAlert(context.Background(), "s1", "bogus"); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := svc.TestAlert(context.Background(), "s1", ""); err != nil {
		t.Errorf("empty recipient should use the search address: %v", err)
	}
}

func TestSavedSearchService_Alerts(t *testing.T) {
	var got domain.ListParams
	backend := &mockBackend{
		listAlertsFn: func(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error) {
			got = p
			return nil, nil
		},
	}
	svc := usecases.NewSavedSearchService(backend)
	ctx := context.Background()

	alerts, err := svc.Alerts(ctx, "s1", domain.ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alerts == nil || len(alerts) != 0 {
		t.Errorf("expected empty non-nil history, got %#v", alerts)
	}
	if got.Limit != 20 {
		t.Errorf("default limit = %d, want 20", got.Limit)
	}

	tests := []struct {
		name string
		id   string
		p    domain.ListParams
	}{
		{"missing id", "", domain.ListParams{}},
		{"negative skip", "s1", domain.ListParams{Skip: -1}},
		{"limit too large", "s1", domain.ListParams{Limit: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Alerts(ctx, tt.id, tt.p); !errors.Is(err, domain.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSavedSearchService_UpdateEmailPreferences(t *testing.T) {
	var got domain.EmailPreferencesUpdate
	backend := &mockBackend{
		updateEmailFn: func(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error) {
			got = in
			return &domain.EmailPreferences{ID: "e1", Email: *in.Email}, nil
		},
	}
	svc := usecases.NewSavedSearchService(backend)
	ctx := context.Background()

	p, err := svc.UpdateEmailPreferences(ctx, domain.EmailPreferencesUpdate{
		Email:           ptr(" digest@example.com "),
		DailyDigestTime: ptr(7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Email != "digest@example.com" || *got.DailyDigestTime != 7 {
		t.Errorf("unexpected update %+v -> %+v", got, p)
	}

	bad := []domain.EmailPreferencesUpdate{
		{Email: ptr("not-an-email")},
		{DailyDigestTime: ptr(24)},
		{WeeklyDigestTime: ptr(-1)},
		{WeeklyDigestDay: ptr(7)},
	}
	for i, in := range bad {
		if _, err := svc.UpdateEmailPreferences(ctx, in); !errors.Is(err, domain.ErrInvalid) {
			t.Errorf("case %d: expected ErrInvalid, got %v", i, err)
		}
	}

	prefs, err := svc.EmailPreferences(ctx)
	if err != nil || prefs.Email != "owner@example.com" {
		t.Errorf("EmailPreferences = %+v, %v", prefs, err)
	}
}
