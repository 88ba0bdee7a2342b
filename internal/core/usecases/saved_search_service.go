package usecases

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500

	defaultAlertLimit = 20
	maxAlertLimit     = 100
)

// SavedSearchService manages saved searches and their email alerts.
type SavedSearchService struct {
	backend ports.SavedSearchBackend
}

// NewSavedSearchService creates a new SavedSearchService.
func NewSavedSearchService(backend ports.SavedSearchBackend) *SavedSearchService {
	return &SavedSearchService{backend: backend}
}

// List returns a page of saved searches. A zero limit selects the default page size.
func (s *SavedSearchService) List(ctx context.Context, p domain.ListParams) (*domain.SavedSearchList, error) {
	p, err := normalizeList(p)
	if err != nil {
		return nil, err
	}
	return s.backend.ListSavedSearches(ctx, p)
}

// Get returns one saved search, with its alert history when includeAlerts is set.
func (s *SavedSearchService) Get(ctx context.Context, id string, includeAlerts bool) (*domain.SavedSearch, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: saved search id is required", domain.ErrInvalid)
	}
	return s.backend.GetSavedSearch(ctx, id, includeAlerts)
}

// Create validates and creates a saved search. Frequency defaults to daily.
func (s *SavedSearchService) Create(ctx context.Context, in domain.SavedSearchCreate) (*domain.SavedSearch, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	email, err := validateEmail(in.AlertEmail)
	if err != nil {
		return nil, err
	}
	in.AlertEmail = email
	if in.AlertFrequency == "" {
		in.AlertFrequency = domain.AlertDaily
	}
	if err := validateSchedule(in.AlertFrequency, in.AlertTime, in.AlertDay); err != nil {
		return nil, err
	}
	if err := ValidateFilters(in.Filters); err != nil {
		return nil, err
	}
	return s.backend.CreateSavedSearch(ctx, in)
}

// CreateFromView saves the session's current filters and drawn territory.
func (s *SavedSearchService) CreateFromView(ctx context.Context, sess *Session, in domain.SavedSearchCreate) (*domain.SavedSearch, error) {
	in.Filters = SnapshotFilters(sess.Store.State())
	return s.Create(ctx, in)
}

// Update validates and applies a partial update.
func (s *SavedSearchService) Update(ctx context.Context, id string, in domain.SavedSearchUpdate) (*domain.SavedSearch, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: saved search id is required", domain.ErrInvalid)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		in.Name = &name
	}
	if in.Description != nil {
		if err := validateDescription(*in.Description); err != nil {
			return nil, err
		}
	}
	if in.AlertEmail != nil {
		email, err := validateEmail(*in.AlertEmail)
		if err != nil {
			return nil, err
		}
		in.AlertEmail = &email
	}
	if in.AlertFrequency != nil && !in.AlertFrequency.Valid() {
		return nil, fmt.Errorf("%w: unknown alert frequency %q", domain.ErrInvalid, *in.AlertFrequency)
	}
	if in.Filters != nil {
		if err := ValidateFilters(*in.Filters); err != nil {
			return nil, err
		}
	}
	return s.backend.UpdateSavedSearch(ctx, id, in)
}

// Delete removes a saved search.
func (s *SavedSearchService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: saved search id is required", domain.ErrInvalid)
	}
	return s.backend.DeleteSavedSearch(ctx, id)
}

// TestAlert sends a sample alert for the search. An empty recipient uses the
// search's own alert address.
func (s *SavedSearchService) TestAlert(ctx context.Context, id, recipient string) (*domain.TestAlertResult, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: saved search id is required", domain.ErrInvalid)
	}
	if recipient != "" {
		email, err := validateEmail(recipient)
		if err != nil {
			return nil, err
		}
		recipient = email
	}
	return s.backend.SendTestAlert(ctx, id, recipient)
}

// Alerts returns a page of the alerts sent for a saved search, newest first.
// A zero limit selects 20, and at most 100 are returned.
func (s *SavedSearchService) Alerts(ctx context.Context, id string, p domain.ListParams) ([]domain.SearchAlert, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: saved search id is required", domain.ErrInvalid)
	}
	if p.Skip < 0 {
		return nil, fmt.Errorf("%w: skip must not be negative", domain.ErrInvalid)
	}
	if p.Limit == 0 {
		p.Limit = defaultAlertLimit
	}
	if p.Limit < 1 || p.Limit > maxAlertLimit {
		return nil, fmt.Errorf("%w: limit must be 1-%d", domain.ErrInvalid, maxAlertLimit)
	}
	alerts, err := s.backend.ListAlerts(ctx, id, p)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []domain.SearchAlert{}
	}
	return alerts, nil
}

// EmailPreferences returns the account's email settings.
func (s *SavedSearchService) EmailPreferences(ctx context.Context) (*domain.EmailPreferences, error) {
	return s.backend.GetEmailPreferences(ctx)
}

// UpdateEmailPreferences validates and applies a partial update to the
// account's email settings.
func (s *SavedSearchService) UpdateEmailPreferences(ctx context.Context, in domain.EmailPreferencesUpdate) (*domain.EmailPreferences, error) {
	if in.Email != nil {
		email, err := validateEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		in.Email = &email
	}
	if h := in.DailyDigestTime; h != nil && (*h < 0 || *h > 23) {
		return nil, fmt.Errorf("%w: daily_digest_time must be an hour 0-23", domain.ErrInvalid)
	}
	if h := in.WeeklyDigestTime; h != nil && (*h < 0 || *h > 23) {
		return nil, fmt.Errorf("%w: weekly_digest_time must be an hour 0-23", domain.ErrInvalid)
	}
	if d := in.WeeklyDigestDay; d != nil && (*d < 0 || *d > 6) {
		return nil, fmt.Errorf("%w: weekly_digest_day must be 0-6", domain.ErrInvalid)
	}
	return s.backend.UpdateEmailPreferences(ctx, in)
}

func normalizeList(p domain.ListParams) (domain.ListParams, error) {
	if p.Skip < 0 {
		return p, fmt.Errorf("%w: skip must not be negative", domain.ErrInvalid)
	}
	if p.Limit == 0 {
		p.Limit = defaultListLimit
	}
	if p.Limit < 1 || p.Limit > maxListLimit {
		return p, fmt.Errorf("%w: limit must be 1-%d", domain.ErrInvalid, maxListLimit)
	}
	return p, nil
}

func validateEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: alert email is required", domain.ErrInvalid)
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalid, s)
	}
	return s, nil
}

func validateSchedule(f domain.AlertFrequency, hour, day *int) error {
	if !f.Valid() {
		return fmt.Errorf("%w: unknown alert frequency %q", domain.ErrInvalid, f)
	}
	if hour != nil && (*hour < 0 || *hour > 23) {
		return fmt.Errorf("%w: alert_time must be an hour 0-23", domain.ErrInvalid)
	}
	switch f {
	case domain.AlertWeekly:
		if day == nil || *day < 0 || *day > 6 {
			return fmt.Errorf("%w: weekly alerts need alert_day 0-6", domain.ErrInvalid)
		}
	case domain.AlertMonthly:
		if day == nil || *day < 1 || *day > 31 {
			return fmt.Errorf("%w: monthly alerts need alert_day 1-31", domain.ErrInvalid)
		}
	}
	return nil
}
