package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 1000
)

// AudienceService manages audiences built from property filters.
type AudienceService struct {
	backend ports.AudienceBackend
	cache   ports.CacheService
}

// NewAudienceService creates a new AudienceService. cache may be nil.
func NewAudienceService(backend ports.AudienceBackend, cache ports.CacheService) *AudienceService {
	return &AudienceService{backend: backend, cache: cache}
}

// List returns every audience.
func (s *AudienceService) List(ctx context.Context) ([]domain.Audience, error) {
	return s.backend.ListAudiences(ctx)
}

// Get returns one audience.
func (s *AudienceService) Get(ctx context.Context, id string) (*domain.Audience, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: audience id is required", domain.ErrInvalid)
	}
	return s.backend.GetAudience(ctx, id)
}

// Create validates and creates an audience.
func (s *AudienceService) Create(ctx context.Context, in domain.AudienceCreate) (*domain.Audience, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if err := ValidateFilters(in.Filters); err != nil {
		return nil, err
	}
	return s.backend.CreateAudience(ctx, in)
}

// CreateFromView creates an audience from the session's current filters and
// drawn territory. The store is left untouched.
func (s *AudienceService) CreateFromView(ctx context.Context, sess *Session, name, description string) (*domain.Audience, error) {
	return s.Create(ctx, domain.AudienceCreate{
		Name:        name,
		Description: description,
		Filters:     SnapshotFilters(sess.Store.State()),
	})
}

// Update validates and applies a partial update.
func (s *AudienceService) Update(ctx context.Context, id string, in domain.AudienceUpdate) (*domain.Audience, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: audience id is required", domain.ErrInvalid)
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
	if in.Filters != nil {
		if err := ValidateFilters(*in.Filters); err != nil {
			return nil, err
		}
	}
	return s.backend.UpdateAudience(ctx, id, in)
}

// Delete removes an audience.
func (s *AudienceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: audience id is required", domain.ErrInvalid)
	}
	return s.backend.DeleteAudience(ctx, id)
}

// Sync asks the backend to push the audience to the ads platform.
func (s *AudienceService) Sync(ctx context.Context, id string) (*domain.AudienceSync, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: audience id is required", domain.ErrInvalid)
	}
	return s.backend.SyncAudience(ctx, id)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalid)
	}
	if len([]rune(name)) > maxNameLen {
		return fmt.Errorf("%w: name must be at most %d characters", domain.ErrInvalid, maxNameLen)
	}
	return nil
}

func validateDescription(d string) error {
	if len([]rune(d)) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrInvalid, maxDescriptionLen)
	}
	return nil
}
