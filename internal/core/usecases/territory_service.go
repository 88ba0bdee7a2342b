package usecases

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
	"github.com/samirrijal/evoteli/internal/pkg/geospatial"
)

// DefaultTerritoryColor is used when a territory is saved without a color.
const DefaultTerritoryColor = "#3B82F6"

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// TerritoryService manages saved territories.
type TerritoryService struct {
	backend ports.TerritoryBackend
}

// NewTerritoryService creates a new TerritoryService.
func NewTerritoryService(backend ports.TerritoryBackend) *TerritoryService {
	return &TerritoryService{backend: backend}
}

// List returns one page of saved territories.
func (s *TerritoryService) List(ctx context.Context, p domain.ListParams) (*domain.TerritoryList, error) {
	p, err := normalizeList(p)
	if err != nil {
		return nil, err
	}
	return s.backend.ListTerritories(ctx, p)
}

// Get returns one saved territory.
func (s *TerritoryService) Get(ctx context.Context, id string) (*domain.Territory, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: territory id is required", domain.ErrInvalid)
	}
	return s.backend.GetTerritory(ctx, id)
}

// Update validates and applies a partial update. A new geometry must be a
// closed polygon and a radius must be positive.
func (s *TerritoryService) Update(ctx context.Context, id string, in domain.TerritoryUpdate) (*domain.Territory, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: territory id is required", domain.ErrInvalid)
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
	if in.Color != nil && !hexColor.MatchString(*in.Color) {
		return nil, fmt.Errorf("%w: color must be #RRGGBB", domain.ErrInvalid)
	}
	if in.Geometry != nil && (in.Geometry.Type != "Polygon" || !in.Geometry.Closed()) {
		return nil, fmt.Errorf("%w: geometry must be a closed polygon", domain.ErrInvalid)
	}
	if in.RadiusMeters != nil && *in.RadiusMeters <= 0 {
		return nil, fmt.Errorf("%w: radius_meters must be positive", domain.ErrInvalid)
	}
	if in.CenterLat != nil && (*in.CenterLat < -90 || *in.CenterLat > 90) {
		return nil, fmt.Errorf("%w: center_lat must be between -90 and 90", domain.ErrInvalid)
	}
	if in.CenterLng != nil && (*in.CenterLng < -180 || *in.CenterLng > 180) {
		return nil, fmt.Errorf("%w: center_lng must be between -180 and 180", domain.ErrInvalid)
	}
	return s.backend.UpdateTerritory(ctx, id, in)
}

// PropertyCount returns how many properties fall inside a territory.
func (s *TerritoryService) PropertyCount(ctx context.Context, id string) (*domain.TerritoryPropertyCount, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: territory id is required", domain.ErrInvalid)
	}
	return s.backend.CountTerritoryProperties(ctx, id)
}

// Delete removes a saved territory.
func (s *TerritoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: territory id is required", domain.ErrInvalid)
	}
	return s.backend.DeleteTerritory(ctx, id)
}

// SaveDrawn stores the session's drawn territory and completes the drawing.
// Radius and circle drawings also carry their center and radius. The drawing is
// cleared only when the backend accepted it and only if it is still the one
// that was saved; a shape drawn while the backend call was in flight survives.
func (s *TerritoryService) SaveDrawn(ctx context.Context, sess *Session, in domain.TerritoryCreate) (*domain.Territory, error) {
	st := sess.Store.State()
	if st.DrawnTerritory == nil {
		return nil, fmt.Errorf("%w: no territory drawn", domain.ErrInvalid)
	}
	if !st.DrawnTerritory.Closed() {
		return nil, fmt.Errorf("%w: drawn territory is not a closed polygon", domain.ErrInvalid)
	}

	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if in.Color == "" {
		in.Color = DefaultTerritoryColor
	}
	if !hexColor.MatchString(in.Color) {
		return nil, fmt.Errorf("%w: color must be #RRGGBB", domain.ErrInvalid)
	}

	in.Geometry = st.DrawnTerritory
	in.TerritoryType = st.DrawMode
	if in.TerritoryType == domain.DrawNone {
		in.TerritoryType = domain.DrawPolygon
	}
	in.CenterLat, in.CenterLng, in.RadiusMeters = nil, nil, nil
	if in.TerritoryType == domain.DrawRadius || in.TerritoryType == domain.DrawCircle {
		ring := in.Geometry.Coordinates[0]
		lat, lng := geospatial.Centroid(ring)
		radius := geospatial.MaxDistance(lat, lng, ring)
		in.CenterLat, in.CenterLng, in.RadiusMeters = &lat, &lng, &radius
	}

	t, err := s.backend.CreateTerritory(ctx, in)
	if err != nil {
		return nil, err
	}
	saved, mode := st.DrawnTerritory, st.DrawMode
	sess.Store.ClearDrawnTerritoryIf(ctx, func(cur domain.MapState) bool {
		return cur.DrawMode == mode && cur.DrawnTerritory.Equal(saved)
	})
	return t, nil
}
