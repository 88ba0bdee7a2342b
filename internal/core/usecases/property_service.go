package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/ports"
	"github.com/samirrijal/evoteli/internal/core/query"
	"github.com/samirrijal/evoteli/internal/pkg/geospatial"
)

// Cache TTLs in seconds.
const (
	ttlSearch   = 300
	ttlProperty = 900
	ttlAnalysis = 1800
)

const (
	maxSearchLimit = 500
	maxRadius      = 50000
)

// PropertyService runs property queries with a read-through cache.
type PropertyService struct {
	backend ports.PropertyBackend
	cache   ports.CacheService
}

// NewPropertyService creates a new PropertyService. cache may be nil.
func NewPropertyService(backend ports.PropertyBackend, cache ports.CacheService) *PropertyService {
	return &PropertyService{backend: backend, cache: cache}
}

// Search runs an explicit filter query.
func (s *PropertyService) Search(ctx context.Context, f domain.PropertyFilters) (*domain.PropertySearchResponse, error) {
	if err := ValidateFilters(f); err != nil {
		return nil, err
	}
	fp, err := query.Fingerprint(f)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, "properties:search:"+fp, ttlSearch, func() (*domain.PropertySearchResponse, error) {
		return s.backend.SearchProperties(ctx, f)
	})
}

// SearchInView queries for the session's current view. When the view changes
// while the request is in flight the result is discarded with query.ErrStale.
func (s *PropertyService) SearchInView(ctx context.Context, sess *Session) (query.Result[*domain.PropertySearchResponse], error) {
	params := SearchParams(sess.Store.State())
	return sess.Searches.Do(ctx, params, func(ctx context.Context) (*domain.PropertySearchResponse, error) {
		return s.Search(ctx, params)
	})
}

// SearchNear queries a radius around a point, combined with extra filters.
func (s *PropertyService) SearchNear(ctx context.Context, lat, lon, radiusMeters float64, f domain.PropertyFilters) (*domain.PropertySearchResponse, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", domain.ErrInvalid)
	}
	if radiusMeters <= 0 || radiusMeters > maxRadius {
		return nil, fmt.Errorf("%w: radius must be in (0, %d] meters", domain.ErrInvalid, maxRadius)
	}
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusMeters)
	b := domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}.BBox()
	f = f.Clone()
	f.Bounds = &b
	f.Territory = nil
	return s.Search(ctx, f)
}

// Get returns one property.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrInvalid)
	}
	return cached(ctx, s.cache, "property:"+id, ttlProperty, func() (*domain.Property, error) {
		return s.backend.GetProperty(ctx, id)
	})
}

// RoofIQ returns the roof analysis for a property.
func (s *PropertyService) RoofIQ(ctx context.Context, id string) (*domain.RoofIQData, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrInvalid)
	}
	return cached(ctx, s.cache, "roofiq:"+id, ttlAnalysis, func() (*domain.RoofIQData, error) {
		return s.backend.GetRoofIQ(ctx, id)
	})
}

// SolarFit returns the solar analysis for a property.
func (s *PropertyService) SolarFit(ctx context.Context, id string) (*domain.SolarFitData, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrInvalid)
	}
	return cached(ctx, s.cache, "solarfit:"+id, ttlAnalysis, func() (*domain.SolarFitData, error) {
		return s.backend.GetSolarFit(ctx, id)
	})
}

// DrivewayPro returns the driveway analysis for a property.
func (s *PropertyService) DrivewayPro(ctx context.Context, id string) (*domain.DrivewayData, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrInvalid)
	}
	return cached(ctx, s.cache, "drivewaypro:"+id, ttlAnalysis, func() (*domain.DrivewayData, error) {
		return s.backend.GetDrivewayPro(ctx, id)
	})
}

// PermitScope returns the permit summary for a property.
func (s *PropertyService) PermitScope(ctx context.Context, id string) (*domain.PermitScopeData, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: property id is required", domain.ErrInvalid)
	}
	return cached(ctx, s.cache, "permitscope:"+id, ttlAnalysis, func() (*domain.PermitScopeData, error) {
		return s.backend.GetPermitScope(ctx, id)
	})
}

// ValidateFilters checks paging, score ranges, sort order and bounds.
func ValidateFilters(f domain.PropertyFilters) error {
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > maxSearchLimit) {
		return fmt.Errorf("%w: limit must be 1-%d", domain.ErrInvalid, maxSearchLimit)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", domain.ErrInvalid)
	}
	for _, p := range []*float64{f.SolarScoreMin, f.SolarScoreMax} {
		if p != nil && (*p < 0 || *p > 100) {
			return fmt.Errorf("%w: solar score must be 0-100", domain.ErrInvalid)
		}
	}
	if f.SortOrder != "" && f.SortOrder != "asc" && f.SortOrder != "desc" {
		return fmt.Errorf("%w: sort_order must be asc or desc", domain.ErrInvalid)
	}
	if b := f.Bounds; b != nil && (b[0] > b[2] || b[1] > b[3]) {
		return fmt.Errorf("%w: bounds must be [west, south, east, north]", domain.ErrInvalid)
	}
	return nil
}

// cached reads key from cache, falling back to fetch and storing its result.
// Cache errors never fail the request.
func cached[T any](ctx context.Context, cache ports.CacheService, key string, ttl int, fetch func() (*T, error)) (*T, error) {
	if cache != nil {
		if data, err := cache.Get(ctx, key); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return &v, nil
			}
		}
	}

	v, err := fetch()
	if err != nil {
		return nil, err
	}

	if cache != nil {
		if data, err := json.Marshal(v); err == nil {
			_ = cache.Set(ctx, key, data, ttl)
		}
	}
	return v, nil
}
