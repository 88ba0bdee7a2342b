package usecases

import (
	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/pkg/geospatial"
)

// ViewMargin is how far, in degrees, a view search reaches either side of the
// viewport center.
const ViewMargin = 1.0

// SearchParams derives the property query for what the user is looking at.
// Filters are copied; when they carry no location box or territory the drawn
// territory is used, and when neither exists the box spans the viewport center
// plus or minus ViewMargin.
func SearchParams(st domain.MapState) domain.PropertyFilters {
	f := st.Filters.Clone()
	if f.Territory == nil && st.DrawnTerritory != nil && f.Bounds == nil {
		f.Territory = st.DrawnTerritory.Clone()
	}
	if f.Bounds == nil && f.Territory == nil {
		minLat, minLon, maxLat, maxLon := geospatial.MarginBounds(st.Viewport.Latitude, st.Viewport.Longitude, ViewMargin)
		b := domain.Bounds{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon}.BBox()
		f.Bounds = &b
	}
	return f
}

// SnapshotFilters is the filter set saved with an audience or saved search:
// the active filters plus the drawn territory, without paging.
func SnapshotFilters(st domain.MapState) domain.PropertyFilters {
	f := st.Filters.Clone()
	if f.Territory == nil && st.DrawnTerritory != nil {
		f.Territory = st.DrawnTerritory.Clone()
	}
	f.Limit, f.Offset = nil, nil
	return f
}
