package mapstate

import "github.com/samirrijal/evoteli/internal/core/domain"

// StorageKey is the fixed key the persisted preferences live under.
const StorageKey = "evoteli-map-state"

// Zoom range supported by the map surface.
const (
	MinZoom = 3
	MaxZoom = 20
)

// DefaultViewport is centered on Atlanta, GA.
var DefaultViewport = domain.Viewport{
	Latitude:  33.7490,
	Longitude: -84.3880,
	Zoom:      12,
	Bearing:   0,
	Pitch:     0,
}

const (
	defaultBasemap          = domain.BasemapSatellite
	defaultHeatmapIntensity = 0.8
)

func defaultLayers() domain.LayerSet {
	return domain.NewLayerSet(domain.LayerParcels, domain.LayerRoofs)
}

// Defaults returns the hardcoded initial state used before preferences are merged in.
func Defaults() domain.MapState {
	return domain.MapState{
		Viewport:         DefaultViewport,
		Basemap:          defaultBasemap,
		ActiveLayers:     defaultLayers(),
		HeatmapIntensity: defaultHeatmapIntensity,
		Show3DBuildings:  false,
		DrawMode:         domain.DrawNone,
	}
}

func clampZoom(z float64) float64 {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	}
	return z
}
