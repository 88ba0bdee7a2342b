package domain

import (
	"encoding/json"
	"sort"
)

// Viewport is the camera state of the map.
type Viewport struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing"`
	Pitch     float64 `json:"pitch"`
}

// Center returns the viewport center as a point.
func (v Viewport) Center() GeoPoint {
	return GeoPoint{Lat: v.Latitude, Lon: v.Longitude}
}

// BasemapStyle names a background tile style.
type BasemapStyle string

const (
	BasemapSatellite BasemapStyle = "satellite"
	BasemapStreets   BasemapStyle = "streets"
	BasemapTerrain   BasemapStyle = "terrain"
)

// Valid reports whether b is one of the known styles.
func (b BasemapStyle) Valid() bool {
	switch b {
	case BasemapSatellite, BasemapStreets, BasemapTerrain:
		return true
	}
	return false
}

// LayerType identifies an optional visual overlay.
type LayerType string

const (
	LayerParcels        LayerType = "parcels"
	LayerRoofs          LayerType = "roofs"
	LayerSolarPotential LayerType = "solar-potential"
	LayerHeatmap        LayerType = "heatmap"
	LayerBuildings3D    LayerType = "buildings-3d"
	LayerDriveways      LayerType = "driveways"
)

// Valid reports whether l is one of the known layers.
func (l LayerType) Valid() bool {
	switch l {
	case LayerParcels, LayerRoofs, LayerSolarPotential, LayerHeatmap, LayerBuildings3D, LayerDriveways:
		return true
	}
	return false
}

// LayerSet is an unordered set of active layers.
type LayerSet map[LayerType]struct{}

// NewLayerSet builds a set from the given layers.
func NewLayerSet(layers ...LayerType) LayerSet {
	s := make(LayerSet, len(layers))
	for _, l := range layers {
		s[l] = struct{}{}
	}
	return s
}

// Has reports whether l is in the set.
func (s LayerSet) Has(l LayerType) bool {
	_, ok := s[l]
	return ok
}

// Toggle removes l when present and adds it otherwise.
func (s LayerSet) Toggle(l LayerType) {
	if s.Has(l) {
		delete(s, l)
		return
	}
	s[l] = struct{}{}
}

// Clone returns an independent copy.
func (s LayerSet) Clone() LayerSet {
	out := make(LayerSet, len(s))
	for l := range s {
		out[l] = struct{}{}
	}
	return out
}

// Equal compares two sets by membership.
func (s LayerSet) Equal(other LayerSet) bool {
	if len(s) != len(other) {
		return false
	}
	for l := range s {
		if !other.Has(l) {
			return false
		}
	}
	return true
}

// Sorted returns the members as a sorted list of identifiers.
func (s LayerSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted list.
func (s LayerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a list of identifiers into the set.
func (s *LayerSet) UnmarshalJSON(data []byte) error {
	var ids []LayerType
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewLayerSet(ids...)
	return nil
}

// DrawMode is the active shape tool. The zero value means no tool.
type DrawMode string

const (
	DrawNone      DrawMode = ""
	DrawPolygon   DrawMode = "polygon"
	DrawRadius    DrawMode = "radius"
	DrawCircle    DrawMode = "circle"
	DrawRectangle DrawMode = "rectangle"
)

// Valid reports whether m is a known mode (including none).
func (m DrawMode) Valid() bool {
	switch m {
	case DrawNone, DrawPolygon, DrawRadius, DrawCircle, DrawRectangle:
		return true
	}
	return false
}

// MapState is a snapshot of everything the user is looking at and filtering for.
type MapState struct {
	Version          uint64          `json:"version"`
	Viewport         Viewport        `json:"viewport"`
	Basemap          BasemapStyle    `json:"basemap"`
	ActiveLayers     LayerSet        `json:"activeLayers"`
	HeatmapIntensity float64         `json:"heatmapIntensity"`
	Show3DBuildings  bool            `json:"show3DBuildings"`
	DrawnTerritory   *Polygon        `json:"drawnTerritory"`
	DrawMode         DrawMode        `json:"drawMode"`
	Filters          PropertyFilters `json:"filters"`
}

// Clone returns a deep copy so snapshots never alias live store state.
func (s MapState) Clone() MapState {
	out := s
	out.ActiveLayers = s.ActiveLayers.Clone()
	out.DrawnTerritory = s.DrawnTerritory.Clone()
	out.Filters = s.Filters.Clone()
	return out
}

// Preferences is the persisted subset of MapState.
type Preferences struct {
	Basemap          BasemapStyle `json:"basemap"`
	ActiveLayers     []string     `json:"activeLayers"`
	HeatmapIntensity float64      `json:"heatmapIntensity"`
	Show3DBuildings  bool         `json:"show3DBuildings"`
}
