package http

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/evoteli/internal/core/domain"
	"github.com/samirrijal/evoteli/internal/core/query"
	"github.com/samirrijal/evoteli/internal/core/usecases"
)

// MapStateHandler returns the full map state for the caller's session, tagged
// with its version so pollers can revalidate with If-None-Match.
func MapStateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := sessionFrom(c).Store.State()
		c.Set(fiber.HeaderCacheControl, "private, no-cache")
		c.Set(fiber.HeaderETag, stateETag(st.Version))
		return c.JSON(st)
	}
}

// GetViewportHandler returns the current camera state.
func GetViewportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store")
		return c.JSON(sessionFrom(c).Store.Viewport())
	}
}

// SetViewportHandler replaces the viewport. Zoom is clamped by the store.
func SetViewportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var v domain.Viewport
		if err := c.BodyParser(&v); err != nil {
			return errBadRequest(c, "invalid viewport body")
		}
		if !finite(v.Latitude, v.Longitude, v.Zoom, v.Bearing, v.Pitch) {
			return errBadRequest(c, "viewport values must be finite numbers")
		}
		if v.Latitude < -90 || v.Latitude > 90 {
			return errBadRequest(c, "latitude must be between -90 and 90")
		}
		if v.Longitude < -180 || v.Longitude > 180 {
			return errBadRequest(c, "longitude must be between -180 and 180")
		}
		if v.Pitch < 0 || v.Pitch > 85 {
			return errBadRequest(c, "pitch must be between 0 and 85")
		}

		store := sessionFrom(c).Store
		store.SetViewport(c.UserContext(), v)
		return c.JSON(store.Viewport())
	}
}

type basemapRequest struct {
	Basemap domain.BasemapStyle `json:"basemap"`
}

// SetBasemapHandler selects the basemap style.
func SetBasemapHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req basemapRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if !req.Basemap.Valid() {
			return errBadRequest(c, "basemap must be one of satellite, streets, terrain")
		}

		store := sessionFrom(c).Store
		store.SetBasemap(c.UserContext(), req.Basemap)
		return c.JSON(store.Preferences())
	}
}

// ToggleLayerHandler adds the layer if absent and removes it otherwise.
func ToggleLayerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		layer := domain.LayerType(c.Params("layer"))
		if !layer.Valid() {
			return errBadRequest(c, "unknown layer: "+string(layer))
		}

		store := sessionFrom(c).Store
		store.ToggleLayer(c.UserContext(), layer)
		return c.JSON(store.Preferences())
	}
}

// Toggle3DBuildingsHandler flips the 3D-buildings flag.
func Toggle3DBuildingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := sessionFrom(c).Store
		store.Toggle3DBuildings(c.UserContext())
		return c.JSON(store.Preferences())
	}
}

type heatmapRequest struct {
	Intensity *float64 `json:"intensity"`
}

// SetHeatmapHandler sets the heatmap intensity, which must lie in [0, 1].
func SetHeatmapHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req heatmapRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Intensity == nil {
			return errBadRequest(c, "intensity is required")
		}
		if x := *req.Intensity; math.IsNaN(x) || x < 0 || x > 1 {
			return errBadRequest(c, "intensity must be between 0 and 1")
		}

		store := sessionFrom(c).Store
		store.SetHeatmapIntensity(c.UserContext(), *req.Intensity)
		return c.JSON(store.Preferences())
	}
}

// SetTerritoryHandler replaces the territory being drawn.
func SetTerritoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p domain.Polygon
		if err := c.BodyParser(&p); err != nil {
			return errBadRequest(c, "invalid polygon body")
		}
		if p.Type != "Polygon" || len(p.Coordinates) == 0 {
			return errBadRequest(c, "territory must be a GeoJSON Polygon")
		}
		for _, ring := range p.Coordinates {
			for _, pos := range ring {
				if pos[0] < -180 || pos[0] > 180 || pos[1] < -90 || pos[1] > 90 {
					return errBadRequest(c, "territory coordinates out of range")
				}
			}
		}

		store := sessionFrom(c).Store
		store.SetDrawnTerritory(c.UserContext(), &p)
		return c.JSON(store.State())
	}
}

// ClearTerritoryHandler drops the drawing and the draw mode together.
func ClearTerritoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionFrom(c).Store.ClearDrawnTerritory(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type drawModeRequest struct {
	Mode domain.DrawMode `json:"mode"`
}

// SetDrawModeHandler selects the shape tool. An empty mode means none.
func SetDrawModeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req drawModeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if !req.Mode.Valid() {
			return errBadRequest(c, "mode must be one of polygon, radius, circle, rectangle or empty")
		}

		store := sessionFrom(c).Store
		store.SetDrawMode(c.UserContext(), req.Mode)
		return c.JSON(store.State())
	}
}

// SetFiltersHandler replaces the filters wholesale.
func SetFiltersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f domain.PropertyFilters
		if err := c.BodyParser(&f); err != nil {
			return errBadRequest(c, "invalid filters body")
		}
		if err := usecases.ValidateFilters(f); err != nil {
			return writeError(c, err)
		}

		store := sessionFrom(c).Store
		store.SetFilters(c.UserContext(), f)
		return c.JSON(store.Filters())
	}
}

// ResetFiltersHandler clears all filters.
func ResetFiltersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionFrom(c).Store.ResetFilters(c.UserContext())
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PreferencesHandler returns the persisted visual preferences.
func PreferencesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store")
		return c.JSON(sessionFrom(c).Store.Preferences())
	}
}

// viewResult is a tracked search result tagged with the parameters it answers.
type viewResult struct {
	Fingerprint string                         `json:"fingerprint"`
	Seq         uint64                         `json:"seq"`
	Result      *domain.PropertySearchResponse `json:"result"`
}

// ViewPropertiesHandler searches properties for the session's current view.
// A search overtaken by a newer view answers 409.
func ViewPropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := deps.Properties.SearchInView(c.UserContext(), sessionFrom(c))
		if err != nil {
			if errors.Is(err, query.ErrStale) {
				return errConflict(c, "view changed while searching")
			}
			return writeError(c, err)
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(viewResult{Fingerprint: res.Fingerprint, Seq: res.Seq, Result: res.Value})
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
