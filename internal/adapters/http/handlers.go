package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/evoteli/internal/core/domain"
)

// SearchPropertiesHandler runs an explicit filter query.
func SearchPropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var f domain.PropertyFilters
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&f); err != nil {
				return errBadRequest(c, "invalid filters body")
			}
		}

		resp, err := deps.Properties.Search(c.UserContext(), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(resp)
	}
}

// NearbyPropertiesHandler returns properties within a radius of a point.
func NearbyPropertiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		radius := c.QueryFloat("radius", 1000)

		var f domain.PropertyFilters
		if limit := c.QueryInt("limit", 0); limit != 0 {
			f.Limit = &limit
		}
		f.PropertyType = c.Query("property_type")

		resp, err := deps.Properties.SearchNear(c.UserContext(), lat, lon, radius, f)
		if err != nil {
			return writeError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(resp)
	}
}

// GetPropertyHandler returns a single property by ID.
func GetPropertyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Properties.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(p)
	}
}

// RoofIQHandler returns the roof analysis for a property.
func RoofIQHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		r, err := deps.Properties.RoofIQ(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(r)
	}
}

// SolarFitHandler returns the solar analysis for a property.
func SolarFitHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Properties.SolarFit(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(s)
	}
}

// DrivewayProHandler returns the driveway analysis for a property.
func DrivewayProHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := deps.Properties.DrivewayPro(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(d)
	}
}

// PermitScopeHandler returns the permit summary for a property.
func PermitScopeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Properties.PermitScope(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(p)
	}
}

// --- Audiences ---

func ListAudiencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		audiences, err := deps.Audiences.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		if audiences == nil {
			audiences = []domain.Audience{}
		}
		return c.JSON(audiences)
	}
}

func GetAudienceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := deps.Audiences.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(a)
	}
}

func CreateAudienceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.AudienceCreate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		a, err := deps.Audiences.Create(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

type fromViewRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateAudienceFromViewHandler builds an audience from the session's current filters.
func CreateAudienceFromViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req fromViewRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		a, err := deps.Audiences.CreateFromView(c.UserContext(), sessionFrom(c), req.Name, req.Description)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

func UpdateAudienceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.AudienceUpdate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		a, err := deps.Audiences.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(a)
	}
}

func DeleteAudienceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Audiences.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SyncAudienceHandler triggers an ads-platform sync.
func SyncAudienceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.Audiences.Sync(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(s)
	}
}

// --- Saved searches ---

func ListSavedSearchesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := domain.ListParams{
			Skip:       c.QueryInt("skip", 0),
			Limit:      c.QueryInt("limit", 100),
			ActiveOnly: c.QueryBool("active_only", false),
		}
		list, err := deps.SavedSearches.List(c.UserContext(), p)
		if err != nil {
			return writeError(c, err)
		}
		if list.Searches == nil {
			list.Searches = []domain.SavedSearch{}
		}

		pg := Pagination{Offset: p.Skip, Limit: p.Limit, Total: list.Total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: list.Searches, Pagination: pg})
	}
}

func GetSavedSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := deps.SavedSearches.Get(c.UserContext(), c.Params("id"), c.QueryBool("include_alerts", false))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(s)
	}
}

func CreateSavedSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.SavedSearchCreate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		s, err := deps.SavedSearches.Create(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// CreateSavedSearchFromViewHandler saves the session's current filters. Any
// filters in the body are ignored.
func CreateSavedSearchFromViewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.SavedSearchCreate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		s, err := deps.SavedSearches.CreateFromView(c.UserContext(), sessionFrom(c), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

func UpdateSavedSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.SavedSearchUpdate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		s, err := deps.SavedSearches.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(s)
	}
}

func DeleteSavedSearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.SavedSearches.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type testAlertRequest struct {
	RecipientEmail string `json:"recipient_email"`
}

// TestAlertHandler sends a sample alert email for a saved search.
func TestAlertHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req testAlertRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return errBadRequest(c, "invalid request body")
			}
		}
		res, err := deps.SavedSearches.TestAlert(c.UserContext(), c.Params("id"), req.RecipientEmail)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// AlertHistoryHandler lists the alerts sent for a saved search, newest first.
func AlertHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := domain.ListParams{
			Skip:  c.QueryInt("skip", 0),
			Limit: c.QueryInt("limit", 20),
		}
		alerts, err := deps.SavedSearches.Alerts(c.UserContext(), c.Params("id"), p)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(alerts)
	}
}

func GetEmailPreferencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.SavedSearches.EmailPreferences(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(p)
	}
}

func UpdateEmailPreferencesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.EmailPreferencesUpdate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		p, err := deps.SavedSearches.UpdateEmailPreferences(c.UserContext(), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(p)
	}
}

// --- Territories ---

func ListTerritoriesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := domain.ListParams{
			Skip:       c.QueryInt("skip", 0),
			Limit:      c.QueryInt("limit", 100),
			ActiveOnly: c.QueryBool("active_only", false),
		}
		list, err := deps.Territories.List(c.UserContext(), p)
		if err != nil {
			return writeError(c, err)
		}
		if list.Territories == nil {
			list.Territories = []domain.Territory{}
		}

		pg := Pagination{Offset: p.Skip, Limit: p.Limit, Total: list.Total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: list.Territories, Pagination: pg})
	}
}

func GetTerritoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := deps.Territories.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(t)
	}
}

func UpdateTerritoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.TerritoryUpdate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		t, err := deps.Territories.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(t)
	}
}

// TerritoryPropertyCountHandler counts the properties inside a territory.
func TerritoryPropertyCountHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := deps.Territories.PropertyCount(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(n)
	}
}

func DeleteTerritoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Territories.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SaveDrawnTerritoryHandler stores the session's drawing and completes it.
func SaveDrawnTerritoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in domain.TerritoryCreate
		if err := c.BodyParser(&in); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		t, err := deps.Territories.SaveDrawn(c.UserContext(), sessionFrom(c), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	}
}
