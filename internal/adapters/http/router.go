package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/evoteli/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Server spans
	app.Use(TracingMiddleware())

	// Request-scoped logger
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 600 requests per minute per IP. Pan and zoom are chatty.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, 429, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Deprecated paths kept for older dashboards
	app.Use(DeprecationMiddleware(deprecatedRoutes))

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	session := SessionMiddleware(deps.Sessions)
	v1 := app.Group("/v1")

	// Map view state, one store per session
	m := v1.Group("/map", session)
	m.Get("/state", MapStateHandler())
	m.Get("/viewport", GetViewportHandler())
	m.Put("/viewport", SetViewportHandler())
	m.Put("/basemap", SetBasemapHandler())
	m.Post("/layers/:layer/toggle", ToggleLayerHandler())
	m.Post("/buildings-3d/toggle", Toggle3DBuildingsHandler())
	m.Put("/heatmap", SetHeatmapHandler())
	m.Put("/territory", SetTerritoryHandler())
	m.Delete("/territory", ClearTerritoryHandler())
	m.Put("/draw-mode", SetDrawModeHandler())
	m.Put("/filters", SetFiltersHandler())
	m.Delete("/filters", ResetFiltersHandler())
	m.Get("/preferences", PreferencesHandler())
	m.Get("/properties", timeout.NewWithContext(ViewPropertiesHandler(deps), requestTimeout))

	// Properties
	v1.Post("/properties/search", timeout.NewWithContext(SearchPropertiesHandler(deps), requestTimeout))
	v1.Get("/properties/nearby", timeout.NewWithContext(NearbyPropertiesHandler(deps), requestTimeout))
	v1.Get("/properties/:id", timeout.NewWithContext(GetPropertyHandler(deps), requestTimeout))
	v1.Get("/properties/:id/roofiq", timeout.NewWithContext(RoofIQHandler(deps), requestTimeout))
	v1.Get("/properties/:id/solarfit", timeout.NewWithContext(SolarFitHandler(deps), requestTimeout))
	v1.Get("/properties/:id/drivewaypro", timeout.NewWithContext(DrivewayProHandler(deps), requestTimeout))
	v1.Get("/properties/:id/permitscope", timeout.NewWithContext(PermitScopeHandler(deps), requestTimeout))

	// Audiences
	v1.Get("/audiences", timeout.NewWithContext(ListAudiencesHandler(deps), requestTimeout))
	v1.Post("/audiences", timeout.NewWithContext(CreateAudienceHandler(deps), requestTimeout))
	v1.Post("/audiences/from-view", session, timeout.NewWithContext(CreateAudienceFromViewHandler(deps), requestTimeout))
	v1.Get("/audiences/:id", timeout.NewWithContext(GetAudienceHandler(deps), requestTimeout))
	v1.Patch("/audiences/:id", timeout.NewWithContext(UpdateAudienceHandler(deps), requestTimeout))
	v1.Delete("/audiences/:id", timeout.NewWithContext(DeleteAudienceHandler(deps), requestTimeout))
	v1.Post("/audiences/:id/sync", timeout.NewWithContext(SyncAudienceHandler(deps), requestTimeout))

	// Saved searches
	v1.Get("/saved-searches", timeout.NewWithContext(ListSavedSearchesHandler(deps), requestTimeout))
	v1.Post("/saved-searches", timeout.NewWithContext(CreateSavedSearchHandler(deps), requestTimeout))
	v1.Post("/saved-searches/from-view", session, timeout.NewWithContext(CreateSavedSearchFromViewHandler(deps), requestTimeout))
	v1.Get("/saved-searches/preferences/email", timeout.NewWithContext(GetEmailPreferencesHandler(deps), requestTimeout))
	v1.Patch("/saved-searches/preferences/email", timeout.NewWithContext(UpdateEmailPreferencesHandler(deps), requestTimeout))
	v1.Get("/saved-searches/:id", timeout.NewWithContext(GetSavedSearchHandler(deps), requestTimeout))
	v1.Patch("/saved-searches/:id", timeout.NewWithContext(UpdateSavedSearchHandler(deps), requestTimeout))
	v1.Delete("/saved-searches/:id", timeout.NewWithContext(DeleteSavedSearchHandler(deps), requestTimeout))
	v1.Post("/saved-searches/:id/test-alert", timeout.NewWithContext(TestAlertHandler(deps), requestTimeout))
	v1.Get("/saved-searches/:id/alerts", timeout.NewWithContext(AlertHistoryHandler(deps), requestTimeout))

	// Territories
	v1.Get("/territories", timeout.NewWithContext(ListTerritoriesHandler(deps), requestTimeout))
	v1.Post("/territories/from-drawing", session, timeout.NewWithContext(SaveDrawnTerritoryHandler(deps), requestTimeout))
	v1.Get("/territories/:id", timeout.NewWithContext(GetTerritoryHandler(deps), requestTimeout))
	v1.Patch("/territories/:id", timeout.NewWithContext(UpdateTerritoryHandler(deps), requestTimeout))
	v1.Delete("/territories/:id", timeout.NewWithContext(DeleteTerritoryHandler(deps), requestTimeout))
	v1.Get("/territories/:id/properties/count", timeout.NewWithContext(TerritoryPropertyCountHandler(deps), requestTimeout))

	// Legacy search path
	app.Post(legacySearchPath, timeout.NewWithContext(SearchPropertiesHandler(deps), requestTimeout))

	// GraphQL
	app.Post("/graphql", session, GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", session, websocket.New(WebSocketHandler()))
}
