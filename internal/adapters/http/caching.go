package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses based on endpoint.
// Adds sensible defaults if not already set by the handler.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/v1/map/state":
			ttl = "private, no-cache" // Revalidated by version ETag

		case strings.HasPrefix(path, "/v1/map/"):
			ttl = "no-store" // Per-session state

		case strings.HasPrefix(path, "/v1/properties/") && isAnalysis(path):
			ttl = "public, max-age=1800" // Analyses change rarely

		case strings.HasPrefix(path, "/v1/properties/"):
			ttl = "public, max-age=900"

		case strings.HasPrefix(path, "/v1/audiences"),
			strings.HasPrefix(path, "/v1/saved-searches"),
			strings.HasPrefix(path, "/v1/territories"):
			ttl = "private, max-age=0" // User-owned and mutable

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}

func isAnalysis(path string) bool {
	for _, suffix := range []string{"/roofiq", "/solarfit", "/drivewaypro", "/permitscope"} {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
