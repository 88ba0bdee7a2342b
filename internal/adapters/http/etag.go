package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// stateETag tags a map state by its version. Versions only grow within a
// session, so the tag changes exactly when the state does.
func stateETag(version uint64) string {
	return `W/"v` + strconv.FormatUint(version, 10) + `"`
}

// ETagMiddleware answers conditional GETs. A handler that knows its
// representation's version sets the ETag itself; otherwise the tag is a hash
// of the body. Responses marked no-store carry no tag, since the client never
// keeps them to revalidate.
func ETagMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		etag := c.GetRespHeader(fiber.HeaderETag)
		if etag == "" {
			if strings.Contains(c.GetRespHeader(fiber.HeaderCacheControl), "no-store") {
				return nil
			}
			body := c.Response().Body()
			if len(body) == 0 {
				return nil
			}
			h := sha256.Sum256(body)
			etag = `W/"` + hex.EncodeToString(h[:8]) + `"`
			c.Set(fiber.HeaderETag, etag)
		}

		if etagMatches(c.Get(fiber.HeaderIfNoneMatch), etag) {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}

// etagMatches applies the weak comparison of If-None-Match to a list of tags.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || strings.TrimPrefix(tag, "W/") == want {
			return true
		}
	}
	return false
}
