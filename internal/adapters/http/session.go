package http

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/evoteli/internal/core/usecases"
)

// SessionHeader carries the client session ID in both directions.
const SessionHeader = "X-Session-ID"

const (
	sessionCookie = "session_id"
	sessionLocal  = "session"
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SessionMiddleware resolves the caller's map session from the X-Session-ID
// header or the session_id cookie, issuing a new ID when neither is present.
func SessionMiddleware(sessions *usecases.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(SessionHeader)
		if id == "" {
			id = c.Cookies(sessionCookie)
		}
		if id == "" {
			id = uuid.NewString()
		} else if !sessionIDPattern.MatchString(id) {
			return errBadRequest(c, "invalid session id")
		}

		c.Set(SessionHeader, id)
		c.Locals(sessionLocal, sessions.Get(c.UserContext(), id))
		return c.Next()
	}
}

func sessionFrom(c *fiber.Ctx) *usecases.Session {
	sess, _ := c.Locals(sessionLocal).(*usecases.Session)
	return sess
}
