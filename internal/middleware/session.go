package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
	"github.com/irfan7230/EmpowHer-sub001/internal/session"
)

// Paths under /api that work without a session.
var sessionSkipPaths = []string{
	"/api/health",
	"/api/community/",
}

// SessionMiddleware attaches the session named by the X-Session-ID header.
// POST /api/sessions is open so clients can obtain an id.
func SessionMiddleware(registry *session.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !strings.HasPrefix(path, "/api/") {
			return c.Next()
		}
		if path == "/api/sessions" && c.Method() == fiber.MethodPost {
			return c.Next()
		}

		id := c.Get(session.Header)
		for _, skip := range sessionSkipPaths {
			if strings.HasPrefix(path, skip) {
				// Attach the session anyway when one is supplied.
				if s, ok := registry.Get(id); ok {
					session.SetCtx(c, s)
				}
				return c.Next()
			}
		}

		if id == "" {
			return dto.Fail(c, fiber.StatusUnauthorized, session.Header+" header is required")
		}
		s, ok := registry.Get(id)
		if !ok {
			return dto.Fail(c, fiber.StatusNotFound, "Unknown or expired session: "+id)
		}
		session.SetCtx(c, s)
		return c.Next()
	}
}
