package session

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps/assistant"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
)

// Header carries the session id on every request.
const Header = "X-Session-ID"

const localsKey = "session"

var ErrNoSession = errors.New("no session in context")

// FromCtx returns the session attached by the session middleware.
func FromCtx(c *fiber.Ctx) (*Session, error) {
	if s, ok := c.Locals(localsKey).(*Session); ok && s != nil {
		return s, nil
	}
	return nil, ErrNoSession
}

// SetCtx attaches s to the request.
func SetCtx(c *fiber.Ctx, s *Session) {
	c.Locals(localsKey, s)
}

// SOSStore resolves the SOS store of the request's session.
func SOSStore(c *fiber.Ctx) (*sos.Store, error) {
	s, err := FromCtx(c)
	if err != nil {
		return nil, err
	}
	return s.SOS, nil
}

// AssistantStore resolves the assistant conversation of the request's session.
func AssistantStore(c *fiber.Ctx) (*assistant.Store, error) {
	s, err := FromCtx(c)
	if err != nil {
		return nil, err
	}
	return s.Assistant, nil
}
