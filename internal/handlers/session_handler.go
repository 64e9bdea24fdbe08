package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
	"github.com/irfan7230/EmpowHer-sub001/internal/session"
)

type SessionHandler struct {
	sessions *session.Registry
}

func NewSessionHandler(sessions *session.Registry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create starts a session. Clients send the returned id in X-Session-ID.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	s := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(dto.SessionResponse{
		ID:        s.ID,
		CreatedAt: s.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// End removes the caller's session; its pending assistant replies are
// cancelled.
func (h *SessionHandler) End(c *fiber.Ctx) error {
	s, err := session.FromCtx(c)
	if err != nil {
		return dto.Fail(c, fiber.StatusUnauthorized, "Session required")
	}
	h.sessions.Remove(s.ID)
	return c.SendStatus(fiber.StatusNoContent)
}
