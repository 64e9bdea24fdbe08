package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
	"github.com/irfan7230/EmpowHer-sub001/internal/session"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping() error
}

type HealthHandler struct {
	archive  Pinger
	sessions *session.Registry
}

func NewHealthHandler(archive Pinger, sessions *session.Registry) *HealthHandler {
	return &HealthHandler{archive: archive, sessions: sessions}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.archive.Ping(); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
		Sessions:  h.sessions.Count(),
	})
}
