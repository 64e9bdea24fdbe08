package dto

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
)

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Sessions  int    `json:"sessions"`
}

type SessionResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// Fail writes a client error with the given status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{Error: true, Message: message})
}

// WriteError maps err to a status code by its kind. Errors without a kind
// are logged and reported as a generic 500.
func WriteError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	if kind == "" {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.Status(apperr.HTTPStatus(err)).JSON(ErrorResponse{
		Error: true, Message: err.Error(), Kind: string(kind),
	})
}
