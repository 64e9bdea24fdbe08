package sos

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
)

type Handler struct {
	resolve   Resolver
	incidents IncidentLister
}

func NewHandler(resolve Resolver, incidents IncidentLister) *Handler {
	return &Handler{resolve: resolve, incidents: incidents}
}

// ActivateResponse carries the new state and, when no coordinates could be
// attached, the reason as a warning.
type ActivateResponse struct {
	State
	Warning string `json:"warning,omitempty"`
}

type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
}

type IncidentListResponse struct {
	Incidents []Incident `json:"incidents"`
	Limit     int        `json:"limit"`
}

// WithStore resolves the session's store before calling fn.
func (h *Handler) WithStore(fn func(c *fiber.Ctx, store *Store) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := h.resolve(c)
		if err != nil {
			return dto.Fail(c, fiber.StatusUnauthorized, "Session required")
		}
		return fn(c, store)
	}
}

func (h *Handler) Get(c *fiber.Ctx, store *Store) error {
	return c.JSON(store.State())
}

func (h *Handler) Activate(c *fiber.Ctx, store *Store) error {
	state, err := store.ActivateSOS()
	if err != nil && !errors.Is(err, apperr.ErrLocationUnavailable) {
		return dto.WriteError(c, err)
	}
	resp := ActivateResponse{State: state}
	if err != nil {
		resp.Warning = err.Error()
	}
	return c.JSON(resp)
}

func (h *Handler) Deactivate(c *fiber.Ctx, store *Store) error {
	return c.JSON(store.DeactivateSOS())
}

func (h *Handler) UpdateLocation(c *fiber.Ctx, store *Store) error {
	var req UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return dto.Fail(c, fiber.StatusBadRequest, "latitude and longitude are required")
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		return dto.Fail(c, fiber.StatusBadRequest, "coordinates out of range")
	}

	return c.JSON(store.UpdateSOSLocation(*req.Latitude, *req.Longitude, req.Address))
}

func (h *Handler) ToggleLocationSharing(c *fiber.Ctx, store *Store) error {
	return c.JSON(store.ToggleLocationSharing())
}

func (h *Handler) UpdateEvidence(c *fiber.Ctx, store *Store) error {
	var req EvidenceUpdate
	if err := c.BodyParser(&req); err != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	state, err := store.UpdateEvidenceCollection(req)
	if err != nil {
		return dto.WriteError(c, err)
	}
	return c.JSON(state)
}

func (h *Handler) ListIncidents(c *fiber.Ctx, store *Store) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	incidents := []Incident{}
	if h.incidents != nil {
		found, err := h.incidents.ListIncidents(store.OwnerID(), limit)
		if err != nil {
			return dto.WriteError(c, err)
		}
		incidents = append(incidents, found...)
	}

	return c.JSON(IncidentListResponse{Incidents: incidents, Limit: limit})
}
