package community

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/apperr"
	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type AlertListResponse struct {
	Alerts []Alert `json:"alerts"`
	Total  int     `json:"total"`
}

type RatingListResponse struct {
	Ratings []SafetyRating `json:"ratings"`
	Total   int            `json:"total"`
	Average float64        `json:"average"`
}

// ListAlerts returns every alert, or only active alerts within
// ?max_distance= km when given.
func (h *Handler) ListAlerts(c *fiber.Ctx) error {
	raw := c.Query("max_distance")
	if raw == "" {
		alerts := h.store.Alerts()
		return c.JSON(AlertListResponse{Alerts: alerts, Total: len(alerts)})
	}

	maxDistance, err := strconv.ParseFloat(raw, 64)
	if err != nil || maxDistance < 0 || math.IsNaN(maxDistance) {
		return dto.Fail(c, fiber.StatusBadRequest, "max_distance must be a non-negative number")
	}
	alerts := h.store.GetAlertsByDistance(maxDistance)
	return c.JSON(AlertListResponse{Alerts: alerts, Total: len(alerts)})
}

func (h *Handler) CreateAlert(c *fiber.Ctx) error {
	var req NewAlert
	if err := c.BodyParser(&req); err != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	alert, err := h.store.AddCommunityAlert(req)
	if err != nil {
		return dto.WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(alert)
}

func (h *Handler) RespondToAlert(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.store.RespondToCommunityAlert(id) {
		return dto.WriteError(c, apperr.Newf(apperr.KindNotFound, "community alert %q not found", id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListRatings(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "lat and lon query parameters are required")
	}

	ratings := h.store.GetRatingsByLocation(lat, lon)
	resp := RatingListResponse{Ratings: ratings, Total: len(ratings)}
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Rating
		}
		resp.Average = float64(sum) / float64(len(ratings))
	}
	return c.JSON(resp)
}

func (h *Handler) CreateRating(c *fiber.Ctx) error {
	var req NewRating
	if err := c.BodyParser(&req); err != nil {
		return dto.Fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	rating, err := h.store.AddSafetyRating(req)
	if err != nil {
		return dto.WriteError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}
