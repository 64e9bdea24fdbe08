package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps/community"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
	"github.com/irfan7230/EmpowHer-sub001/internal/dto"
	"github.com/irfan7230/EmpowHer-sub001/internal/session"
)

type DashboardResponse struct {
	sos.State
	NearbyAlerts   []community.Alert `json:"nearby_alerts"`
	NearbyRadiusKm float64           `json:"nearby_radius_km"`
	IsAITyping     bool              `json:"is_ai_typing"`
}

// DashboardHandler serves the home screen: the caller's SOS state next to
// the active community alerts around them.
type DashboardHandler struct {
	community *community.Store
	radiusKm  float64
}

func NewDashboardHandler(community *community.Store, radiusKm float64) *DashboardHandler {
	return &DashboardHandler{community: community, radiusKm: radiusKm}
}

func (h *DashboardHandler) Get(c *fiber.Ctx) error {
	s, err := session.FromCtx(c)
	if err != nil {
		return dto.Fail(c, fiber.StatusUnauthorized, "Session required")
	}

	return c.JSON(DashboardResponse{
		State:          s.SOS.State(),
		NearbyAlerts:   h.community.GetAlertsByDistance(h.radiusKm),
		NearbyRadiusKm: h.radiusKm,
		IsAITyping:     s.Assistant.IsAITyping(),
	})
}
