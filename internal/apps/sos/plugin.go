package sos

import "github.com/gofiber/fiber/v2"

// Resolver finds the store of the session a request belongs to.
type Resolver func(c *fiber.Ctx) (*Store, error)

type SOSPlugin struct {
	resolve   Resolver
	incidents IncidentLister
}

// NewPlugin mounts the SOS API. incidents may be nil, in which case the
// incident history is always empty.
func NewPlugin(resolve Resolver, incidents IncidentLister) *SOSPlugin {
	return &SOSPlugin{resolve: resolve, incidents: incidents}
}

func (p *SOSPlugin) ID() string { return "sos" }

func (p *SOSPlugin) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(p.resolve, p.incidents)

	router.Get("/sos", handler.WithStore(handler.Get))
	router.Post("/sos/activate", handler.WithStore(handler.Activate))
	router.Post("/sos/deactivate", handler.WithStore(handler.Deactivate))
	router.Put("/sos/location", handler.WithStore(handler.UpdateLocation))
	router.Post("/sos/location-sharing/toggle", handler.WithStore(handler.ToggleLocationSharing))
	router.Patch("/sos/evidence", handler.WithStore(handler.UpdateEvidence))
	router.Get("/sos/incidents", handler.WithStore(handler.ListIncidents))
}
