package community

import "github.com/gofiber/fiber/v2"

type CommunityPlugin struct {
	store *Store
}

// NewPlugin mounts the community API over the shared store.
func NewPlugin(store *Store) *CommunityPlugin {
	return &CommunityPlugin{store: store}
}

func (p *CommunityPlugin) ID() string { return "community" }

func (p *CommunityPlugin) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(p.store)

	router.Get("/community/alerts", handler.ListAlerts)
	router.Post("/community/alerts", handler.CreateAlert)
	router.Post("/community/alerts/:id/respond", handler.RespondToAlert)
	router.Get("/community/ratings", handler.ListRatings)
	router.Post("/community/ratings", handler.CreateRating)
}
