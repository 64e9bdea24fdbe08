package assistant

import "github.com/gofiber/fiber/v2"

// Resolver finds the conversation of the session a request belongs to.
type Resolver func(c *fiber.Ctx) (*Store, error)

type AssistantPlugin struct {
	resolve Resolver
}

func NewPlugin(resolve Resolver) *AssistantPlugin {
	return &AssistantPlugin{resolve: resolve}
}

func (p *AssistantPlugin) ID() string { return "assistant" }

func (p *AssistantPlugin) RegisterRoutes(router fiber.Router) {
	handler := NewHandler(p.resolve)

	chat := router.Group("/assistant")
	chat.Get("/messages", handler.WithStore(handler.Conversation))
	chat.Post("/messages", handler.WithStore(handler.SendMessage))
	chat.Delete("/messages", handler.WithStore(handler.Clear))
	chat.Post("/responses", handler.WithStore(handler.AddResponse))
	chat.Put("/typing", handler.WithStore(handler.SetTyping))
}
