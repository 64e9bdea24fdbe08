package apps

import "github.com/gofiber/fiber/v2"

// Plugin is one feature area of the API.
type Plugin interface {
	// ID returns the unique feature identifier, used in logs.
	ID() string

	// RegisterRoutes mounts the feature's routes on the given Fiber group.
	// The group is already prefixed with /api and has the session middleware
	// applied.
	RegisterRoutes(router fiber.Router)
}
