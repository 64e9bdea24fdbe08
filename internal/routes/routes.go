package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps"
	"github.com/irfan7230/EmpowHer-sub001/internal/handlers"
	"github.com/irfan7230/EmpowHer-sub001/internal/metrics"
)

func Setup(
	app *fiber.App,
	recorder *metrics.Recorder,
	healthHandler *handlers.HealthHandler,
	sessionHandler *handlers.SessionHandler,
	dashboardHandler *handlers.DashboardHandler,
	plugins []apps.Plugin,
) {
	// Prometheus scrape endpoint (outside /api, not rate limited)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(recorder.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Sessions: creation is stricter, 10 req/min per IP
	api.Post("/sessions", limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}), sessionHandler.Create)
	api.Delete("/sessions/current", sessionHandler.End)

	api.Get("/dashboard", dashboardHandler.Get)

	for _, p := range plugins {
		p.RegisterRoutes(api)
	}
}
