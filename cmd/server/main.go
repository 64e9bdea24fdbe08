package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/irfan7230/EmpowHer-sub001/internal/apps"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/assistant"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/community"
	"github.com/irfan7230/EmpowHer-sub001/internal/apps/sos"
	"github.com/irfan7230/EmpowHer-sub001/internal/archive"
	"github.com/irfan7230/EmpowHer-sub001/internal/config"
	"github.com/irfan7230/EmpowHer-sub001/internal/database"
	"github.com/irfan7230/EmpowHer-sub001/internal/handlers"
	"github.com/irfan7230/EmpowHer-sub001/internal/logging"
	"github.com/irfan7230/EmpowHer-sub001/internal/metrics"
	"github.com/irfan7230/EmpowHer-sub001/internal/middleware"
	"github.com/irfan7230/EmpowHer-sub001/internal/routes"
	"github.com/irfan7230/EmpowHer-sub001/internal/session"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			// ERROR+ logs also go to Sentry
			slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, logging.NewSentryHandler(nil))))
		}
	}

	// Incident archive
	db, err := database.Open(cfg.ArchiveDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db, archive.Models()...); err != nil {
		slog.Error("archive migration failed", "error", err)
		os.Exit(1)
	}
	repo := archive.NewRepository(db)

	// Archive cleanup
	cleanupDone := make(chan struct{})
	archive.StartCleanup(db, cfg.ArchiveRetention, cleanupDone)

	// Assistant script
	script := assistant.DefaultScript()
	if cfg.AssistantScriptPath != "" {
		script, err = assistant.LoadScript(cfg.AssistantScriptPath)
		if err != nil {
			slog.Error("failed to load assistant script", "path", cfg.AssistantScriptPath, "error", err)
			os.Exit(1)
		}
		slog.Info("assistant script loaded", "path", cfg.AssistantScriptPath, "intents", len(script.Intents))
	}

	recorder := metrics.NewRecorder()

	// Community feed, shared by every session
	communityStore := community.NewStore()
	recorder.ObserveCommunity(communityStore)

	// Sessions
	lastKnown := sos.FixedLocation{
		Latitude:  cfg.DefaultLatitude,
		Longitude: cfg.DefaultLongitude,
		Address:   cfg.DefaultAddress,
	}
	sessions := session.NewRegistry(cfg.SessionIdleTTL, time.Minute, func(id string) *session.Session {
		logger := slog.Default().With("session_id", id)
		s := &session.Session{
			SOS: sos.NewStore(
				sos.WithOwner(id),
				sos.WithScenario(cfg.SOSScenario),
				sos.WithLocationProvider(lastKnown),
				sos.WithArchiver(repo),
				sos.WithLogger(logger),
			),
			Assistant: assistant.NewStore(
				assistant.WithScript(script),
				assistant.WithReplyDelay(cfg.AssistantReplyDelay),
				assistant.WithLogger(logger),
			),
		}
		s.AddCloser(recorder.ObserveSOS(s.SOS))
		s.AddCloser(recorder.ObserveAssistant(s.Assistant))
		recorder.SessionOpened()
		s.AddCloser(recorder.SessionClosed)
		return s
	})

	plugins := []apps.Plugin{
		sos.NewPlugin(session.SOSStore, repo),
		community.NewPlugin(communityStore),
		assistant.NewPlugin(session.AssistantStore),
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(repo, sessions)
	sessionHandler := handlers.NewSessionHandler(sessions)
	dashboardHandler := handlers.NewDashboardHandler(communityStore, cfg.NearbyRadiusKm)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		return c.Next()
	})
	app.Use(middleware.SessionMiddleware(sessions))

	// Routes
	routes.Setup(app, recorder, healthHandler, sessionHandler, dashboardHandler, plugins)
	for _, p := range plugins {
		slog.Info("plugin registered", "plugin", p.ID())
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Archives active incidents and cancels pending assistant replies
	sessions.Close()
	close(cleanupDone)
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
