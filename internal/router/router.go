package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/integrity-api/internal/config"
	"github.com/proctorly/integrity-api/internal/handler"
	"github.com/proctorly/integrity-api/internal/middleware"
	"github.com/proctorly/integrity-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	IntegrityHandler *handler.IntegrityHandler
	JWTMiddleware    fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.IntegrityHandler != nil {
		protected := api.Group("", jwtMiddleware, middleware.RateLimit("integrity", 30, time.Minute))
		deps.IntegrityHandler.Register(protected)
	}
}
