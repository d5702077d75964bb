package main

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flowscope/flowscope/internal/middleware"
)

// registerRoutes wires all HTTP routes onto the app
func registerRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(middleware.RequestID())
	app.Use(middleware.Recover(deps.Logger))
	app.Use(middleware.Logger(middleware.DefaultLoggerConfig(deps.Logger)))
	app.Use(middleware.CORS(deps.Config.Server.CORSOrigins))
	app.Use(middleware.Metrics())

	// Unauthenticated: health checks and Prometheus scrape endpoint
	deps.HealthHandler.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API key management is served on a separate path that is expected
	// to be reachable only from inside the deployment network. Keys are
	// bootstrapped here; everything under /v1 requires one.
	internal := app.Group("/internal")
	deps.APIKeysHandler.RegisterRoutes(internal)

	v1 := app.Group("/v1")
	v1.Use(deps.AuthMiddleware.RequireAPIKey())
	v1.Use(deps.RateLimitMiddleware.Handler())

	deps.ExperimentsHandler.RegisterRoutes(v1)
	deps.IngestionHandler.RegisterRoutes(v1)
	deps.TracesHandler.RegisterRoutes(v1)
	deps.AssessmentsHandler.RegisterRoutes(v1)
	deps.EvalRunsHandler.RegisterRoutes(v1)
}
