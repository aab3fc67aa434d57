// Package routes maps gateway paths to upstream services.
package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/tair/eco-catalog/api-gateway/config"
	"github.com/tair/eco-catalog/api-gateway/health"
	"github.com/tair/eco-catalog/api-gateway/middleware"
	"github.com/tair/eco-catalog/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix      string `json:"prefix"`
	Service     string `json:"service"`
	Description string `json:"description"`
}

// Routes holds all route definitions
var Routes = []RouteDefinition{
	{Prefix: "/auth", Service: config.ServiceUser, Description: "Signup and login"},
	{Prefix: "/users", Service: config.ServiceUser, Description: "Profile of the signed-in user"},
	{Prefix: "/api", Service: config.ServiceCatalog, Description: "Products, recommendations, cart, wishlist and view history"},
}

// Dependencies are the collaborators the gateway needs besides its config
type Dependencies struct {
	Limiter  middleware.Limiter
	Tokens   middleware.TokenValidator
	Breakers *middleware.Breakers
}

// NewApp builds the gateway with its middleware chain and routes.
func NewApp(cfg *config.GatewayConfig, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Eco Catalog API Gateway",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.Logging())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS,HEAD",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-Id, traceparent, tracestate",
		ExposeHeaders: "X-Request-Id, X-Trace-Id, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After",
		MaxAge:        86400,
	}))
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	SetupHealthRoutes(app, health.NewChecker(cfg.Services), deps.Breakers)

	app.Use(middleware.Identify(deps.Tokens))
	app.Use(middleware.RateLimit(deps.Limiter))
	SetupRoutes(app, proxy.NewReverseProxy(cfg.Services), deps.Breakers)

	return app
}

// SetupHealthRoutes registers gateway health endpoints. They are not rate
// limited.
func SetupHealthRoutes(app *fiber.App, checker *health.Checker, breakers *middleware.Breakers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":         health.StatusHealthy,
			"gateway":        "api-gateway",
			"uptime_seconds": checker.Uptime().Seconds(),
		})
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		report := checker.CheckAll(ctx)
		status := fiber.StatusOK
		if report.Status == health.StatusUnhealthy {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(report)
	})

	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		return c.JSON(fiber.Map{
			"health":   checker.CheckAll(ctx),
			"breakers": breakers.States(),
		})
	})
}

// SetupRoutes proxies every route prefix to its service behind that
// service's circuit breaker.
func SetupRoutes(app *fiber.App, reverseProxy *proxy.ReverseProxy, breakers *middleware.Breakers) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Eco Catalog API Gateway",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		handlers := []fiber.Handler{
			breakers.Middleware(route.Service),
			reverseProxy.Handler(route.Service),
		}
		app.All(route.Prefix, handlers...)
		app.All(route.Prefix+"/*", handlers...)
	}
}
