package routes

import (
	"time"

	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

const APIPrefix = "/api"

type AppConfig struct {
	JWTSecret        string
	CORSAllowOrigins string
	// AccessLog disables the request logger when false; tests leave it off.
	AccessLog bool
	// AuthLimiter throttles register and login per client IP. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}

// NewApp builds the Fiber application with middleware, the API route
// table, /health and /metrics.
func NewApp(cfg AppConfig, h *handlers.Handlers, collector *metrics.Collector, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Skill Swap",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
		MaxAge:       86400,
	}))
	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New(logger.Config{
			TimeFormat: time.RFC3339,
			TimeZone:   "UTC",
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
	if collector != nil {
		app.Use(middleware.RequestMetrics(collector))
	}

	// Probes hit /health; API clients use /api/health.
	app.Get("/health", h.Health)
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(gatherer)))
	}

	guards := Guards{Protect: middleware.Protected(cfg.JWTSecret)}
	if cfg.AuthLimiter != nil {
		guards.Throttle = cfg.AuthLimiter.Handler()
	}

	api := app.Group(APIPrefix)
	api.Get("/health", h.Health)
	Register(api, Table(h), guards)

	return app
}
