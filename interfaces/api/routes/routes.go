package routes

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"gofiber-todo/infrastructure/websocket"
	"gofiber-todo/interfaces/api/handlers"
	"gofiber-todo/interfaces/api/middleware"
)

// Options ของที่ route ต้องใช้นอกจาก handlers
type Options struct {
	Auth      middleware.AuthConfig
	RateLimit rate.Limit // 0 = ไม่จำกัด
	RateBurst int
	Hub       *websocket.Hub // nil = ไม่เปิด /ws
	Health    HealthChecker
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, opts Options) {
	SetupHealthRoutes(app, opts.Health)

	api := app.Group("/api/v1")
	protected := middleware.Protected(opts.Auth)

	SetupAuthRoutes(api, h, protected, middleware.Optional(opts.Auth), authLimiter(opts))
	SetupUserRoutes(api, h, protected)
	SetupDashboardRoutes(api, h, protected)
	SetupTaskRoutes(api, h, protected)
	SetupCategoryRoutes(api, h, protected)

	if opts.Hub != nil {
		wsAuth := opts.Auth
		wsAuth.AllowQueryToken = true
		SetupWebSocketRoutes(api, opts.Hub, middleware.Protected(wsAuth))
	}
}

func authLimiter(opts Options) fiber.Handler {
	if opts.RateLimit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}
	return middleware.RateLimiter(opts.RateLimit, burst)
}
