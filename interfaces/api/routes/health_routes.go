package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthChecker ตรวจ dependency แต่ละตัว (database, redis, nats)
type HealthChecker func(ctx context.Context) map[string]string

func SetupHealthRoutes(app *fiber.App, check HealthChecker) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		var components map[string]string

		if check != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()

			components = check(ctx)
			for _, v := range components {
				if v != "ok" && v != "disabled" {
					status = "degraded"
				}
			}
		}

		code := fiber.StatusOK
		if status != "ok" {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":     status,
			"service":    "Todo API",
			"components": components,
		})
	})
}
