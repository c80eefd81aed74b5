package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

func limitedApp(r rate.Limit, b int) *fiber.App {
	app := fiber.New()
	app.Use(RateLimiter(r, b))
	app.Post("/login", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimiter_Allow(t *testing.T) {
	app := limitedApp(rate.Limit(1), 1)

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected first request to succeed, got status %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("POST", "/login", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("Expected second request to be rate limited, got status %d", resp.StatusCode)
	}
}

func TestRateLimiter_Burst(t *testing.T) {
	app := limitedApp(rate.Limit(0.001), 3)

	for i := 0; i < 3; i++ {
		resp, _ := app.Test(httptest.NewRequest("POST", "/login", nil))
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d within burst got %d", i+1, resp.StatusCode)
		}
	}

	resp, _ := app.Test(httptest.NewRequest("POST", "/login", nil))
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Errorf("Expected request beyond burst to be limited, got %d", resp.StatusCode)
	}
}
