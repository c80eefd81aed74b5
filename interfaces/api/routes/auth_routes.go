package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-todo/interfaces/api/handlers"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, protected, optional, limiter fiber.Handler) {
	auth := api.Group("/auth")

	auth.Post("/register", limiter, h.AuthHandler.Register)
	auth.Post("/login", limiter, h.AuthHandler.Login)
	auth.Post("/logout", optional, h.AuthHandler.Logout)

	auth.Get("/me", protected, h.AuthHandler.Me)
}
