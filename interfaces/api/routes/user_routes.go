package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-todo/interfaces/api/handlers"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	users := api.Group("/users", protected)
	users.Put("/profile", h.UserHandler.UpdateProfile)
	users.Delete("/profile", h.UserHandler.DeleteUser)
}
