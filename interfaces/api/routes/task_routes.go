package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-todo/interfaces/api/handlers"
)

func SetupDashboardRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	api.Get("/dashboard", protected, h.TaskHandler.Dashboard)
}

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	tasks := api.Group("/tasks", protected)
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Patch("/:id/toggle", h.TaskHandler.ToggleTask)
	tasks.Patch("/:id", h.TaskHandler.UpdateTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)
}
