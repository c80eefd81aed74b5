package routes

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-todo/interfaces/api/handlers"
)

func SetupCategoryRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	categories := api.Group("/categories", protected)

	categories.Get("/", h.CategoryHandler.ListCategories)             // หน้า categories พร้อม tasksCount
	categories.Post("/", h.CategoryHandler.CreateCategory)
	categories.Get("/slug/:slug", h.CategoryHandler.GetCategoryBySlug)
	categories.Get("/:id", h.CategoryHandler.GetCategory)
	categories.Patch("/:id", h.CategoryHandler.UpdateCategory)
	categories.Put("/:id", h.CategoryHandler.UpdateCategory)
	categories.Delete("/:id", h.CategoryHandler.DeleteCategory)
}
