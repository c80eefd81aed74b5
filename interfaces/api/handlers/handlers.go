package handlers

import (
	"gofiber-todo/domain/services"
)

// Services contains all the services needed for handlers
type Services struct {
	UserService     services.UserService
	TaskService     services.TaskService
	CategoryService services.CategoryService
	AuthCookie      CookieConfig
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler     *AuthHandler
	UserHandler     *UserHandler
	TaskHandler     *TaskHandler
	CategoryHandler *CategoryHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:     NewAuthHandler(services.UserService, services.AuthCookie),
		UserHandler:     NewUserHandler(services.UserService),
		TaskHandler:     NewTaskHandler(services.TaskService),
		CategoryHandler: NewCategoryHandler(services.CategoryService),
	}
}
