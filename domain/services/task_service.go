package services

import (
	"context"

	"github.com/google/uuid"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
)

// TaskService ทุก method รับ userID ของคนที่ login (request scoped)
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, userID uuid.UUID, taskID uint) (*models.Task, error)
	UpdateTask(ctx context.Context, userID uuid.UUID, taskID uint, req *dto.UpdateTaskRequest) (*models.Task, error)
	// ToggleTask สลับ completed และคืน task หลังสลับ
	ToggleTask(ctx context.Context, userID uuid.UUID, taskID uint) (*models.Task, error)
	DeleteTask(ctx context.Context, userID uuid.UUID, taskID uint) error
	ListUserTasks(ctx context.Context, userID uuid.UUID, req *dto.TaskFilterRequest) ([]*models.Task, error)
	// Dashboard tasks + categories + priority options + stats
	Dashboard(ctx context.Context, userID uuid.UUID, req *dto.TaskFilterRequest) (*dto.DashboardResponse, error)
}
