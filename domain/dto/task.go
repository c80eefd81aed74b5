package dto

import (
	"strings"
	"time"

	"gofiber-todo/domain/models"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Priority    int     `json:"priority" validate:"required,oneof=1 2 3"`
	DueDate     *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Categories  []uint  `json:"categories" validate:"omitempty,dive,gt=0"`
}

// UpdateTaskRequest
// description/dueDate: nil = ไม่แก้, "" = ล้างค่า
// categories: nil = ไม่แตะ association, [] = ถอดทั้งหมด
type UpdateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	Priority    int     `json:"priority" validate:"required,oneof=1 2 3"`
	DueDate     *string `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Categories  *[]uint `json:"categories" validate:"omitempty,dive,gt=0"`
}

func (r *CreateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *UpdateTaskRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

// TaskFilterRequest ค่าที่ไม่รู้จักจะถูกมองข้าม (ไม่ error)
type TaskFilterRequest struct {
	Filter   string `query:"filter"`
	Priority int    `query:"priority"`
}

type TaskCategoryResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

type TaskResponse struct {
	ID            uint                   `json:"id"`
	Title         string                 `json:"title"`
	Description   *string                `json:"description"`
	Completed     bool                   `json:"completed"`
	Priority      int                    `json:"priority"`
	PriorityLabel string                 `json:"priorityLabel"`
	PriorityColor string                 `json:"priorityColor"`
	DueDate       *string                `json:"dueDate"`
	CompletedAt   *time.Time             `json:"completedAt"`
	IsOverdue     bool                   `json:"isOverdue"`
	Categories    []TaskCategoryResponse `json:"categories"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}

// TaskMutationResponse ผลของการแก้ไข task พร้อม list ล่าสุดของ user
// client ใช้ tasks แทนที่ state ทั้งก้อน
type TaskMutationResponse struct {
	Task  *TaskResponse  `json:"task,omitempty"`
	Tasks []TaskResponse `json:"tasks"`
}

type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Incomplete int `json:"incomplete"`
	Overdue    int `json:"overdue"`
	DueToday   int `json:"dueToday"`
}

type DashboardResponse struct {
	Tasks           []TaskResponse          `json:"tasks"`
	Categories      []CategoryResponse      `json:"categories"`
	PriorityOptions []models.PriorityOption `json:"priorityOptions"`
	Stats           TaskStats               `json:"stats"`
	Filter          string                  `json:"filter"`
}
