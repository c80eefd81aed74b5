package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gofiber-todo/domain/models"
)

// TaskScope ตัวกรอง task ตามสถานะ
type TaskScope string

const (
	TaskScopeAll        TaskScope = "all"
	TaskScopeCompleted  TaskScope = "completed"
	TaskScopeIncomplete TaskScope = "incomplete"
	TaskScopeOverdue    TaskScope = "overdue"
	TaskScopeDueToday   TaskScope = "due_today"
)

func (s TaskScope) IsValid() bool {
	switch s {
	case TaskScopeAll, TaskScopeCompleted, TaskScopeIncomplete, TaskScopeOverdue, TaskScopeDueToday:
		return true
	}
	return false
}

type TaskFilter struct {
	Scope    TaskScope
	Priority models.Priority // 0 = ทุกระดับ
	Today    time.Time       // ใช้กับ overdue/due_today
}

type TaskRepository interface {
	// Create สร้าง task และ attach categories ใน transaction เดียว
	Create(ctx context.Context, task *models.Task, categoryIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*models.Task, error)
	// Update บันทึก field ของ task; categoryIDs != nil จะ sync association ด้วย
	Update(ctx context.Context, task *models.Task, categoryIDs *[]uint) error
	SetCompleted(ctx context.Context, id uint, completed bool, completedAt *time.Time) error
	Delete(ctx context.Context, id uint) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
