package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gofiber-todo/domain/models"
	"gofiber-todo/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return attachCategories(tx, task.ID, categoryIDs)
	})
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Categories", orderCategoriesByName).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, filter repositories.TaskFilter) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Scopes(taskFilterScopes(filter)...).
		Preload("Categories", orderCategoriesByName).
		Order("created_at DESC").
		Order("id DESC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task, categoryIDs *[]uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task.UpdatedAt = time.Now()
		err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"priority":    task.Priority,
			"due_date":    task.DueDate,
			"updated_at":  task.UpdatedAt,
		}).Error
		if err != nil {
			return err
		}

		// nil = ไม่แตะ association
		if categoryIDs == nil {
			return nil
		}
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskCategory{}).Error; err != nil {
			return err
		}
		return attachCategories(tx, task.ID, *categoryIDs)
	})
}

// SetCompleted อัปเดต completed กับ completed_at ใน statement เดียว
func (r *TaskRepositoryImpl) SetCompleted(ctx context.Context, id uint, completed bool, completedAt *time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
		"completed":    completed,
		"completed_at": completedAt,
		"updated_at":   time.Now(),
	}).Error
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Task{}).Error
	})
}

func (r *TaskRepositoryImpl) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ========== Scopes ==========

func ScopeCompleted(db *gorm.DB) *gorm.DB {
	return db.Where("completed = ?", true)
}

func ScopeIncomplete(db *gorm.DB) *gorm.DB {
	return db.Where("completed = ?", false)
}

// ScopeOverdue due_date < วันนี้ และยังไม่เสร็จ
func ScopeOverdue(today time.Time) func(*gorm.DB) *gorm.DB {
	start := models.StartOfDay(today)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("completed = ? AND due_date IS NOT NULL AND due_date < ?", false, start)
	}
}

// ScopeDueToday due_date วันนี้ และยังไม่เสร็จ (นับแบบเดียวกับ stats.dueToday)
func ScopeDueToday(today time.Time) func(*gorm.DB) *gorm.DB {
	start := models.StartOfDay(today)
	end := start.AddDate(0, 0, 1)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("completed = ? AND due_date >= ? AND due_date < ?", false, start, end)
	}
}

func ScopePriority(p models.Priority) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("priority = ?", p)
	}
}

func taskFilterScopes(filter repositories.TaskFilter) []func(*gorm.DB) *gorm.DB {
	today := filter.Today
	if today.IsZero() {
		today = time.Now()
	}

	var scopes []func(*gorm.DB) *gorm.DB
	switch filter.Scope {
	case repositories.TaskScopeCompleted:
		scopes = append(scopes, ScopeCompleted)
	case repositories.TaskScopeIncomplete:
		scopes = append(scopes, ScopeIncomplete)
	case repositories.TaskScopeOverdue:
		scopes = append(scopes, ScopeOverdue(today))
	case repositories.TaskScopeDueToday:
		scopes = append(scopes, ScopeDueToday(today))
	}
	if filter.Priority.IsValid() {
		scopes = append(scopes, ScopePriority(filter.Priority))
	}
	return scopes
}

// ========== Helpers ==========

func attachCategories(tx *gorm.DB, taskID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	now := time.Now()
	rows := make([]models.TaskCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, models.TaskCategory{TaskID: taskID, CategoryID: id, CreatedAt: now})
	}
	return tx.Omit(clause.Associations).Create(&rows).Error
}

func orderCategoriesByName(db *gorm.DB) *gorm.DB {
	return db.Order("categories.name ASC")
}
