package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-todo/domain/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Category, error)
	// SlugExists ตรวจ slug ซ้ำภายใน user เดียวกัน (excludeID = 0 คือไม่ยกเว้น)
	SlugExists(ctx context.Context, userID uuid.UUID, slug string, excludeID uint) (bool, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	// ListByUserWithTaskCounts นับเฉพาะ task ของ user เดียวกัน เรียงตามชื่อ
	ListByUserWithTaskCounts(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	// ExistingIDs คืน id ที่มีอยู่จริง (ไม่สน owner)
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
	// OwnedIDs คืนเฉพาะ id ที่เป็นของ user
	OwnedIDs(ctx context.Context, userID uuid.UUID, ids []uint) ([]uint, error)
}
