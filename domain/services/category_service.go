package services

import (
	"context"

	"github.com/google/uuid"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
)

type CategoryService interface {
	// Create สร้าง category ใหม่ พร้อม slug ที่ไม่ซ้ำภายใน user
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error)

	// GetByID ดึง category ของ user (404 ก่อน 403)
	GetByID(ctx context.Context, userID uuid.UUID, id uint) (*models.Category, error)

	// GetBySlug ดึง category ตาม slug ของ user
	GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Category, error)

	// Update แก้ไขบาง field; เปลี่ยนชื่อแล้ว slug คำนวณใหม่
	Update(ctx context.Context, userID uuid.UUID, id uint, req *dto.UpdateCategoryRequest) (*models.Category, error)

	// Delete ลบ category (task ไม่ถูกลบ)
	Delete(ctx context.Context, userID uuid.UUID, id uint) error

	// List categories ของ user เรียงตามชื่อ
	List(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)

	// ListWithTaskCounts หน้า categories พร้อม tasksCount
	ListWithTaskCounts(ctx context.Context, userID uuid.UUID) ([]dto.CategoryResponse, error)
}
