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

type CategoryRepositoryImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("user_id = ? AND slug = ?", userID, slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) SlugExists(ctx context.Context, userID uuid.UUID, slug string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("user_id = ? AND slug = ?", userID, slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *models.Category) error {
	category.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(category).
		Select("name", "slug", "description", "color", "updated_at").
		Updates(category).Error
}

// Delete ถอด category ออกจาก task ทั้งหมดก่อน แล้วค่อยลบ (task ยังอยู่)
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.TaskCategory{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Category{}).Error
	})
}

func (r *CategoryRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Order("id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) ListByUserWithTaskCounts(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	counts := r.db.Table("task_categories").
		Select("COUNT(*)").
		Joins("JOIN tasks ON tasks.id = task_categories.task_id").
		Where("task_categories.category_id = categories.id AND tasks.user_id = categories.user_id")

	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.*, (?) AS task_count", counts).
		Where("categories.user_id = ?", userID).
		Order("categories.name ASC").
		Order("categories.id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	var found []uint
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (r *CategoryRepositoryImpl) OwnedIDs(ctx context.Context, userID uuid.UUID, ids []uint) ([]uint, error) {
	var owned []uint
	if len(ids) == 0 {
		return owned, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Order("id ASC").
		Pluck("id", &owned).Error
	return owned, err
}
