package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
	"gofiber-todo/domain/ports"
	"gofiber-todo/domain/repositories"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
)

type CategoryServiceImpl struct {
	categoryRepo repositories.CategoryRepository
	events       ports.EventPublisherPort
	cache        ports.CachePort
}

// NewCategoryService events/cache เป็น nil ได้ (เช่นตอน test หรือไม่ได้ต่อ NATS/Redis)
func NewCategoryService(categoryRepo repositories.CategoryRepository, events ports.EventPublisherPort, cache ports.CachePort) services.CategoryService {
	return &CategoryServiceImpl{
		categoryRepo: categoryRepo,
		events:       events,
		cache:        cache,
	}
}

func (s *CategoryServiceImpl) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, services.NewValidationError("name", "The name field is required.")
	}

	now := time.Now()
	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Description: normalizeOptional(req.Description),
		Color:       req.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.withUniqueSlug(ctx, userID, category.Name, 0, func(slug string) error {
		category.ID = 0
		category.Slug = slug
		return s.categoryRepo.Create(ctx, category)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create category", "user_id", userID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Category created", "category_id", category.ID, "slug", category.Slug, "user_id", userID)

	invalidateCategoryView(ctx, s.cache, userID)
	publishEvent(ctx, s.events, ports.EventCategoryCreated, userID, category.ID, dto.MsgCategoryCreated, map[string]any{
		"category": dto.CategoryToCategoryResponse(category, false),
	})

	return category, nil
}

func (s *CategoryServiceImpl) GetByID(ctx context.Context, userID uuid.UUID, id uint) (*models.Category, error) {
	return s.findOwnedCategory(ctx, userID, id)
}

func (s *CategoryServiceImpl) GetBySlug(ctx context.Context, userID uuid.UUID, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, userID, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnContext(ctx, "Category not found", "slug", slug, "user_id", userID)
			return nil, services.ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryServiceImpl) Update(ctx context.Context, userID uuid.UUID, id uint, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.findOwnedCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// ส่ง name มาแต่ว่าง ไม่ใช่ "ไม่แก้"
	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, services.NewValidationError("name", "The name field is required.")
		}
		name = &trimmed
	}
	if req.Description != nil {
		category.Description = normalizeOptional(req.Description)
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	category.UpdatedAt = time.Now()

	// slug เปลี่ยนเฉพาะตอนชื่อเปลี่ยนจริง
	if name != nil && *name != category.Name {
		category.Name = *name
		err = s.withUniqueSlug(ctx, userID, category.Name, category.ID, func(slug string) error {
			category.Slug = slug
			return s.categoryRepo.Update(ctx, category)
		})
	} else {
		err = s.categoryRepo.Update(ctx, category)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to update category", "category_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Category updated", "category_id", category.ID, "slug", category.Slug)

	invalidateCategoryView(ctx, s.cache, userID)
	publishEvent(ctx, s.events, ports.EventCategoryUpdated, userID, category.ID, dto.MsgCategoryUpdated, map[string]any{
		"category": dto.CategoryToCategoryResponse(category, false),
	})

	return category, nil
}

func (s *CategoryServiceImpl) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	category, err := s.findOwnedCategory(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(ctx, category.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete category", "category_id", id, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Category deleted", "category_id", id, "user_id", userID)

	invalidateCategoryView(ctx, s.cache, userID)
	publishEvent(ctx, s.events, ports.EventCategoryDeleted, userID, id, dto.MsgCategoryDeleted, nil)

	return nil
}

func (s *CategoryServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*models.Category, error) {
	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list categories", "user_id", userID, "error", err)
		return nil, err
	}
	return categories, nil
}

func (s *CategoryServiceImpl) ListWithTaskCounts(ctx context.Context, userID uuid.UUID) ([]dto.CategoryResponse, error) {
	load := func() (interface{}, error) {
		categories, err := s.categoryRepo.ListByUserWithTaskCounts(ctx, userID)
		if err != nil {
			return nil, err
		}
		return dto.CategoriesToCategoryResponses(categories, true), nil
	}

	if s.cache == nil {
		result, err := load()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to list categories with counts", "user_id", userID, "error", err)
			return nil, err
		}
		return result.([]dto.CategoryResponse), nil
	}

	var responses []dto.CategoryResponse
	loaded := false
	tracked := func() (interface{}, error) {
		loaded = true
		return load()
	}
	if err := s.cache.GetOrSet(ctx, CategoryViewCacheKey(userID), &responses, categoryViewTTL, tracked); err != nil {
		if loaded {
			logger.ErrorContext(ctx, "Failed to list categories with counts", "user_id", userID, "error", err)
			return nil, err
		}
		// cache ใช้ไม่ได้ อ่านจาก DB ตรงๆ
		logger.WarnContext(ctx, "Category view cache unavailable", "user_id", userID, "error", err)
		result, err := load()
		if err != nil {
			logger.ErrorContext(ctx, "Failed to list categories with counts", "user_id", userID, "error", err)
			return nil, err
		}
		responses = result.([]dto.CategoryResponse)
	}
	if responses == nil {
		responses = []dto.CategoryResponse{}
	}
	return responses, nil
}

// findOwnedCategory 404 ก่อน แล้วค่อย 403
func (s *CategoryServiceImpl) findOwnedCategory(ctx context.Context, userID uuid.UUID, id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnContext(ctx, "Category not found", "category_id", id)
			return nil, services.ErrCategoryNotFound
		}
		return nil, err
	}
	if !category.BelongsTo(userID) {
		logger.WarnContext(ctx, "Category access denied", "category_id", id, "user_id", userID)
		return nil, services.ErrForbidden
	}
	return category, nil
}

// withUniqueSlug หา slug ที่ว่างแล้วเรียก save; ถ้าชน unique index (race) หาใหม่แล้วลองอีกครั้ง
func (s *CategoryServiceImpl) withUniqueSlug(ctx context.Context, userID uuid.UUID, name string, excludeID uint, save func(slug string) error) error {
	var lastErr error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := UniqueSlug(ctx, s.categoryRepo, userID, name, excludeID)
		if err != nil {
			return err
		}

		lastErr = save(slug)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return lastErr
		}
		logger.WarnContext(ctx, "Category slug taken concurrently, retrying", "slug", slug, "attempt", attempt+1)
	}
	return lastErr
}

// normalizeOptional "" หรือช่องว่างล้วนถือว่าไม่มีค่า
func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
