package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

type CategoryHandler struct {
	categoryService services.CategoryService
}

func NewCategoryHandler(categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories หน้า categories: เรียงตามชื่อ พร้อม tasksCount
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	categories, err := h.categoryService.ListWithTaskCounts(ctx, user.ID)
	if err != nil {
		return respondError(c, ctx, "List categories", err)
	}
	return utils.SuccessResponse(c, dto.CategoryListResponse{Categories: categories})
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateCategoryRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	category, err := h.categoryService.Create(ctx, user.ID, &req)
	if err != nil {
		return respondError(c, ctx, "Category creation", err)
	}

	logger.InfoContext(ctx, "Category created", "category_id", category.ID, "slug", category.Slug)
	return utils.CreatedMessageResponse(c, dto.MsgCategoryCreated, dto.CategoryToCategoryResponse(category, false))
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Category not found")
	}

	category, err := h.categoryService.GetByID(ctx, user.ID, id)
	if err != nil {
		return respondError(c, ctx, "Get category", err)
	}
	return utils.SuccessResponse(c, dto.CategoryToCategoryResponse(category, false))
}

func (h *CategoryHandler) GetCategoryBySlug(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	category, err := h.categoryService.GetBySlug(ctx, user.ID, c.Params("slug"))
	if err != nil {
		return respondError(c, ctx, "Get category by slug", err)
	}
	return utils.SuccessResponse(c, dto.CategoryToCategoryResponse(category, false))
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Category not found")
	}

	// ownership ก่อน validation
	if _, err := h.categoryService.GetByID(ctx, user.ID, id); err != nil {
		return respondError(c, ctx, "Category update", err)
	}

	var req dto.UpdateCategoryRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	category, err := h.categoryService.Update(ctx, user.ID, id, &req)
	if err != nil {
		return respondError(c, ctx, "Category update", err)
	}
	return utils.MessageResponse(c, dto.MsgCategoryUpdated, dto.CategoryToCategoryResponse(category, false))
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Category not found")
	}

	if err := h.categoryService.Delete(ctx, user.ID, id); err != nil {
		return respondError(c, ctx, "Category deletion", err)
	}
	return utils.MessageResponse(c, dto.MsgCategoryDeleted, nil)
}
