package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

// respondError map error ของ service เป็น HTTP response
func respondError(c *fiber.Ctx, ctx context.Context, op string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.WarnContext(ctx, op+" validation failed", "errors", verr.Fields)
		return utils.ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, services.ErrTaskNotFound):
		return utils.NotFoundResponse(c, "Task not found")
	case errors.Is(err, services.ErrCategoryNotFound):
		return utils.NotFoundResponse(c, "Category not found")
	case errors.Is(err, services.ErrUserNotFound):
		return utils.NotFoundResponse(c, "User not found")
	case errors.Is(err, services.ErrForbidden):
		return utils.ForbiddenResponse(c, "This action is unauthorized.")
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
		return utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrAccountDisabled):
		return utils.UnauthorizedResponse(c, err.Error())
	default:
		logger.ErrorContext(ctx, op+" failed", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
}

// parseID id ของ task/category เป็นเลขบวก
func parseID(c *fiber.Ctx, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || value == 0 {
		return 0, false
	}
	return uint(value), true
}

// bindAndValidate BodyParser + ValidateStruct; คืน false ถ้าตอบ error ไปแล้ว
func bindAndValidate(c *fiber.Ctx, ctx context.Context, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return false, utils.BadRequestResponse(c, "Invalid request body")
	}
	if n, ok := req.(dto.Normalizer); ok {
		n.Normalize()
	}

	if err := utils.ValidateStruct(req); err != nil {
		validationErrors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", validationErrors)
		return false, utils.ValidationErrorResponse(c, validationErrors)
	}
	return true, nil
}
