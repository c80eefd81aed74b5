package handlers

import (
	"github.com/gofiber/fiber/v2"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.UpdateUserRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	updatedUser, err := h.userService.UpdateProfile(ctx, user.ID, &req)
	if err != nil {
		return respondError(c, ctx, "Profile update", err)
	}

	logger.InfoContext(ctx, "Profile updated", "user_id", user.ID)
	return utils.SuccessResponse(c, dto.UserToUserResponse(updatedUser))
}

// DeleteUser ลบบัญชีตัวเอง พร้อม task/category ทั้งหมด
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	if err := h.userService.DeleteUser(ctx, user.ID); err != nil {
		return respondError(c, ctx, "Delete user", err)
	}
	return utils.NoContentResponse(c)
}
