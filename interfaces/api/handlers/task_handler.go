package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
	"gofiber-todo/domain/services"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	req := parseTaskFilter(c, ctx, "dashboard")

	dashboard, err := h.taskService.Dashboard(ctx, user.ID, req)
	if err != nil {
		return respondError(c, ctx, "Dashboard", err)
	}
	return utils.SuccessResponse(c, dashboard)
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateTaskRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	task, err := h.taskService.CreateTask(ctx, user.ID, &req)
	if err != nil {
		return respondError(c, ctx, "Task creation", err)
	}

	resp, err := h.mutationResponse(c, user.ID, task)
	if err != nil {
		return respondError(c, ctx, "Task list reload", err)
	}
	return utils.CreatedMessageResponse(c, dto.MsgTaskCreated, resp)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	task, err := h.taskService.GetTask(ctx, user.ID, taskID)
	if err != nil {
		return respondError(c, ctx, "Get task", err)
	}
	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task, time.Now()))
}

func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	req := parseTaskFilter(c, ctx, "task list")

	tasks, err := h.taskService.ListUserTasks(ctx, user.ID, req)
	if err != nil {
		return respondError(c, ctx, "List tasks", err)
	}
	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks, time.Now()))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	// ownership ก่อน validation: task ของคนอื่นต้องได้ 403 เสมอ
	if _, err := h.taskService.GetTask(ctx, user.ID, taskID); err != nil {
		return respondError(c, ctx, "Task update", err)
	}

	var req dto.UpdateTaskRequest
	if ok, err := bindAndValidate(c, ctx, &req); !ok {
		return err
	}

	task, err := h.taskService.UpdateTask(ctx, user.ID, taskID, &req)
	if err != nil {
		return respondError(c, ctx, "Task update", err)
	}

	resp, err := h.mutationResponse(c, user.ID, task)
	if err != nil {
		return respondError(c, ctx, "Task list reload", err)
	}
	return utils.MessageResponse(c, dto.MsgTaskUpdated, resp)
}

func (h *TaskHandler) ToggleTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	task, err := h.taskService.ToggleTask(ctx, user.ID, taskID)
	if err != nil {
		return respondError(c, ctx, "Task toggle", err)
	}

	resp, err := h.mutationResponse(c, user.ID, task)
	if err != nil {
		return respondError(c, ctx, "Task list reload", err)
	}
	return utils.MessageResponse(c, dto.ToggleMessage(task.Completed), resp)
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	taskID, ok := parseID(c, "id")
	if !ok {
		return utils.NotFoundResponse(c, "Task not found")
	}

	if err := h.taskService.DeleteTask(ctx, user.ID, taskID); err != nil {
		return respondError(c, ctx, "Task deletion", err)
	}

	resp, err := h.mutationResponse(c, user.ID, nil)
	if err != nil {
		return respondError(c, ctx, "Task list reload", err)
	}
	return utils.MessageResponse(c, dto.MsgTaskDeleted, resp)
}

// mutationResponse task ที่เปลี่ยน + list ทั้งหมดของ user (client แทนที่ state ทั้งก้อน)
func (h *TaskHandler) mutationResponse(c *fiber.Ctx, userID uuid.UUID, task *models.Task) (*dto.TaskMutationResponse, error) {
	tasks, err := h.taskService.ListUserTasks(c.UserContext(), userID, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	resp := &dto.TaskMutationResponse{Tasks: dto.TasksToTaskResponses(tasks, now)}
	if task != nil {
		resp.Task = dto.TaskToTaskResponse(task, now)
	}
	return resp, nil
}

// parseTaskFilter query เสีย (เช่น ?priority=abc) ถือว่าไม่กรอง
func parseTaskFilter(c *fiber.Ctx, ctx context.Context, source string) *dto.TaskFilterRequest {
	var req dto.TaskFilterRequest
	if err := c.QueryParser(&req); err != nil {
		logger.DebugContext(ctx, "Ignoring malformed "+source+" query", "query", string(c.Request().URI().QueryString()), "error", err)
		return &dto.TaskFilterRequest{}
	}
	return &req
}
