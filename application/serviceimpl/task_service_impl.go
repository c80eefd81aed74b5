package serviceimpl

import (
	"context"
	"errors"
	"fmt"
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

type TaskServiceImpl struct {
	taskRepo     repositories.TaskRepository
	categoryRepo repositories.CategoryRepository
	events       ports.EventPublisherPort
	cache        ports.CachePort
	now          func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, categoryRepo repositories.CategoryRepository, events ports.EventPublisherPort, cache ports.CachePort) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		events:       events,
		cache:        cache,
		now:          time.Now,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	title, err := requiredTitle(req.Title)
	if err != nil {
		return nil, err
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	categoryIDs, err := s.resolveCategoryIDs(ctx, userID, req.Categories)
	if err != nil {
		return nil, err
	}

	now := s.now()
	task := &models.Task{
		UserID:      userID,
		Title:       title,
		Description: normalizeOptional(req.Description),
		Priority:    models.Priority(req.Priority),
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task, categoryIDs); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "user_id", userID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task created successfully", "task_id", task.ID, "user_id", userID, "categories", len(categoryIDs))

	return s.afterMutation(ctx, userID, task.ID, ports.EventTaskCreated, dto.MsgTaskCreated)
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, userID uuid.UUID, taskID uint) (*models.Task, error) {
	return s.findOwnedTask(ctx, userID, taskID)
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, userID uuid.UUID, taskID uint, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.findOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	title, err := requiredTitle(req.Title)
	if err != nil {
		return nil, err
	}
	task.Title = title
	task.Priority = models.Priority(req.Priority)
	if req.Description != nil {
		task.Description = normalizeOptional(req.Description)
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	var categoryIDs *[]uint
	if req.Categories != nil {
		ids, err := s.resolveCategoryIDs(ctx, userID, *req.Categories)
		if err != nil {
			return nil, err
		}
		categoryIDs = &ids
	}

	if err := s.taskRepo.Update(ctx, task, categoryIDs); err != nil {
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task updated", "task_id", taskID, "user_id", userID)

	return s.afterMutation(ctx, userID, task.ID, ports.EventTaskUpdated, dto.MsgTaskUpdated)
}

func (s *TaskServiceImpl) ToggleTask(ctx context.Context, userID uuid.UUID, taskID uint) (*models.Task, error) {
	task, err := s.findOwnedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if task.Completed {
		task.MarkIncomplete()
	} else {
		task.MarkCompleted(s.now())
	}

	if err := s.taskRepo.SetCompleted(ctx, task.ID, task.Completed, task.CompletedAt); err != nil {
		logger.ErrorContext(ctx, "Failed to toggle task", "task_id", taskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Task toggled", "task_id", taskID, "completed", task.Completed)

	return s.afterMutation(ctx, userID, task.ID, ports.EventTaskToggled, dto.ToggleMessage(task.Completed))
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID uuid.UUID, taskID uint) error {
	task, err := s.findOwnedTask(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID, "user_id", userID)

	invalidateCategoryView(ctx, s.cache, userID)
	publishEvent(ctx, s.events, ports.EventTaskDeleted, userID, taskID, dto.MsgTaskDeleted, nil)
	return nil
}

func (s *TaskServiceImpl) ListUserTasks(ctx context.Context, userID uuid.UUID, req *dto.TaskFilterRequest) ([]*models.Task, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, userID, s.buildFilter(req))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "user_id", userID, "error", err)
		return nil, err
	}
	return tasks, nil
}

func (s *TaskServiceImpl) Dashboard(ctx context.Context, userID uuid.UUID, req *dto.TaskFilterRequest) (*dto.DashboardResponse, error) {
	now := s.now()

	// stats คิดจาก task ทั้งหมดเสมอ ไม่ขึ้นกับ filter
	all, err := s.taskRepo.ListByUser(ctx, userID, repositories.TaskFilter{Scope: repositories.TaskScopeAll})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load dashboard tasks", "user_id", userID, "error", err)
		return nil, err
	}

	filter := s.buildFilter(req)
	tasks := all
	if filter.Scope != repositories.TaskScopeAll || filter.Priority != 0 {
		tasks, err = s.taskRepo.ListByUser(ctx, userID, filter)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to load filtered tasks", "user_id", userID, "filter", filter.Scope, "error", err)
			return nil, err
		}
	}

	categories, err := s.categoryRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load dashboard categories", "user_id", userID, "error", err)
		return nil, err
	}

	return &dto.DashboardResponse{
		Tasks:           dto.TasksToTaskResponses(tasks, now),
		Categories:      dto.CategoriesToCategoryResponses(categories, false),
		PriorityOptions: models.PriorityOptions(),
		Stats:           dto.ComputeTaskStats(all, now),
		Filter:          string(filter.Scope),
	}, nil
}

// findOwnedTask 404 ก่อน แล้วค่อย 403
func (s *TaskServiceImpl) findOwnedTask(ctx context.Context, userID uuid.UUID, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WarnContext(ctx, "Task not found", "task_id", taskID)
			return nil, services.ErrTaskNotFound
		}
		return nil, err
	}
	if !task.BelongsTo(userID) {
		logger.WarnContext(ctx, "Task access denied", "task_id", taskID, "user_id", userID)
		return nil, services.ErrForbidden
	}
	return task, nil
}

// resolveCategoryIDs
// id ที่ไม่มีในระบบเลย -> validation error (categories.N)
// id ที่มีแต่เป็นของ user อื่น -> ทิ้งเงียบๆ
func (s *TaskServiceImpl) resolveCategoryIDs(ctx context.Context, userID uuid.UUID, requested []uint) ([]uint, error) {
	if len(requested) == 0 {
		return []uint{}, nil
	}

	existing, err := s.categoryRepo.ExistingIDs(ctx, requested)
	if err != nil {
		return nil, err
	}
	existingSet := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}

	var verr *services.ValidationError
	for i, id := range requested {
		if _, ok := existingSet[id]; !ok {
			field := fmt.Sprintf("categories.%d", i)
			if verr == nil {
				verr = services.NewValidationError(field, fmt.Sprintf("The selected %s is invalid.", field))
			} else {
				verr.Add(field, fmt.Sprintf("The selected %s is invalid.", field))
			}
		}
	}
	if verr != nil {
		return nil, verr
	}

	owned, err := s.categoryRepo.OwnedIDs(ctx, userID, requested)
	if err != nil {
		return nil, err
	}
	ownedSet := make(map[uint]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	// คงลำดับตามที่ส่งมา ตัดตัวซ้ำ
	result := make([]uint, 0, len(owned))
	seen := make(map[uint]struct{}, len(owned))
	for _, id := range requested {
		if _, ok := ownedSet[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result, nil
}

func (s *TaskServiceImpl) buildFilter(req *dto.TaskFilterRequest) repositories.TaskFilter {
	filter := repositories.TaskFilter{
		Scope: repositories.TaskScopeAll,
		Today: models.StartOfDay(s.now()),
	}
	if req == nil {
		return filter
	}
	// filter ที่ไม่รู้จักถือว่าเป็น all
	if scope := repositories.TaskScope(req.Filter); scope.IsValid() {
		filter.Scope = scope
	}
	if models.Priority(req.Priority).IsValid() {
		filter.Priority = models.Priority(req.Priority)
	}
	return filter
}

// afterMutation โหลด task ใหม่ (พร้อม categories) แล้วแจ้ง cache/event
func (s *TaskServiceImpl) afterMutation(ctx context.Context, userID uuid.UUID, taskID uint, eventType, message string) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to reload task", "task_id", taskID, "error", err)
		return nil, err
	}

	invalidateCategoryView(ctx, s.cache, userID)
	publishEvent(ctx, s.events, eventType, userID, task.ID, message, map[string]any{
		"task": dto.TaskToTaskResponse(task, s.now()),
	})
	return task, nil
}

// parseDueDate nil หรือ "" = ไม่มีกำหนด
func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(dto.DateLayout, *value, time.UTC)
	if err != nil {
		return nil, services.NewValidationError("dueDate", "The due date field must be a valid date.")
	}
	return &parsed, nil
}

func requiredTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", services.NewValidationError("title", "The title field is required.")
	}
	return trimmed, nil
}
