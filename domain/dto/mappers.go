package dto

import (
	"time"

	"gofiber-todo/domain/models"
)

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		TelegramChatID: user.TelegramChatID,
		Role:           user.Role,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func TaskToTaskResponse(task *models.Task, now time.Time) *TaskResponse {
	if task == nil {
		return nil
	}
	resp := &TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Completed:     task.Completed,
		Priority:      int(task.Priority),
		PriorityLabel: task.Priority.Label(),
		PriorityColor: task.Priority.Color(),
		CompletedAt:   task.CompletedAt,
		IsOverdue:     task.IsOverdue(now),
		Categories:    make([]TaskCategoryResponse, 0, len(task.Categories)),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
	if task.DueDate != nil {
		d := task.DueDate.Format(DateLayout)
		resp.DueDate = &d
	}
	for _, c := range task.Categories {
		resp.Categories = append(resp.Categories, TaskCategoryResponse{
			ID:    c.ID,
			Name:  c.Name,
			Slug:  c.Slug,
			Color: c.Color,
		})
	}
	return resp
}

func TasksToTaskResponses(tasks []*models.Task, now time.Time) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = *TaskToTaskResponse(task, now)
	}
	return responses
}

// CategoryToCategoryResponse withCount=true จะใส่ tasksCount ด้วย
func CategoryToCategoryResponse(category *models.Category, withCount bool) *CategoryResponse {
	if category == nil {
		return nil
	}
	resp := &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Color:       category.Color,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
	if withCount {
		count := category.TaskCount
		resp.TasksCount = &count
	}
	return resp
}

func CategoriesToCategoryResponses(categories []*models.Category, withCount bool) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		responses[i] = *CategoryToCategoryResponse(category, withCount)
	}
	return responses
}

// ComputeTaskStats นับสถิติจาก list ที่โหลดมาแล้ว
func ComputeTaskStats(tasks []*models.Task, now time.Time) TaskStats {
	stats := TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Incomplete++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.IsDueToday(now) && !t.Completed {
			stats.DueToday++
		}
	}
	return stats
}
