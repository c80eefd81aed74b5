package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
)

// TaskAPI ส่วนของ apiclient.Client ที่ TaskStore ใช้
type TaskAPI interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskMutationResponse, string, error)
	UpdateTask(ctx context.Context, id uint, req *dto.UpdateTaskRequest) (*dto.TaskMutationResponse, string, error)
	ToggleTask(ctx context.Context, id uint) (*dto.TaskMutationResponse, string, error)
	DeleteTask(ctx context.Context, id uint) (*dto.TaskMutationResponse, string, error)
}

type TaskFilter string

const (
	TaskFilterAll        TaskFilter = "all"
	TaskFilterCompleted  TaskFilter = "completed"
	TaskFilterIncomplete TaskFilter = "incomplete"
	TaskFilterOverdue    TaskFilter = "overdue"
)

type TaskSortField string

const (
	SortByCreatedAt TaskSortField = "created_at"
	SortByDueDate   TaskSortField = "due_date"
	SortByPriority  TaskSortField = "priority"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	msgTaskCreateFailed = "Failed to create task"
	msgTaskUpdateFailed = "Failed to update task"
	msgTaskDeleteFailed = "Failed to delete task"
)

type TaskStats struct {
	Total      int
	Completed  int
	Incomplete int
	Overdue    int
}

// TaskStore optimistic state ของ task list
// lock ไม่ถูกถือระหว่างเรียก API; mutation ที่ซ้อนกันตัวหลังสุดชนะ
type TaskStore struct {
	api           TaskAPI
	notifications *NotificationQueue

	mu              sync.Mutex
	tasks           []dto.TaskResponse
	priorityOptions []models.PriorityOption
	pending         int
	nextTempID      uint
	filter          TaskFilter
	sortBy          TaskSortField
	sortOrder       SortOrder
	now             func() time.Time
}

// NewTaskStore notifications = nil สร้างคิวใหม่
func NewTaskStore(api TaskAPI, notifications *NotificationQueue) *TaskStore {
	if notifications == nil {
		notifications = NewNotificationQueue()
	}
	return &TaskStore{
		api:           api,
		notifications: notifications,
		nextTempID:    ^uint(0),
		filter:        TaskFilterAll,
		sortBy:        SortByCreatedAt,
		sortOrder:     SortDesc,
		now:           time.Now,
	}
}

// Initialize ใส่ state จาก dashboard
func (s *TaskStore) Initialize(tasks []dto.TaskResponse, options []models.PriorityOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cloneTasks(tasks)
	s.priorityOptions = append([]models.PriorityOption(nil), options...)
}

func (s *TaskStore) Notifications() *NotificationQueue {
	return s.notifications
}

func (s *TaskStore) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

func (s *TaskStore) Tasks() []dto.TaskResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// ========== Mutations ==========

// Create ใส่ placeholder ไว้บนสุดก่อน แล้วแทนด้วย list จาก server
func (s *TaskStore) Create(ctx context.Context, req *dto.CreateTaskRequest) Result[dto.TaskResponse] {
	s.mu.Lock()
	now := s.now()
	placeholder := dto.TaskResponse{
		ID:            s.tempIDLocked(),
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		PriorityLabel: s.priorityLabelLocked(req.Priority),
		PriorityColor: models.Priority(req.Priority).Color(),
		DueDate:       req.DueDate,
		Categories:    []dto.TaskCategoryResponse{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.tasks = append([]dto.TaskResponse{placeholder}, s.tasks...)
	s.pending++
	s.mu.Unlock()

	resp, message, err := s.api.CreateTask(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if err != nil {
		if i := s.indexLocked(placeholder.ID); i >= 0 {
			s.tasks = removeAt(s.tasks, i)
		}
		s.notifications.Error(msgTaskCreateFailed)
		return RolledBack[dto.TaskResponse]{Items: cloneTasks(s.tasks), Err: err}
	}

	s.tasks = cloneTasks(resp.Tasks)
	s.notifications.Success(orDefault(message, dto.MsgTaskCreated))
	return Committed[dto.TaskResponse]{Items: cloneTasks(s.tasks)}
}

func (s *TaskStore) Update(ctx context.Context, id uint, req *dto.UpdateTaskRequest) Result[dto.TaskResponse] {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		defer s.mu.Unlock()
		return RolledBack[dto.TaskResponse]{Items: cloneTasks(s.tasks), Err: ErrNotInStore}
	}

	original := cloneTask(s.tasks[index])
	patched := cloneTask(original)
	patched.Title = req.Title
	patched.Priority = req.Priority
	patched.PriorityLabel = s.priorityLabelLocked(req.Priority)
	patched.PriorityColor = models.Priority(req.Priority).Color()
	if req.Description != nil {
		patched.Description = emptyToNil(req.Description)
	}
	if req.DueDate != nil {
		patched.DueDate = emptyToNil(req.DueDate)
	}
	patched.UpdatedAt = s.now()
	s.tasks[index] = patched
	s.pending++
	s.mu.Unlock()

	resp, message, err := s.api.UpdateTask(ctx, id, req)
	return s.finish(resp, message, err, dto.MsgTaskUpdated, msgTaskUpdateFailed, func() {
		s.restoreLocked(original, index)
	})
}

// Toggle สลับ completed + completed_at ก่อนรอ server
func (s *TaskStore) Toggle(ctx context.Context, id uint) Result[dto.TaskResponse] {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		defer s.mu.Unlock()
		return RolledBack[dto.TaskResponse]{Items: cloneTasks(s.tasks), Err: ErrNotInStore}
	}

	original := cloneTask(s.tasks[index])
	patched := cloneTask(original)
	now := s.now()
	patched.Completed = !original.Completed
	patched.CompletedAt = nil
	if patched.Completed {
		patched.CompletedAt = &now
	}
	patched.UpdatedAt = now
	s.tasks[index] = patched
	s.pending++
	s.mu.Unlock()

	resp, message, err := s.api.ToggleTask(ctx, id)
	return s.finish(resp, message, err, dto.ToggleMessage(patched.Completed), msgTaskUpdateFailed, func() {
		s.restoreLocked(original, index)
	})
}

// Delete ลบออกก่อน ถ้าล้มเหลวใส่คืนที่ index เดิม
func (s *TaskStore) Delete(ctx context.Context, id uint) Result[dto.TaskResponse] {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		defer s.mu.Unlock()
		return RolledBack[dto.TaskResponse]{Items: cloneTasks(s.tasks), Err: ErrNotInStore}
	}

	removed := s.tasks[index]
	s.tasks = removeAt(s.tasks, index)
	s.pending++
	s.mu.Unlock()

	resp, message, err := s.api.DeleteTask(ctx, id)
	return s.finish(resp, message, err, dto.MsgTaskDeleted, msgTaskDeleteFailed, func() {
		s.tasks = insertAt(s.tasks, index, removed)
	})
}

func (s *TaskStore) finish(resp *dto.TaskMutationResponse, message string, err error, successMsg, failureMsg string, rollback func()) Result[dto.TaskResponse] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if err != nil {
		rollback()
		s.notifications.Error(failureMsg)
		return RolledBack[dto.TaskResponse]{Items: cloneTasks(s.tasks), Err: err}
	}

	if resp != nil {
		s.tasks = cloneTasks(resp.Tasks)
	}
	s.notifications.Success(orDefault(message, successMsg))
	return Committed[dto.TaskResponse]{Items: cloneTasks(s.tasks)}
}

// restoreLocked คืนค่าเดิมตาม id; ถ้าถูกลบไประหว่างนั้นใส่กลับที่ index เดิม
func (s *TaskStore) restoreLocked(original dto.TaskResponse, index int) {
	if i := s.indexLocked(original.ID); i >= 0 {
		s.tasks[i] = original
		return
	}
	s.tasks = insertAt(s.tasks, index, original)
}

// ========== Getters ==========

func (s *TaskStore) SetFilter(filter TaskFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch filter {
	case TaskFilterCompleted, TaskFilterIncomplete, TaskFilterOverdue:
		s.filter = filter
	default:
		s.filter = TaskFilterAll
	}
}

func (s *TaskStore) SetSorting(field TaskSortField, order SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = field
	s.sortOrder = order
}

// Filtered task ตาม filter + sort ปัจจุบัน
func (s *TaskStore) Filtered() []dto.TaskResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := models.StartOfDay(s.now())
	var out []dto.TaskResponse
	for _, t := range s.tasks {
		switch s.filter {
		case TaskFilterCompleted:
			if !t.Completed {
				continue
			}
		case TaskFilterIncomplete:
			if t.Completed {
				continue
			}
		case TaskFilterOverdue:
			if !isOverdue(t, today) {
				continue
			}
		}
		out = append(out, cloneTask(t))
	}

	key := sortKey(s.sortBy)
	desc := s.sortOrder != SortAsc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return key(out[i]) > key(out[j])
		}
		return key(out[i]) < key(out[j])
	})
	return out
}

func (s *TaskStore) Stats() TaskStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := models.StartOfDay(s.now())
	stats := TaskStats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Incomplete++
		}
		if isOverdue(t, today) {
			stats.Overdue++
		}
	}
	return stats
}

// PriorityLabel จาก priority options ที่ได้จาก server ("Unknown" ถ้าไม่มี)
func (s *TaskStore) PriorityLabel(priority int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.priorityLabelLocked(priority)
}

func (s *TaskStore) PriorityColor(priority int) string {
	return models.Priority(priority).Color()
}

func (s *TaskStore) priorityLabelLocked(priority int) string {
	for _, opt := range s.priorityOptions {
		if int(opt.Value) == priority {
			return opt.Label
		}
	}
	return "Unknown"
}

func (s *TaskStore) indexLocked(id uint) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// tempIDLocked id ชั่วคราวนับถอยหลังจาก max uint ไม่ชนกับ id จริง
func (s *TaskStore) tempIDLocked() uint {
	id := s.nextTempID
	s.nextTempID--
	return id
}

func isOverdue(t dto.TaskResponse, today time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	due, err := time.Parse("2006-01-02", *t.DueDate)
	if err != nil {
		return false
	}
	return due.Before(today)
}

// sortKey due_date ว่างนับเป็น 0 (ไปท้ายเมื่อเรียง desc)
func sortKey(field TaskSortField) func(dto.TaskResponse) int64 {
	switch field {
	case SortByDueDate:
		return func(t dto.TaskResponse) int64 {
			if t.DueDate == nil {
				return 0
			}
			due, err := time.Parse("2006-01-02", *t.DueDate)
			if err != nil {
				return 0
			}
			return due.Unix()
		}
	case SortByPriority:
		return func(t dto.TaskResponse) int64 { return int64(t.Priority) }
	default:
		return func(t dto.TaskResponse) int64 { return t.CreatedAt.UnixNano() }
	}
}

func cloneTask(t dto.TaskResponse) dto.TaskResponse {
	t.Categories = append([]dto.TaskCategoryResponse(nil), t.Categories...)
	return t
}

func cloneTasks(tasks []dto.TaskResponse) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := *value
	return &v
}

func orDefault(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// insertAt index เกินความยาวจะต่อท้าย
func insertAt[T any](items []T, i int, item T) []T {
	if i > len(items) {
		i = len(items)
	}
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, item)
	return append(out, items[i:]...)
}
