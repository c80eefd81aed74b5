package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"gofiber-todo/domain/dto"
	"gofiber-todo/pkg/utils"
)

// CategoryAPI ส่วนของ apiclient.Client ที่ CategoryStore ใช้
type CategoryAPI interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, string, error)
	UpdateCategory(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, string, error)
	DeleteCategory(ctx context.Context, id uint) (string, error)
}

const (
	msgCategoryCreateFailed = "Failed to create category. Please try again."
	msgCategoryUpdateFailed = "Failed to update category. Please try again."
	msgCategoryDeleteFailed = "Failed to delete category. Please try again."
)

// CategoryStore ต่างจาก TaskStore ตรงที่ success จะ patch เฉพาะตัวที่แก้
type CategoryStore struct {
	api           CategoryAPI
	notifications *NotificationQueue

	mu         sync.Mutex
	categories []dto.CategoryResponse
	pending    int
	nextTempID uint
	now        func() time.Time
}

func NewCategoryStore(api CategoryAPI, notifications *NotificationQueue) *CategoryStore {
	if notifications == nil {
		notifications = NewNotificationQueue()
	}
	return &CategoryStore{
		api:           api,
		notifications: notifications,
		nextTempID:    ^uint(0),
		now:           time.Now,
	}
}

func (s *CategoryStore) Initialize(categories []dto.CategoryResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = cloneCategories(categories)
}

func (s *CategoryStore) Notifications() *NotificationQueue {
	return s.notifications
}

func (s *CategoryStore) IsPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}

func (s *CategoryStore) Categories() []dto.CategoryResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCategories(s.categories)
}

// ========== Mutations ==========

// Create ต่อท้าย placeholder (slug เดาจากชื่อ) แล้วแทนด้วยตัวจริงจาก server
func (s *CategoryStore) Create(ctx context.Context, req *dto.CreateCategoryRequest) Result[dto.CategoryResponse] {
	s.mu.Lock()
	now := s.now()
	zero := int64(0)
	placeholder := dto.CategoryResponse{
		ID:          s.nextTempID,
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: emptyToNil(req.Description),
		Color:       req.Color,
		TasksCount:  &zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextTempID--
	s.categories = append(s.categories, placeholder)
	s.pending++
	s.mu.Unlock()

	created, message, err := s.api.CreateCategory(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	index := s.indexLocked(placeholder.ID)
	if err != nil {
		if index >= 0 {
			s.categories = removeAt(s.categories, index)
		}
		s.notifications.Error(msgCategoryCreateFailed)
		return RolledBack[dto.CategoryResponse]{Items: cloneCategories(s.categories), Err: err}
	}

	confirmed := *created
	if confirmed.TasksCount == nil {
		confirmed.TasksCount = &zero
	}
	if index >= 0 {
		s.categories[index] = confirmed
	} else {
		s.categories = append(s.categories, confirmed)
	}
	s.notifications.Success(orDefault(message, dto.MsgCategoryCreated))
	return Committed[dto.CategoryResponse]{Items: cloneCategories(s.categories)}
}

func (s *CategoryStore) Update(ctx context.Context, id uint, req *dto.UpdateCategoryRequest) Result[dto.CategoryResponse] {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		defer s.mu.Unlock()
		return RolledBack[dto.CategoryResponse]{Items: cloneCategories(s.categories), Err: ErrNotInStore}
	}

	original := cloneCategory(s.categories[index])
	patched := cloneCategory(original)
	if req.Name != nil {
		patched.Name = *req.Name
	}
	if req.Description != nil {
		patched.Description = emptyToNil(req.Description)
	}
	if req.Color != nil {
		patched.Color = *req.Color
	}
	patched.UpdatedAt = s.now()
	s.categories[index] = patched
	s.pending++
	s.mu.Unlock()

	updated, message, err := s.api.UpdateCategory(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if err != nil {
		if i := s.indexLocked(id); i >= 0 {
			s.categories[i] = original
		} else {
			s.categories = insertAt(s.categories, index, original)
		}
		s.notifications.Error(msgCategoryUpdateFailed)
		return RolledBack[dto.CategoryResponse]{Items: cloneCategories(s.categories), Err: err}
	}

	if i := s.indexLocked(id); i >= 0 && updated != nil {
		confirmed := *updated
		// response ของ update ไม่มี tasksCount
		if confirmed.TasksCount == nil {
			confirmed.TasksCount = original.TasksCount
		}
		s.categories[i] = confirmed
	}
	s.notifications.Success(orDefault(message, dto.MsgCategoryUpdated))
	return Committed[dto.CategoryResponse]{Items: cloneCategories(s.categories)}
}

func (s *CategoryStore) Delete(ctx context.Context, id uint) Result[dto.CategoryResponse] {
	s.mu.Lock()
	index := s.indexLocked(id)
	if index < 0 {
		defer s.mu.Unlock()
		return RolledBack[dto.CategoryResponse]{Items: cloneCategories(s.categories), Err: ErrNotInStore}
	}

	removed := s.categories[index]
	s.categories = removeAt(s.categories, index)
	s.pending++
	s.mu.Unlock()

	message, err := s.api.DeleteCategory(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--

	if err != nil {
		s.categories = insertAt(s.categories, index, removed)
		s.notifications.Error(msgCategoryDeleteFailed)
		return RolledBack[dto.CategoryResponse]{Items: cloneCategories(s.categories), Err: err}
	}

	s.notifications.Success(orDefault(message, dto.MsgCategoryDeleted))
	return Committed[dto.CategoryResponse]{Items: cloneCategories(s.categories)}
}

// ========== Getters ==========

func (s *CategoryStore) ByID(id uint) (dto.CategoryResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return cloneCategory(s.categories[i]), true
	}
	return dto.CategoryResponse{}, false
}

func (s *CategoryStore) BySlug(categorySlug string) (dto.CategoryResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Slug == categorySlug {
			return cloneCategory(c), true
		}
	}
	return dto.CategoryResponse{}, false
}

func (s *CategoryStore) SortedByName() []dto.CategoryResponse {
	out := s.Categories()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (s *CategoryStore) WithTasks() []dto.CategoryResponse {
	return s.filterByCount(func(n int64) bool { return n > 0 })
}

func (s *CategoryStore) Unused() []dto.CategoryResponse {
	return s.filterByCount(func(n int64) bool { return n == 0 })
}

// GenerateColor สีสุ่มจาก palette สำหรับฟอร์มสร้าง category
func (s *CategoryStore) GenerateColor() string {
	return utils.RandomPaletteColor()
}

func (s *CategoryStore) filterByCount(keep func(int64) bool) []dto.CategoryResponse {
	var out []dto.CategoryResponse
	for _, c := range s.Categories() {
		var n int64
		if c.TasksCount != nil {
			n = *c.TasksCount
		}
		if keep(n) {
			out = append(out, c)
		}
	}
	return out
}

func (s *CategoryStore) indexLocked(id uint) int {
	for i, c := range s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneCategory(c dto.CategoryResponse) dto.CategoryResponse {
	if c.TasksCount != nil {
		n := *c.TasksCount
		c.TasksCount = &n
	}
	return c
}

func cloneCategories(categories []dto.CategoryResponse) []dto.CategoryResponse {
	out := make([]dto.CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = cloneCategory(c)
	}
	return out
}
