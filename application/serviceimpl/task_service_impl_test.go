package serviceimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"gofiber-todo/domain/dto"
	"gofiber-todo/domain/models"
	"gofiber-todo/domain/ports"
	"gofiber-todo/domain/services"
	"gofiber-todo/infrastructure/postgres"
)

type taskFixture struct {
	tasks      *TaskServiceImpl
	categories services.CategoryService
	events     *fakePublisher
	alice      *models.User
	bob        *models.User
}

func newTaskFixture(t *testing.T, now time.Time) *taskFixture {
	t.Helper()
	db := newTestDB(t)
	categoryRepo := postgres.NewCategoryRepository(db)
	events := &fakePublisher{}

	tasks := NewTaskService(postgres.NewTaskRepository(db), categoryRepo, events, nil).(*TaskServiceImpl)
	tasks.now = func() time.Time { return now }

	return &taskFixture{
		tasks:      tasks,
		categories: NewCategoryService(categoryRepo, nil, nil),
		events:     events,
		alice:      seedUser(t, db, "alice"),
		bob:        seedUser(t, db, "bob"),
	}
}

func TestTaskService_CreateDefaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f := newTaskFixture(t, now)

	task, err := f.tasks.CreateTask(context.Background(), f.alice.ID, &dto.CreateTaskRequest{Title: "Buy milk", Priority: 1})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if task.Completed || task.CompletedAt != nil {
		t.Error("new task should be incomplete")
	}
	if task.Description != nil || task.DueDate != nil {
		t.Error("description and due date should be empty")
	}
	if task.Priority != models.PriorityLow {
		t.Errorf("priority = %d, want 1", task.Priority)
	}
	if len(task.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(task.Categories))
	}
	if got := f.events.types(); len(got) != 1 || got[0] != ports.EventTaskCreated {
		t.Errorf("events = %v", got)
	}
}

func TestTaskService_CreateWithDueDateAndCategories(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f := newTaskFixture(t, now)
	ctx := context.Background()

	work, _ := f.categories.Create(ctx, f.alice.ID, &dto.CreateCategoryRequest{Name: "Work", Color: "#3B82F6"})
	bobs, _ := f.categories.Create(ctx, f.bob.ID, &dto.CreateCategoryRequest{Name: "Secret", Color: "#000000"})

	task, err := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{
		Title:      "Report",
		Priority:   3,
		DueDate:    strPtr("2024-03-20"),
		Categories: []uint{work.ID, bobs.ID, work.ID},
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if task.DueDate == nil || task.DueDate.Format(dto.DateLayout) != "2024-03-20" {
		t.Errorf("due date = %v", task.DueDate)
	}
	// category ของคนอื่นถูกทิ้ง ตัวซ้ำถูกตัด
	if len(task.Categories) != 1 || task.Categories[0].ID != work.ID {
		t.Errorf("categories = %+v, want only work", task.Categories)
	}
}

func TestTaskService_CreateUnknownCategoryFails(t *testing.T) {
	f := newTaskFixture(t, time.Now())
	ctx := context.Background()
	work, _ := f.categories.Create(ctx, f.alice.ID, &dto.CreateCategoryRequest{Name: "Work", Color: "#3B82F6"})

	_, err := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{
		Title:      "x",
		Priority:   2,
		Categories: []uint{work.ID, 9999},
	})

	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["categories.1"]; !ok {
		t.Errorf("expected error on categories.1, got %v", verr.Fields)
	}
}

func TestTaskService_CreateInvalidDueDate(t *testing.T) {
	f := newTaskFixture(t, time.Now())

	_, err := f.tasks.CreateTask(context.Background(), f.alice.ID, &dto.CreateTaskRequest{
		Title: "x", Priority: 2, DueDate: strPtr("2024-02-30"),
	})
	var verr *services.ValidationError
	if !errors.As(err, &verr) || verr.Fields["dueDate"] == "" {
		t.Errorf("expected dueDate validation error, got %v", err)
	}
}

func TestTaskService_BlankTitle(t *testing.T) {
	f := newTaskFixture(t, time.Now())
	ctx := context.Background()

	task, err := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "  Buy milk  ", Priority: 1})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("title = %q, want trimmed", task.Title)
	}

	tests := []struct {
		name string
		run  func() error
	}{
		{"create", func() error {
			_, err := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: " \t ", Priority: 1})
			return err
		}},
		{"update", func() error {
			_, err := f.tasks.UpdateTask(ctx, f.alice.ID, task.ID, &dto.UpdateTaskRequest{Title: "   ", Priority: 1})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verr *services.ValidationError
			if err := tt.run(); !errors.As(err, &verr) || verr.Fields["title"] == "" {
				t.Errorf("expected title validation error, got %v", err)
			}
		})
	}

	got, _ := f.tasks.GetTask(ctx, f.alice.ID, task.ID)
	if got.Title != "Buy milk" {
		t.Errorf("rejected update changed title to %q", got.Title)
	}
}

func TestTaskService_ToggleTwice(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f := newTaskFixture(t, now)
	ctx := context.Background()

	task, _ := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "flip", Priority: 2})

	toggled, err := f.tasks.ToggleTask(ctx, f.alice.ID, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if !toggled.Completed || toggled.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", toggled)
	}

	toggled, err = f.tasks.ToggleTask(ctx, f.alice.ID, task.ID)
	if err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if toggled.Completed || toggled.CompletedAt != nil {
		t.Errorf("expected back to incomplete, got %+v", toggled)
	}

	events := f.events.events
	last := events[len(events)-1]
	if last.Type != ports.EventTaskToggled || last.Message != dto.MsgTaskIncomplete {
		t.Errorf("unexpected last event: %s %q", last.Type, last.Message)
	}
}

func TestTaskService_UpdateKeepsUnsentFields(t *testing.T) {
	f := newTaskFixture(t, time.Now())
	ctx := context.Background()
	work, _ := f.categories.Create(ctx, f.alice.ID, &dto.CreateCategoryRequest{Name: "Work", Color: "#3B82F6"})

	task, _ := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{
		Title:       "old",
		Description: strPtr("notes"),
		Priority:    1,
		DueDate:     strPtr("2024-05-01"),
		Categories:  []uint{work.ID},
	})

	updated, err := f.tasks.UpdateTask(ctx, f.alice.ID, task.ID, &dto.UpdateTaskRequest{Title: "new", Priority: 3})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Title != "new" || updated.Priority != models.PriorityHigh {
		t.Errorf("title/priority not updated: %+v", updated)
	}
	if updated.Description == nil || *updated.Description != "notes" {
		t.Error("description should be kept when not sent")
	}
	if updated.DueDate == nil {
		t.Error("due date should be kept when not sent")
	}
	if len(updated.Categories) != 1 {
		t.Errorf("categories should be kept when not sent, got %d", len(updated.Categories))
	}

	// "" ล้างค่า, [] ถอด categories
	empty := []uint{}
	updated, err = f.tasks.UpdateTask(ctx, f.alice.ID, task.ID, &dto.UpdateTaskRequest{
		Title: "new", Priority: 3, Description: strPtr(""), DueDate: strPtr(""), Categories: &empty,
	})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if updated.Description != nil || updated.DueDate != nil || len(updated.Categories) != 0 {
		t.Errorf("expected cleared fields, got %+v", updated)
	}
}

func TestTaskService_CrossUserAccess(t *testing.T) {
	f := newTaskFixture(t, time.Now())
	ctx := context.Background()
	task, _ := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "private", Priority: 2})

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"get", func() error { _, err := f.tasks.GetTask(ctx, f.bob.ID, task.ID); return err }, services.ErrForbidden},
		{"toggle", func() error { _, err := f.tasks.ToggleTask(ctx, f.bob.ID, task.ID); return err }, services.ErrForbidden},
		{"update", func() error {
			_, err := f.tasks.UpdateTask(ctx, f.bob.ID, task.ID, &dto.UpdateTaskRequest{Title: "mine", Priority: 1})
			return err
		}, services.ErrForbidden},
		{"delete", func() error { return f.tasks.DeleteTask(ctx, f.bob.ID, task.ID) }, services.ErrForbidden},
		{"missing", func() error { return f.tasks.DeleteTask(ctx, f.bob.ID, task.ID+100) }, services.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	// task ยังไม่ถูกแตะ
	got, _ := f.tasks.GetTask(ctx, f.alice.ID, task.ID)
	if got.Title != "private" || got.Completed {
		t.Errorf("task modified by another user: %+v", got)
	}
}

func TestTaskService_Delete(t *testing.T) {
	f := newTaskFixture(t, time.Now())
	ctx := context.Background()
	task, _ := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "bye", Priority: 2})

	if err := f.tasks.DeleteTask(ctx, f.alice.ID, task.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if _, err := f.tasks.GetTask(ctx, f.alice.ID, task.ID); !errors.Is(err, services.ErrTaskNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestTaskService_Dashboard(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f := newTaskFixture(t, now)
	ctx := context.Background()

	f.categories.Create(ctx, f.alice.ID, &dto.CreateCategoryRequest{Name: "Work", Color: "#3B82F6"})
	f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "overdue", Priority: 3, DueDate: strPtr("2024-03-10")})
	f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "today", Priority: 1, DueDate: strPtr("2024-03-15")})
	done, _ := f.tasks.CreateTask(ctx, f.alice.ID, &dto.CreateTaskRequest{Title: "done", Priority: 2})
	f.tasks.ToggleTask(ctx, f.alice.ID, done.ID)
	f.tasks.CreateTask(ctx, f.bob.ID, &dto.CreateTaskRequest{Title: "bob's", Priority: 3})

	tests := []struct {
		filter     string
		priority   int
		wantTasks  int
		wantFilter string
	}{
		{"", 0, 3, "all"},
		{"completed", 0, 1, "completed"},
		{"incomplete", 0, 2, "incomplete"},
		{"overdue", 0, 1, "overdue"},
		{"bogus", 0, 3, "all"},
		{"all", 3, 1, "all"},
		{"all", 9, 3, "all"},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			dash, err := f.tasks.Dashboard(ctx, f.alice.ID, &dto.TaskFilterRequest{Filter: tt.filter, Priority: tt.priority})
			if err != nil {
				t.Fatalf("Dashboard: %v", err)
			}
			if len(dash.Tasks) != tt.wantTasks {
				t.Errorf("tasks = %d, want %d", len(dash.Tasks), tt.wantTasks)
			}
			if dash.Filter != tt.wantFilter {
				t.Errorf("filter = %q, want %q", dash.Filter, tt.wantFilter)
			}

			// stats ไม่ขึ้นกับ filter
			want := dto.TaskStats{Total: 3, Completed: 1, Incomplete: 2, Overdue: 1, DueToday: 1}
			if dash.Stats != want {
				t.Errorf("stats = %+v, want %+v", dash.Stats, want)
			}
			if len(dash.Categories) != 1 || len(dash.PriorityOptions) != 3 {
				t.Errorf("categories=%d priorityOptions=%d", len(dash.Categories), len(dash.PriorityOptions))
			}
		})
	}
}

func TestParseDueDate(t *testing.T) {
	if d, err := parseDueDate(nil); d != nil || err != nil {
		t.Errorf("nil input: %v %v", d, err)
	}
	if d, err := parseDueDate(strPtr("")); d != nil || err != nil {
		t.Errorf("empty input: %v %v", d, err)
	}
	d, err := parseDueDate(strPtr("2024-12-31"))
	if err != nil || d.Location() != time.UTC || d.Day() != 31 {
		t.Errorf("parseDueDate() = %v, %v", d, err)
	}
}
