package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"gofiber-todo/domain/models"
	"gofiber-todo/domain/repositories"
)

func TestTaskRepository_CreateWithCategories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createUser(t, db, "alice")
	work := createCategory(t, db, user.ID, "Work", "work")
	home := createCategory(t, db, user.ID, "Home", "home")

	task := createTask(t, db, &models.Task{UserID: user.ID, Title: "Write report"}, work.ID, home.ID)

	got, err := NewTaskRepository(db).GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got.Categories))
	}
	// เรียงตามชื่อ
	if got.Categories[0].Name != "Home" || got.Categories[1].Name != "Work" {
		t.Errorf("categories not ordered by name: %s, %s", got.Categories[0].Name, got.Categories[1].Name)
	}
}

func TestTaskRepository_GetByIDNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := NewTaskRepository(db).GetByID(context.Background(), 999)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTaskRepository_ListByUserFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	user := createUser(t, db, "alice")
	other := createUser(t, db, "bob")
	today := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	doneAt := today

	createTask(t, db, &models.Task{UserID: user.ID, Title: "done", Completed: true, CompletedAt: &doneAt, Priority: models.PriorityLow})
	createTask(t, db, &models.Task{UserID: user.ID, Title: "done today", Completed: true, CompletedAt: &doneAt, DueDate: utcDay(2024, 3, 15), Priority: models.PriorityLow})
	createTask(t, db, &models.Task{UserID: user.ID, Title: "overdue", DueDate: utcDay(2024, 3, 10), Priority: models.PriorityHigh})
	createTask(t, db, &models.Task{UserID: user.ID, Title: "today", DueDate: utcDay(2024, 3, 15), Priority: models.PriorityHigh})
	createTask(t, db, &models.Task{UserID: user.ID, Title: "later", DueDate: utcDay(2024, 4, 1)})
	createTask(t, db, &models.Task{UserID: other.ID, Title: "not mine", DueDate: utcDay(2024, 3, 1)})

	tests := []struct {
		name   string
		filter repositories.TaskFilter
		want   int
	}{
		{"all", repositories.TaskFilter{Scope: repositories.TaskScopeAll, Today: today}, 5},
		{"completed", repositories.TaskFilter{Scope: repositories.TaskScopeCompleted, Today: today}, 2},
		{"incomplete", repositories.TaskFilter{Scope: repositories.TaskScopeIncomplete, Today: today}, 3},
		{"overdue", repositories.TaskFilter{Scope: repositories.TaskScopeOverdue, Today: today}, 1},
		// งานที่เสร็จแล้วไม่นับ ตรงกับ stats.dueToday
		{"due today", repositories.TaskFilter{Scope: repositories.TaskScopeDueToday, Today: today}, 1},
		{"high priority", repositories.TaskFilter{Scope: repositories.TaskScopeAll, Priority: models.PriorityHigh, Today: today}, 2},
		{"incomplete high", repositories.TaskFilter{Scope: repositories.TaskScopeIncomplete, Priority: models.PriorityHigh, Today: today}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.ListByUser(ctx, user.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListByUser: %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("got %d tasks, want %d", len(tasks), tt.want)
			}
			for _, task := range tasks {
				if task.UserID != user.ID {
					t.Errorf("task %d belongs to another user", task.ID)
				}
			}
		})
	}
}

func TestTaskRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	base := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	createTask(t, db, &models.Task{UserID: user.ID, Title: "first", CreatedAt: base})
	createTask(t, db, &models.Task{UserID: user.ID, Title: "second", CreatedAt: base.Add(time.Hour)})

	tasks, err := NewTaskRepository(db).ListByUser(context.Background(), user.ID, repositories.TaskFilter{Scope: repositories.TaskScopeAll})
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Title != "second" {
		t.Errorf("expected newest first, got %v", titles(tasks))
	}
}

func TestTaskRepository_UpdateSyncsCategories(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	user := createUser(t, db, "alice")
	work := createCategory(t, db, user.ID, "Work", "work")
	home := createCategory(t, db, user.ID, "Home", "home")
	task := createTask(t, db, &models.Task{UserID: user.ID, Title: "old"}, work.ID)

	// nil = ไม่แตะ categories
	task.Title = "renamed"
	if err := repo.Update(ctx, task, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.GetByID(ctx, task.ID)
	if got.Title != "renamed" || len(got.Categories) != 1 {
		t.Fatalf("unexpected task after update: %s, %d categories", got.Title, len(got.Categories))
	}

	ids := []uint{home.ID}
	if err := repo.Update(ctx, task, &ids); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = repo.GetByID(ctx, task.ID)
	if len(got.Categories) != 1 || got.Categories[0].ID != home.ID {
		t.Errorf("expected only Home attached, got %+v", got.Categories)
	}

	empty := []uint{}
	if err := repo.Update(ctx, task, &empty); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ = repo.GetByID(ctx, task.ID)
	if len(got.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(got.Categories))
	}
}

func TestTaskRepository_SetCompleted(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	user := createUser(t, db, "alice")
	task := createTask(t, db, &models.Task{UserID: user.ID, Title: "toggle me"})

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.SetCompleted(ctx, task.ID, true, &now); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	got, _ := repo.GetByID(ctx, task.ID)
	if !got.Completed || got.CompletedAt == nil {
		t.Fatalf("expected completed with timestamp, got %+v", got)
	}

	if err := repo.SetCompleted(ctx, task.ID, false, nil); err != nil {
		t.Fatalf("SetCompleted: %v", err)
	}
	got, _ = repo.GetByID(ctx, task.ID)
	if got.Completed || got.CompletedAt != nil {
		t.Errorf("expected incomplete without timestamp, got %+v", got)
	}
}

func TestTaskRepository_DeleteRemovesJoinRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	work := createCategory(t, db, user.ID, "Work", "work")
	task := createTask(t, db, &models.Task{UserID: user.ID, Title: "bye"}, work.ID)

	if err := NewTaskRepository(db).Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var joins int64
	db.Model(&models.TaskCategory{}).Where("task_id = ?", task.ID).Count(&joins)
	if joins != 0 {
		t.Errorf("expected join rows removed, got %d", joins)
	}

	// category ยังอยู่
	if _, err := NewCategoryRepository(db).GetByID(ctx, work.ID); err != nil {
		t.Errorf("category should survive task deletion: %v", err)
	}
}

func TestTaskRepository_CountByUser(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	createTask(t, db, &models.Task{UserID: user.ID, Title: "a"})
	createTask(t, db, &models.Task{UserID: user.ID, Title: "b"})

	count, err := NewTaskRepository(db).CountByUser(context.Background(), user.ID)
	if err != nil || count != 2 {
		t.Errorf("CountByUser() = %d, %v; want 2", count, err)
	}
}

func titles(tasks []*models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
