package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gofiber-todo/domain/models"
)

// newTestDB sqlite in-memory แยกต่อ test
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDatabase(DatabaseConfig{
		Driver:    DriverSQLite,
		SQLiteDSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		LogLevel:  "silent",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Password: "hashed",
		Role:     "user",
		IsActive: true,
	}
	if err := NewUserRepository(db).Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createCategory(t *testing.T, db *gorm.DB, userID uuid.UUID, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{UserID: userID, Name: name, Slug: slug, Color: "#3B82F6"}
	if err := NewCategoryRepository(db).Create(context.Background(), category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func createTask(t *testing.T, db *gorm.DB, task *models.Task, categoryIDs ...uint) *models.Task {
	t.Helper()
	if task.Priority == 0 {
		task.Priority = models.PriorityMedium
	}
	if err := NewTaskRepository(db).Create(context.Background(), task, categoryIDs); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func utcDay(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
