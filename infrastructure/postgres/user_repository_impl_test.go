package postgres

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"gofiber-todo/domain/models"
)

func TestUserRepository_GetByEmailAndUsername(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	user := createUser(t, db, "alice")

	if got, err := repo.GetByEmail(ctx, "alice@example.com"); err != nil || got.ID != user.ID {
		t.Errorf("GetByEmail() = %v, %v", got, err)
	}
	if got, err := repo.GetByUsername(ctx, "alice"); err != nil || got.ID != user.ID {
		t.Errorf("GetByUsername() = %v, %v", got, err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUserRepository_UpdateTelegramChat(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	user := createUser(t, db, "alice")

	chatID := int64(424242)
	user.TelegramChatID = &chatID
	user.FirstName = "Alice"
	if err := repo.Update(ctx, user.ID, user); err != nil {
		t.Fatalf("Update: %v", err)
	}

	recipients, err := repo.ListReminderRecipients(ctx)
	if err != nil {
		t.Fatalf("ListReminderRecipients: %v", err)
	}
	if len(recipients) != 1 || recipients[0].ID != user.ID {
		t.Errorf("expected alice as only recipient, got %d", len(recipients))
	}

	user.TelegramChatID = nil
	if err := repo.Update(ctx, user.ID, user); err != nil {
		t.Fatalf("Update: %v", err)
	}
	recipients, _ = repo.ListReminderRecipients(ctx)
	if len(recipients) != 0 {
		t.Errorf("expected no recipients after clearing chat id, got %d", len(recipients))
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	work := createCategory(t, db, alice.ID, "Work", "work")
	createTask(t, db, &models.Task{UserID: alice.ID, Title: "a"}, work.ID)
	bobsTask := createTask(t, db, &models.Task{UserID: bob.ID, Title: "b"})

	if err := NewUserRepository(db).Delete(ctx, alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var tasks, categories, joins int64
	db.Model(&models.Task{}).Where("user_id = ?", alice.ID).Count(&tasks)
	db.Model(&models.Category{}).Where("user_id = ?", alice.ID).Count(&categories)
	db.Model(&models.TaskCategory{}).Count(&joins)
	if tasks != 0 || categories != 0 || joins != 0 {
		t.Errorf("leftover rows: tasks=%d categories=%d joins=%d", tasks, categories, joins)
	}

	if _, err := NewTaskRepository(db).GetByID(ctx, bobsTask.ID); err != nil {
		t.Errorf("other user's task should survive: %v", err)
	}
}
