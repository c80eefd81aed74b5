package repositories

import (
	"context"

	"github.com/google/uuid"

	"gofiber-todo/domain/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, user *models.User) error
	// Delete ลบ user พร้อม task/category/join rows ของ user
	Delete(ctx context.Context, id uuid.UUID) error
	// ListReminderRecipients user ที่ active และมี telegram chat id
	ListReminderRecipients(ctx context.Context) ([]*models.User, error)
}
