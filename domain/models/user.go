package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email          string    `gorm:"uniqueIndex;not null"`
	Username       string    `gorm:"uniqueIndex;not null"`
	Password       string    `gorm:"not null"`
	FirstName      string
	LastName       string
	TelegramChatID *int64 `gorm:"index"` // สำหรับส่ง reminder digest (optional)
	Role           string `gorm:"default:'user'"`
	IsActive       bool   `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string {
	return "users"
}

// IsAdmin ตรวจสอบว่าเป็น admin
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// WantsReminders มี chat id สำหรับส่ง digest
func (u *User) WantsReminders() bool {
	return u.TelegramChatID != nil && *u.TelegramChatID != 0
}
