package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor ใช้เมื่อสร้างผ่าน code path ภายใน (seeder) ที่ไม่ได้ระบุสี
const DefaultCategoryColor = "#6B7280"

type Category struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_slug,priority:1"`
	Name        string    `gorm:"size:255;not null"`
	Slug        string    `gorm:"size:300;not null;uniqueIndex:idx_categories_user_slug,priority:2"`
	Description *string   `gorm:"type:text"`
	Color       string    `gorm:"size:7;not null;default:'#6B7280'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// TaskCount เติมโดย query ของหน้า categories (ไม่ใช่ column)
	TaskCount int64 `gorm:"->;-:migration"`

	// Relations
	User  User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tasks []Task `gorm:"many2many:task_categories;"`
}

func (Category) TableName() string {
	return "categories"
}

// BelongsTo ตรวจสอบเจ้าของ category
func (c *Category) BelongsTo(userID uuid.UUID) bool {
	return c.UserID == userID
}
