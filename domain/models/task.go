package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uint       `gorm:"primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"size:255;not null"`
	Description *string    `gorm:"type:text"`
	Completed   bool       `gorm:"not null;default:false;index"`
	Priority    Priority   `gorm:"not null;default:2"`
	DueDate     *time.Time `gorm:"type:date;index"`
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relations
	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Categories []Category `gorm:"many2many:task_categories;"`
}

func (Task) TableName() string {
	return "tasks"
}

// BelongsTo ตรวจสอบเจ้าของ task
func (t *Task) BelongsTo(userID uuid.UUID) bool {
	return t.UserID == userID
}

// IsOverdue เลยกำหนดและยังไม่เสร็จ (เทียบระดับวัน)
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(StartOfDay(now))
}

// IsDueToday due_date ตรงกับวันนี้
func (t *Task) IsDueToday(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return StartOfDay(*t.DueDate).Equal(StartOfDay(now))
}

// MarkCompleted set completed + completed_at พร้อมกัน
func (t *Task) MarkCompleted(now time.Time) {
	t.Completed = true
	t.CompletedAt = &now
}

func (t *Task) MarkIncomplete() {
	t.Completed = false
	t.CompletedAt = nil
}

// StartOfDay ตัดเวลาออกเหลือ 00:00 UTC
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
