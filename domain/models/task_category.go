package models

import "time"

// TaskCategory join table ของ task <-> category
// ลบ task หรือ category แล้ว row นี้ถูกลบตาม (cascade)
type TaskCategory struct {
	TaskID     uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time

	Task     Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (TaskCategory) TableName() string {
	return "task_categories"
}
