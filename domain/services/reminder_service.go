package services

import (
	"context"
	"time"

	"gofiber-todo/domain/models"
)

// Digest สรุป task ที่ต้องเตือนของ user หนึ่งคน
type Digest struct {
	User     *models.User
	Overdue  []*models.Task
	DueToday []*models.Task
}

func (d *Digest) IsEmpty() bool {
	return len(d.Overdue) == 0 && len(d.DueToday) == 0
}

type ReminderService interface {
	// BuildDigest รวม task overdue + due today (ยังไม่เสร็จ) ของ user
	BuildDigest(ctx context.Context, user *models.User, now time.Time) (*Digest, error)
	// SendDailyDigests ส่ง digest ให้ทุก user ที่ตั้ง chat id ไว้ คืนจำนวนที่ส่งสำเร็จ
	SendDailyDigests(ctx context.Context, now time.Time) (int, error)
	// Schedule ลง job กับ scheduler ตาม cron
	Schedule(cronExpr string) error
}
