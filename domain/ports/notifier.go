package ports

import "context"

// ReminderMessage ข้อความ digest ที่พร้อมส่ง (HTML)
type ReminderMessage struct {
	ChatID int64
	Text   string
}

// NotifierPort - Interface สำหรับส่ง reminder (Telegram เป็นต้น)
type NotifierPort interface {
	SendReminder(ctx context.Context, msg *ReminderMessage) error
	IsEnabled() bool
}
