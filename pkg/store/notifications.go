package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// DefaultNotificationDuration อายุ toast ถ้าไม่ระบุ
const DefaultNotificationDuration = 5000 * time.Millisecond

type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	Duration  time.Duration // <= 0 ไม่หมดอายุ
	CreatedAt time.Time
}

// ExpiresAt zero time ถ้าไม่หมดอายุ
func (n Notification) ExpiresAt() time.Time {
	if n.Duration <= 0 {
		return time.Time{}
	}
	return n.CreatedAt.Add(n.Duration)
}

func (n Notification) Expired(now time.Time) bool {
	if n.Duration <= 0 {
		return false
	}
	return !now.Before(n.ExpiresAt())
}

// NotificationQueue คิว toast ที่หมดอายุเองตาม duration
type NotificationQueue struct {
	mu    sync.Mutex
	items []Notification
	now   func() time.Time
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{now: time.Now}
}

// Add ใช้ DefaultNotificationDuration
func (q *NotificationQueue) Add(kind NotificationType, message string) Notification {
	return q.AddWithDuration(kind, message, DefaultNotificationDuration)
}

func (q *NotificationQueue) AddWithDuration(kind NotificationType, message string, duration time.Duration) Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		Type:      kind,
		Message:   message,
		Duration:  duration,
		CreatedAt: q.now(),
	}
	q.items = append(q.items, n)
	return n
}

func (q *NotificationQueue) Success(message string) Notification {
	return q.Add(NotificationSuccess, message)
}

func (q *NotificationQueue) Error(message string) Notification {
	return q.Add(NotificationError, message)
}

func (q *NotificationQueue) Warning(message string) Notification {
	return q.Add(NotificationWarning, message)
}

func (q *NotificationQueue) Info(message string) Notification {
	return q.Add(NotificationInfo, message)
}

// Remove คืน false ถ้าไม่เจอ id
func (q *NotificationQueue) Remove(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *NotificationQueue) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}

// Active ตัดตัวที่หมดอายุทิ้งแล้วคืนที่เหลือ (เรียงตามเวลาที่เพิ่ม)
func (q *NotificationQueue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pruneLocked(q.now())
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Prune คืนจำนวนที่ถูกลบ
func (q *NotificationQueue) Prune() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pruneLocked(q.now())
}

func (q *NotificationQueue) ByType(kind NotificationType) []Notification {
	var out []Notification
	for _, n := range q.Active() {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}

func (q *NotificationQueue) Len() int {
	return len(q.Active())
}

func (q *NotificationQueue) pruneLocked(now time.Time) int {
	kept := q.items[:0]
	removed := 0
	for _, n := range q.items {
		if n.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	q.items = kept
	return removed
}
