package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Domain Events - แจ้งการเปลี่ยนแปลงของ task/category ไปยัง client ของ user
// ═══════════════════════════════════════════════════════════════════════════════

const (
	EventTaskCreated     = "task.created"
	EventTaskUpdated     = "task.updated"
	EventTaskToggled     = "task.toggled"
	EventTaskDeleted     = "task.deleted"
	EventCategoryCreated = "category.created"
	EventCategoryUpdated = "category.updated"
	EventCategoryDeleted = "category.deleted"
	EventReminderDigest  = "reminder.digest"
)

// DomainEvent - Plain struct (ไม่มี NATS dependency)
type DomainEvent struct {
	Type       string         `json:"type"`
	UserID     string         `json:"userId"`
	EntityID   uint           `json:"entityId,omitempty"`
	Message    string         `json:"message,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// EventPublisherPort - Interface สำหรับส่ง domain event
type EventPublisherPort interface {
	Publish(ctx context.Context, event *DomainEvent) error
}

// EventHandler - Callback function type
type EventHandler func(event *DomainEvent)

// EventSubscriberPort - Interface สำหรับ subscribe domain events
type EventSubscriberPort interface {
	Subscribe(ctx context.Context, handler EventHandler) error
	Unsubscribe() error
}
