package websocket

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"gofiber-todo/domain/ports"
	"gofiber-todo/pkg/logger"
)

// EventBroadcaster รับ domain event จาก messaging แล้วส่งให้ connection ของเจ้าของ
type EventBroadcaster struct {
	eventSub  ports.EventSubscriberPort
	hub       *Hub
	running   bool
	runningMu sync.Mutex
	cancelCtx context.CancelFunc
}

func NewEventBroadcaster(eventSub ports.EventSubscriberPort, hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{
		eventSub: eventSub,
		hub:      hub,
	}
}

func (b *EventBroadcaster) Start() error {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	if b.running {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := b.eventSub.Subscribe(ctx, b.HandleEvent); err != nil {
		cancel()
		return err
	}
	b.cancelCtx = cancel
	b.running = true

	logger.Info("Event broadcaster started")
	return nil
}

// HandleEvent event ของ user A ไม่หลุดไป connection ของ user B
func (b *EventBroadcaster) HandleEvent(event *ports.DomainEvent) {
	if event == nil {
		return
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		logger.Warn("Event with invalid user_id", "type", event.Type, "user_id", event.UserID)
		return
	}
	b.hub.BroadcastToUser(userID, event.Type, event)
}

func (b *EventBroadcaster) Stop() {
	b.runningMu.Lock()
	defer b.runningMu.Unlock()
	if !b.running {
		return
	}

	if b.cancelCtx != nil {
		b.cancelCtx()
	}
	if err := b.eventSub.Unsubscribe(); err != nil {
		logger.Warn("Failed to unsubscribe events", "error", err)
	}
	b.running = false
	logger.Info("Event broadcaster stopped")
}
