package messaging

import (
	"context"

	"gofiber-todo/domain/ports"
	natspkg "gofiber-todo/infrastructure/nats"
	"gofiber-todo/pkg/logger"
)

// NATSEventSubscriber implements EventSubscriberPort using NATS Pub/Sub
type NATSEventSubscriber struct {
	subscriber *natspkg.Subscriber
	cancel     context.CancelFunc
}

// NewNATSEventSubscriber สร้าง EventSubscriberPort adapter สำหรับ NATS
func NewNATSEventSubscriber(subscriber *natspkg.Subscriber) ports.EventSubscriberPort {
	return &NATSEventSubscriber{
		subscriber: subscriber,
	}
}

// Subscribe เริ่ม listen domain events
func (s *NATSEventSubscriber) Subscribe(ctx context.Context, handler ports.EventHandler) error {
	ctx, s.cancel = context.WithCancel(ctx)

	s.subscriber.OnEvent(func(msg *natspkg.EventMessage) {
		if ctx.Err() != nil {
			return
		}
		if msg == nil || msg.UserID == "" {
			logger.Warn("Received event without user_id from NATS")
			return
		}

		handler(&ports.DomainEvent{
			Type:       msg.Type,
			UserID:     msg.UserID,
			EntityID:   msg.EntityID,
			Message:    msg.Message,
			Data:       msg.Data,
			OccurredAt: msg.OccurredAt,
		})
	})

	if !s.subscriber.IsRunning() {
		return s.subscriber.Start()
	}
	return nil
}

// Unsubscribe หยุด listen
func (s *NATSEventSubscriber) Unsubscribe() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.subscriber.Stop()
}
