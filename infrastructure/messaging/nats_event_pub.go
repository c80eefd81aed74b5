package messaging

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"

	"gofiber-todo/domain/ports"
	natspkg "gofiber-todo/infrastructure/nats"
)

// NATSEventPublisher implements EventPublisherPort using NATS Pub/Sub
type NATSEventPublisher struct {
	publisher *natspkg.Publisher
}

// NewNATSEventPublisher สร้าง EventPublisherPort adapter สำหรับ NATS
func NewNATSEventPublisher(conn *nats.Conn, prefix string) ports.EventPublisherPort {
	return &NATSEventPublisher{
		publisher: natspkg.NewPublisher(conn, prefix),
	}
}

func (p *NATSEventPublisher) Publish(ctx context.Context, event *ports.DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return p.publisher.Publish(&natspkg.EventMessage{
		Type:       event.Type,
		UserID:     event.UserID,
		EntityID:   event.EntityID,
		Message:    event.Message,
		Data:       event.Data,
		OccurredAt: event.OccurredAt,
	})
}
