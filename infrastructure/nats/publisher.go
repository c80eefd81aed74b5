package nats

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"gofiber-todo/pkg/logger"
)

// Publisher ส่ง EventMessage ไปที่ subject ของ user
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

func NewPublisher(conn *nats.Conn, prefix string) *Publisher {
	return &Publisher{
		conn:   conn,
		prefix: prefix,
	}
}

// Publish fire-and-forget (core NATS)
func (p *Publisher) Publish(msg *EventMessage) error {
	if msg == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if msg.UserID == "" {
		return fmt.Errorf("user_id is required")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := UserSubject(p.prefix, msg.UserID)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Debug("Event published", "subject", subject, "type", msg.Type)
	return nil
}
