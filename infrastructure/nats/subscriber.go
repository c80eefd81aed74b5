package nats

import (
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"

	"gofiber-todo/pkg/logger"
)

// EventHandler callback function เมื่อได้รับ event
type EventHandler func(msg *EventMessage)

// Subscriber NATS Pub/Sub subscriber สำหรับ domain events ของทุก user
type Subscriber struct {
	conn       *nats.Conn
	prefix     string
	sub        *nats.Subscription
	handlers   []EventHandler
	handlersMu sync.RWMutex
	running    bool
	runningMu  sync.Mutex
}

// NewSubscriber สร้าง NATS Subscriber ใหม่
func NewSubscriber(conn *nats.Conn, prefix string) *Subscriber {
	return &Subscriber{
		conn:     conn,
		prefix:   prefix,
		handlers: make([]EventHandler, 0),
	}
}

// OnEvent ลงทะเบียน handler
func (s *Subscriber) OnEvent(handler EventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Start เริ่ม subscribe <prefix>.>
func (s *Subscriber) Start() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	if s.running {
		return nil
	}

	subject := WildcardSubject(s.prefix)
	sub, err := s.conn.Subscribe(subject, s.handleMessage)
	if err != nil {
		return err
	}
	s.sub = sub
	s.running = true

	logger.Info("NATS subscriber started", "subject", subject)
	return nil
}

func (s *Subscriber) handleMessage(msg *nats.Msg) {
	var event EventMessage
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		logger.Error("Failed to parse event", "subject", msg.Subject, "error", err)
		return
	}

	s.handlersMu.RLock()
	handlers := s.handlers
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		// sync เพื่อรักษาลำดับ event
		func(h EventHandler, e EventMessage) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Event handler panicked", "error", r)
				}
			}()
			h(&e)
		}(handler, event)
	}

	logger.Debug("Event received from NATS", "type", event.Type, "user_id", event.UserID, "handlers_count", len(handlers))
}

// Stop หยุด subscriber
func (s *Subscriber) Stop() error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			logger.Warn("Failed to unsubscribe", "error", err)
		}
	}

	logger.Info("NATS subscriber stopped")
	return nil
}

// IsRunning ตรวจสอบว่า subscriber กำลังทำงานอยู่หรือไม่
func (s *Subscriber) IsRunning() bool {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()
	return s.running
}
