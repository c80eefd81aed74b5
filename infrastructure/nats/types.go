package nats

import (
	"strings"
	"time"
)

// DefaultSubjectPrefix subject ของ domain event คือ <prefix>.<userID>
const DefaultSubjectPrefix = "todo.events"

// EventMessage payload ที่วิ่งบน NATS
type EventMessage struct {
	Type       string         `json:"type"`
	UserID     string         `json:"userId"`
	EntityID   uint           `json:"entityId,omitempty"`
	Message    string         `json:"message,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// UserSubject todo.events.<userID>
func UserSubject(prefix, userID string) string {
	return normalizePrefix(prefix) + "." + userID
}

// WildcardSubject todo.events.> รับ event ของทุก user
func WildcardSubject(prefix string) string {
	return normalizePrefix(prefix) + ".>"
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, ".")
	if prefix == "" {
		return DefaultSubjectPrefix
	}
	return prefix
}
