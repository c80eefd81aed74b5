package nats

import (
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"
)

func TestSubjects(t *testing.T) {
	tests := []struct {
		prefix   string
		user     string
		wildcard string
	}{
		{"todo.events", "todo.events.u1", "todo.events.>"},
		{"", "todo.events.u1", "todo.events.>"},
		{".custom.", "custom.u1", "custom.>"},
	}

	for _, tt := range tests {
		if got := UserSubject(tt.prefix, "u1"); got != tt.user {
			t.Errorf("UserSubject(%q) = %q, want %q", tt.prefix, got, tt.user)
		}
		if got := WildcardSubject(tt.prefix); got != tt.wildcard {
			t.Errorf("WildcardSubject(%q) = %q, want %q", tt.prefix, got, tt.wildcard)
		}
	}
}

func TestSubscriber_HandleMessage(t *testing.T) {
	s := NewSubscriber(nil, "")

	var got []string
	s.OnEvent(func(msg *EventMessage) {
		panic("handler bug")
	})
	s.OnEvent(func(msg *EventMessage) {
		got = append(got, msg.Type+":"+msg.UserID)
	})

	data, _ := json.Marshal(EventMessage{Type: "task.created", UserID: "u1", EntityID: 3})
	s.handleMessage(&nats.Msg{Subject: "todo.events.u1", Data: data})
	s.handleMessage(&nats.Msg{Subject: "todo.events.u1", Data: []byte("{broken")})

	if len(got) != 1 || got[0] != "task.created:u1" {
		t.Errorf("handled = %v", got)
	}
	if s.IsRunning() {
		t.Error("subscriber should not be running before Start")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop on idle subscriber: %v", err)
	}
}
