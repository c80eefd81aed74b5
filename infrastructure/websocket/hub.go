package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"gofiber-todo/pkg/logger"
)

// Conn ส่วนของ *websocket.Conn ที่ hub ใช้
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type broadcastMessage struct {
	message Message
	userID  uuid.UUID
}

// client websocket เขียนพร้อมกันหลาย goroutine ไม่ได้ ทุก write ต้องผ่าน writeMu
type client struct {
	userID  uuid.UUID
	writeMu sync.Mutex
}

var errNotRegistered = errors.New("websocket connection not registered")

// Hub เก็บ connection ของแต่ละ user (เปิดหลาย tab ได้)
type Hub struct {
	clients         map[Conn]*client
	userConnections map[uuid.UUID]map[Conn]struct{}
	broadcast       chan broadcastMessage
	mutex           sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[Conn]*client),
		userConnections: make(map[uuid.UUID]map[Conn]struct{}),
		broadcast:       make(chan broadcastMessage, 256),
	}
}

// Run ส่ง message ตามลำดับจนกว่า ctx จะถูก cancel
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) Register(conn Conn, userID uuid.UUID) {
	h.mutex.Lock()
	h.clients[conn] = &client{userID: userID}
	if h.userConnections[userID] == nil {
		h.userConnections[userID] = make(map[Conn]struct{})
	}
	h.userConnections[userID][conn] = struct{}{}
	total := len(h.userConnections[userID])
	h.mutex.Unlock()

	logger.Info("WebSocket client connected", "user_id", userID, "user_connections", total)
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	userID, ok := h.removeLocked(conn)
	h.mutex.Unlock()

	if ok {
		conn.Close()
		logger.Info("WebSocket client disconnected", "user_id", userID)
	}
}

func (h *Hub) BroadcastToUser(userID uuid.UUID, messageType string, data interface{}) {
	h.enqueue(broadcastMessage{
		message: Message{Type: messageType, Data: data},
		userID:  userID,
	})
}

func (h *Hub) UserConnections(userID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.userConnections[userID])
}

func (h *Hub) TotalClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// enqueue ไม่ block request ถ้า buffer เต็ม (client ช้า) ก็ทิ้ง
func (h *Hub) enqueue(msg broadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		logger.Warn("WebSocket broadcast buffer full, dropping message", "type", msg.message.Type)
	}
}

func (h *Hub) deliver(msg broadcastMessage) {
	h.mutex.RLock()
	targets := make([]Conn, 0, len(h.userConnections[msg.userID]))
	for conn := range h.userConnections[msg.userID] {
		targets = append(targets, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range targets {
		if err := h.write(conn, msg.message); err != nil {
			if errors.Is(err, errNotRegistered) {
				continue
			}
			logger.Warn("WebSocket write failed", "user_id", msg.userID, "error", err)
			h.Unregister(conn)
		}
	}
}

// write ส่งหนึ่ง message ถือ writeMu ของ connection นั้น; panic จาก conn ถือเป็น write error
func (h *Hub) write(conn Conn, message Message) (err error) {
	h.mutex.RLock()
	cl, ok := h.clients[conn]
	h.mutex.RUnlock()
	if !ok {
		return errNotRegistered
	}

	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("websocket write panic: %v", r)
		}
	}()
	return conn.WriteJSON(message)
}

func (h *Hub) removeLocked(conn Conn) (uuid.UUID, bool) {
	cl, ok := h.clients[conn]
	if !ok {
		return uuid.Nil, false
	}
	delete(h.clients, conn)
	if conns := h.userConnections[cl.userID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.userConnections, cl.userID)
		}
	}
	return cl.userID, true
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	conns := make([]Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clients = make(map[Conn]*client)
	h.userConnections = make(map[uuid.UUID]map[Conn]struct{})
	h.mutex.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

// HandleClientMessage message จาก client ตอนนี้รองรับแค่ ping
// pong เขียนผ่าน lock เดียวกับ broadcast
func (h *Hub) HandleClientMessage(conn Conn, data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		logger.Debug("WebSocket: invalid client message", "error", err)
		return
	}

	switch message.Type {
	case "ping":
		if err := h.write(conn, Message{Type: "pong", Data: "pong"}); err != nil {
			logger.Debug("WebSocket: pong failed", "error", err)
		}
	default:
		logger.Debug("WebSocket: unknown message type", "type", message.Type)
	}
}
