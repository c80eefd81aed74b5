package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	ws "gofiber-todo/infrastructure/websocket"
	"gofiber-todo/pkg/logger"
	"gofiber-todo/pkg/utils"
)

type WebSocketHandler struct {
	hub *ws.Hub
}

func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket connection ผูกกับ user จาก Protected middleware
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	user, ok := c.Locals(utils.UserContextKey).(*utils.UserContext)
	if !ok || user == nil {
		c.Close()
		return
	}

	h.hub.Register(c, user.ID)
	defer h.hub.Unregister(c)

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("WebSocket read ended", "user_id", user.ID, "error", err)
			break
		}
		h.hub.HandleClientMessage(c, message)
	}
}
