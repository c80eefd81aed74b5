package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	ws "gofiber-todo/infrastructure/websocket"
	websocketHandler "gofiber-todo/interfaces/api/websocket"
)

// SetupWebSocketRoutes ต้อง login; protected ต้องรับ ?token= ได้
func SetupWebSocketRoutes(api fiber.Router, hub *ws.Hub, protected fiber.Handler) {
	wsHandler := websocketHandler.NewWebSocketHandler(hub)

	api.Use("/ws", protected, wsHandler.WebSocketUpgrade)
	api.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
