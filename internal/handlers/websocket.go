package handlers

import (
	ws "ngobrol/server/internal/websocket"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WSHandler upgrades authenticated requests to websocket connections.
type WSHandler struct {
	Hub *ws.Hub
}

// Upgrade checks if the request should be upgraded to WebSocket
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"error":   "WebSocket upgrade required",
	})
}

// Handle runs a client's read/write pumps until the connection closes
func (h *WSHandler) Handle(c *websocket.Conn) {
	// Set by the auth middleware before the upgrade
	userID := c.Locals("userID").(string)

	client := ws.NewClient(userID, c, h.Hub)
	h.Hub.Register <- client

	go client.WritePump()
	client.ReadPump() // Blocks until the connection closes
}

// Stats returns WebSocket connection statistics
func (h *WSHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"onlineUsers": h.Hub.OnlineCount(),
		},
	})
}
