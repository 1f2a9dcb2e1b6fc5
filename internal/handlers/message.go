package handlers

import (
	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/middleware"
	"ngobrol/server/internal/models"
	"ngobrol/server/internal/store"
	ws "ngobrol/server/internal/websocket"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler serves the message log: send and chat-scoped history.
type MessageHandler struct {
	Messages store.MessageStore
	Chats    store.ChatStore
	Hub      *ws.Hub
}

// SendMessageRequest represents send message request body
type SendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

// Send appends a message to a chat the caller is a member of and fans it out
// to the other members' sockets.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}

	// Validate input
	if req.ChatID == "" || req.Content == "" {
		return apperrors.Validation("Invalid data passed into request")
	}

	// Only members may post; non-members learn nothing about the chat
	if err := h.requireMembership(c, req.ChatID, callerID); err != nil {
		return err
	}

	message, err := h.Messages.Append(c.Context(), callerID, req.ChatID, req.Content)
	if err != nil {
		return err
	}

	if h.Hub != nil {
		h.Hub.BroadcastToChat(c.Context(), req.ChatID, callerID, ws.NewEvent(ws.EventMessageReceived, message))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}

// List returns the full message history of a chat, oldest first.
func (h *MessageHandler) List(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)
	chatID := c.Params("chatId")

	if err := h.requireMembership(c, chatID, callerID); err != nil {
		return err
	}

	messages, err := h.Messages.ListForChat(c.Context(), chatID)
	if err != nil {
		return err
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

func (h *MessageHandler) requireMembership(c *fiber.Ctx, chatID, userID string) error {
	isMember, err := h.Chats.IsMember(c.Context(), chatID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.NotFound("Chat Not Found")
	}
	return nil
}
