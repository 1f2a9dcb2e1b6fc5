package handlers

import (
	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/middleware"
	"ngobrol/server/internal/models"
	"ngobrol/server/internal/store"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler serves the chat directory: one-to-one access, listing, and
// group lifecycle.
type ChatHandler struct {
	Chats store.ChatStore
}

// AccessChatRequest represents the find-or-create direct chat request body
type AccessChatRequest struct {
	OtherUserID string `json:"otherUserId"`
}

// CreateGroupRequest represents create group request body
type CreateGroupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// RenameRequest represents rename request body
type RenameRequest struct {
	ChatID  string `json:"chatId"`
	NewName string `json:"newName"`
}

// MemberRequest represents group member add/remove request body
type MemberRequest struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

// AccessChat returns the one-to-one chat with the given user, creating it on
// first contact.
func (h *ChatHandler) AccessChat(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	var req AccessChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}

	if req.OtherUserID == "" {
		return apperrors.Validation("otherUserId param not sent with request")
	}
	if req.OtherUserID == callerID {
		return apperrors.Validation("Cannot open a chat with yourself")
	}

	chat, err := h.Chats.FindOrCreateDirect(c.Context(), callerID, req.OtherUserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    chat,
	})
}

// FetchChats returns all chats the caller is a member of, most recently
// updated first.
func (h *ChatHandler) FetchChats(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	chats, err := h.Chats.ListForUser(c.Context(), callerID)
	if err != nil {
		return err
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    chats,
	})
}

// CreateGroup creates a group chat with the caller as admin
func (h *ChatHandler) CreateGroup(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	var req CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}

	// Validate input
	if req.Name == "" {
		return apperrors.Validation("Please fill all the fields")
	}

	// Drop duplicates and the creator from the member list
	seen := map[string]bool{callerID: true}
	members := make([]string, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	if len(members) < 2 {
		return apperrors.Validation("At least 2 users are required to form a group chat")
	}

	chat, err := h.Chats.CreateGroup(c.Context(), req.Name, members, callerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    chat,
	})
}

// Rename changes a chat's display name
func (h *ChatHandler) Rename(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	var req RenameRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if req.ChatID == "" || req.NewName == "" {
		return apperrors.Validation("chatId and newName are required")
	}

	if err := h.requireGroupAdmin(c, req.ChatID, callerID); err != nil {
		return err
	}

	chat, err := h.Chats.Rename(c.Context(), req.ChatID, req.NewName)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    chat,
	})
}

// AddToGroup adds a user to a group chat. Adding a current member is a no-op.
func (h *ChatHandler) AddToGroup(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	var req MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if req.ChatID == "" || req.UserID == "" {
		return apperrors.Validation("chatId and userId are required")
	}

	if err := h.requireGroupAdmin(c, req.ChatID, callerID); err != nil {
		return err
	}

	chat, err := h.Chats.AddMember(c.Context(), req.ChatID, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    chat,
	})
}

// RemoveFromGroup removes a user from a group chat
func (h *ChatHandler) RemoveFromGroup(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)

	var req MemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if req.ChatID == "" || req.UserID == "" {
		return apperrors.Validation("chatId and userId are required")
	}

	if err := h.requireGroupAdmin(c, req.ChatID, callerID); err != nil {
		return err
	}

	chat, err := h.Chats.RemoveMember(c.Context(), req.ChatID, req.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    chat,
	})
}

// requireGroupAdmin rejects group mutations from anyone but the group admin.
// Non-members get NotFound before anything else, so they cannot probe for a
// chat's existence; direct chats are never mutable through group operations.
func (h *ChatHandler) requireGroupAdmin(c *fiber.Ctx, chatID, callerID string) error {
	chat, err := h.Chats.GetByID(c.Context(), chatID)
	if err != nil {
		return err
	}
	if chat == nil || !isMember(chat, callerID) {
		return apperrors.NotFound("Chat Not Found")
	}
	if !chat.IsGroupChat {
		return apperrors.Validation("Not a group chat")
	}
	if chat.GroupAdmin == nil || chat.GroupAdmin.ID != callerID {
		return apperrors.Auth("Only the group admin can modify this group")
	}
	return nil
}

func isMember(chat *models.Chat, userID string) bool {
	for _, m := range chat.Users {
		if m.ID == userID {
			return true
		}
	}
	return false
}
