package handlers

import (
	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/auth"
	"ngobrol/server/internal/config"
	"ngobrol/server/internal/middleware"
	"ngobrol/server/internal/models"
	"ngobrol/server/internal/store"
	"ngobrol/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves registration, login, and user search.
type UserHandler struct {
	Users  store.UserStore
	Issuer *auth.Issuer
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}

	// Validate input
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.Validation("Please enter all the fields")
	}

	// Hash password once, at write time
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = config.DefaultAvatarURL
	}

	user, err := h.Users.Create(c.Context(), req.Name, req.Email, hash, avatar)
	if err != nil {
		return err
	}

	token, err := h.Issuer.Issue(user.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to generate token", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":  user.ToResponse(),
			"token": token,
		},
	})
}

// Login handles user login
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Validation("Invalid request body")
	}

	// Validate input
	if req.Email == "" || req.Password == "" {
		return apperrors.Validation("Email and password are required")
	}

	user, err := h.Users.FindByEmail(c.Context(), req.Email)
	if err != nil {
		return err
	}
	if user == nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		return apperrors.Auth("Invalid email or password")
	}

	token, err := h.Issuer.Issue(user.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to generate token", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":  user.ToResponse(),
			"token": token,
		},
	})
}

// Search returns users matching the search query, excluding the caller. An
// empty query returns everyone else; no match returns an empty list.
func (h *UserHandler) Search(c *fiber.Ctx) error {
	callerID := middleware.UserID(c)
	keyword := c.Query("search")

	users, err := h.Users.Search(c.Context(), keyword, callerID)
	if err != nil {
		return err
	}
	if users == nil {
		users = []models.UserResponse{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
	})
}
