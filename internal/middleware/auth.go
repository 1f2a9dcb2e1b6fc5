package middleware

import (
	"strings"

	"ngobrol/server/internal/apperrors"
	"ngobrol/server/internal/auth"
	"ngobrol/server/internal/models"
	"ngobrol/server/internal/store"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// Protect validates the bearer token from the Authorization header and
// resolves it to a user record before any protected handler runs.
func Protect(issuer *auth.Issuer, users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return apperrors.Auth("Not authorized, no token")
		}

		// Validate token
		userID, err := issuer.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			return apperrors.Auth("Not authorized, token failed")
		}

		// Resolve the token's subject to a full user record
		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperrors.Auth("Not authorized, token failed")
		}

		// Store user info in context
		c.Locals("user", user)
		c.Locals("userID", user.ID)

		return c.Next()
	}
}

// UserID gets the authenticated user's ID from context
func UserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return ""
	}
	return userID
}

// CurrentUser gets the authenticated user from context
func CurrentUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil
	}
	return user
}
