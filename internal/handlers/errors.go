package handlers

import (
	"errors"
	"log"

	"ngobrol/server/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the boundary error mapper: application error codes become
// HTTP statuses, everything unknown becomes a 500 without leaking internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"error":   fiberErr.Message,
		})
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if appErr.Code == apperrors.CodeInternal {
			log.Printf("internal error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Internal server error",
			})
		}
		return c.Status(apperrors.HTTPStatus(appErr.Code)).JSON(fiber.Map{
			"success": false,
			"error":   appErr.Message,
		})
	}

	log.Printf("unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Internal server error",
	})
}
