package handler

import (
	"errors"
	"log"

	"ubt-tracker/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Every boundary operation answers with the same envelope:
// { success: bool, data?: T, message?: string }

func respondOK(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func respondMessage(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "message": message})
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// statusForError maps the service error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrPartnerNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrDuplicateQRCode):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUserInactive):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError answers with the mapped status. Anything outside the
// taxonomy is logged and hidden behind a generic 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		return respondError(c, status, "Internal server error")
	}
	return respondError(c, status, err.Error())
}
