package api

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// handleServiceError maps errors coming back over the service bus to HTTP
// responses. Errors cross the bus as strings, so classification matches
// known error messages, the same way tokens and credentials are handled.
func handleServiceError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "validation failed:"):
		field, message := splitValidationError(errStr)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: message,
			Field:   field,
		})
	case strings.Contains(errStr, "todo not found"),
		strings.Contains(errStr, "user not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Resource not found",
		})
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "email already in use"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Email already in use",
		})
	case strings.Contains(errStr, "invalid email format"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid email format",
			Field:   "email",
		})
	case strings.Contains(errStr, "name must be between"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Name must be between 1 and 80 characters",
			Field:   "name",
		})
	case strings.Contains(errStr, "password must be at least"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Password must be at least 8 characters",
			Field:   "password",
		})
	case strings.Contains(errStr, "password must be at most"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Password must be at most 72 characters",
			Field:   "password",
		})
	case strings.Contains(errStr, "current password is incorrect"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Current password is incorrect",
			Field:   "currentPassword",
		})
	case strings.Contains(errStr, "invalid refresh token"),
		strings.Contains(errStr, "token validation failed"),
		strings.Contains(errStr, "token expired"),
		strings.Contains(errStr, "invalid token"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired token",
		})
	default:
		// Log the actual error but don't expose it to the client
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// splitValidationError recovers the field and message from an error of the
// form "validation failed: <field>: <message>".
func splitValidationError(errStr string) (field, message string) {
	idx := strings.Index(errStr, "validation failed:")
	rest := strings.TrimSpace(errStr[idx+len("validation failed:"):])

	parts := strings.SplitN(rest, ":", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", rest
}
