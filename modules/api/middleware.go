package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/karimd18/maxiphy-todo-app/modules/auth"
)

const (
	// UserContextKey is the key used to store user claims in the Fiber context.
	UserContextKey = "user"

	// TokenCookieName is the cookie the web client stores its access token in.
	TokenCookieName = "token"
)

// AuthMiddleware creates a middleware that validates JWT tokens. The token
// is read from the Authorization header, falling back to the "token" cookie
// set at login.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, errResp := extractToken(c)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(*errResp)
		}

		// Validate token
		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		// Store claims in context for use in handlers
		c.Locals(UserContextKey, claims)

		return c.Next()
	}
}

// extractToken pulls the access token off the request, header first.
func extractToken(c *fiber.Ctx) (string, *ErrorResponse) {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return "", &ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			}
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return "", &ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			}
		}
		return token, nil
	}

	if token := c.Cookies(TokenCookieName); token != "" {
		return token, nil
	}

	return "", &ErrorResponse{
		Error:   "unauthorized",
		Message: "Authentication is required",
	}
}
