package middleware

import (
	"errors"
	"strings"

	"corebank/internal/core/domain"
	"corebank/internal/core/services"
	"corebank/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. Every request passes
// through the session authority: the token's signature alone is not enough,
// the backing session row must exist and be outside the expiry buffer.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return response.Unauthorized(c, "Session token required")
		}

		user, err := authService.Resolve(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionExpired):
				return response.Unauthorized(c, "Session expired")
			case errors.Is(err, domain.ErrSessionInvalid):
				return response.Unauthorized(c, "Invalid session")
			default:
				return response.InternalServerError(c, "Failed to authenticate")
			}
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)
		c.Locals("sessionToken", token)

		return c.Next()
	}
}

// extractToken reads the session token from the cookie or the
// Authorization header
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("session"); token != "" {
		return token
	}

	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
