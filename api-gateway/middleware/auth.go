package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tair/eco-catalog/pkg/auth"
)

const userIDLocal = "user_id"

// TokenValidator is satisfied by *auth.TokenManager.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Identify stores the caller's user id when a valid bearer token is present.
// It never rejects; the services enforce authentication themselves.
func Identify(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := strings.Split(c.Get(fiber.HeaderAuthorization), " ")
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			if claims, err := tokens.ValidateToken(parts[1]); err == nil {
				c.Locals(userIDLocal, claims.UserID)
			}
		}
		return c.Next()
	}
}

// UserID returns the id stored by Identify.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(userIDLocal).(uint)
	return id, ok
}
