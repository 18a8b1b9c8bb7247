package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/chocobar-app/server/internal/config"
	"github.com/chocobar-app/server/internal/models"
	"github.com/chocobar-app/server/internal/utils"
)

const (
	userContextKey = "currentUserID"
	roleContextKey = "currentUserRole"
)

// AuthMiddleware validates JWT tokens and loads the authenticated user ID
// and role into context.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		userID, role, err := utils.ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, userID)
		c.Locals(roleContextKey, role)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
// It must run after AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(roleContextKey).(string)
		if role != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}
