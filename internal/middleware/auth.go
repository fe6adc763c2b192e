package middleware

import (
	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth ensures a verified identity is attached to the request.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetIdentity(c); !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an admin. Runs after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ident, ok := GetIdentity(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if ident.Role != domain.RoleAdmin {
			return response.Error(c, "Admin access required", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}
