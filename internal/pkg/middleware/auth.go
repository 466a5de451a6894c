package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ContractorHub/app/models"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/auth"
	"github.com/ManuelReschke/ContractorHub/internal/pkg/usercontext"
)

// Identify stores the caller identity from provider in the user context.
// A provider failure is answered with 502 since identity comes from upstream.
func Identify(provider auth.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := provider.Identify(c)
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "identity provider unavailable"})
		}
		usercontext.Set(c, usercontext.UserContext{
			UserID:     id.UserID,
			Role:       id.Role,
			IsLoggedIn: !id.Anonymous(),
			IsAdmin:    id.Role == models.ROLE_ADMIN,
		})
		return c.Next()
	}
}

// RequireAuth answers 401 for anonymous callers.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
	}
	return c.Next()
}

// RequireRole answers 401 for anonymous callers and 403 for callers whose
// role is not listed.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.GetUserContext(c)
		if !uc.IsLoggedIn {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "login required"})
		}
		for _, r := range roles {
			if uc.Role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient role"})
	}
}

// RequireAdmin is RequireRole(admin).
func RequireAdmin() fiber.Handler {
	return RequireRole(models.ROLE_ADMIN)
}
