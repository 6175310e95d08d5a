package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	helper "akademiku_backend/internals/helpers"
)

// RoleMiddlewareWithCustomError validasi role + custom error message
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles := helper.GetRolesFromToken(c)
		if len(roles) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: missing role information",
			})
		}

		for _, have := range roles {
			lh := strings.ToLower(strings.TrimSpace(have))
			for _, allowed := range allowedRoles {
				if lh == strings.ToLower(allowed) {
					return c.Next()
				}
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": customForbiddenMessage,
		})
	}
}

// Shortcut biar lebih clean pemakaian
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
