package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// RequireRole ensures that the authenticated user holds exactly the given role.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals("user_role").(models.UserRole)
		if !roleAllows(role, current) {
			return utils.SendError(c, fiber.StatusForbidden, "Access Denied")
		}
		return c.Next()
	}
}

func roleAllows(required, current models.UserRole) bool {
	switch required {
	case models.RoleSuperAdmin:
		return current == models.RoleSuperAdmin
	case models.RoleSchoolAdmin:
		return current == models.RoleSchoolAdmin
	default:
		return false
	}
}
