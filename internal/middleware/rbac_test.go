package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/models"
)

func roleApp(current interface{}, required models.UserRole) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if current != nil {
			c.Locals("user_role", current)
		}
		return c.Next()
	})
	app.Use(RequireRole(required))
	app.Get("/area", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	app := roleApp(models.RoleSuperAdmin, models.RoleSuperAdmin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/area", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	cases := map[string]struct {
		current  interface{}
		required models.UserRole
	}{
		"school admin on super admin area": {models.RoleSchoolAdmin, models.RoleSuperAdmin},
		"super admin on school admin area": {models.RoleSuperAdmin, models.RoleSchoolAdmin},
		"untyped role string":              {"super_admin", models.RoleSuperAdmin},
		"no role":                          {nil, models.RoleSchoolAdmin},
		"unknown required role":            {models.UserRole("auditor"), models.UserRole("auditor")},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := roleApp(tc.current, tc.required)
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/area", nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		})
	}
}
