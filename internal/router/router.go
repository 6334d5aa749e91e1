package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/config"
	"github.com/noah-isme/idcard-api/internal/handler"
	"github.com/noah-isme/idcard-api/internal/middleware"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/observability"
	"github.com/noah-isme/idcard-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	SchoolAdminHandler *handler.SchoolAdminHandler
	StudentHandler     *handler.StudentHandler
	SettingsHandler    *handler.SettingsHandler
	SuperAdminHandler  *handler.SuperAdminHandler
	PrintHandler       *handler.PrintHandler
	ActivityHandler    *handler.ActivityHandler
	SeedHandler        *handler.SeedHandler
	Authenticator      middleware.Authenticator
	HealthChecks       map[string]handler.DependencyCheck
	Logger             zerolog.Logger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(app.Group("/api/seed"))
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(app)
	}

	if deps.Authenticator == nil {
		return
	}
	session := middleware.RequireSession(deps.Authenticator, service.LoginPage, deps.Logger)

	// School admin portal
	admin := app.Group("/admin", session, middleware.RequireRole(models.RoleSchoolAdmin))
	if deps.AuthHandler != nil {
		admin.Get("/logout", deps.AuthHandler.Logout)
	}
	if deps.SchoolAdminHandler != nil {
		deps.SchoolAdminHandler.Register(admin)
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(admin)
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.Register(admin)
	}

	// Super-admin portal
	superAdmin := app.Group("/superadmin", session, middleware.RequireRole(models.RoleSuperAdmin))
	if deps.AuthHandler != nil {
		superAdmin.Get("/logout", deps.AuthHandler.Logout)
	}
	if deps.PrintHandler != nil {
		deps.PrintHandler.Register(superAdmin.Group("/print"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(superAdmin)
	}
	if deps.SuperAdminHandler != nil {
		deps.SuperAdminHandler.Register(superAdmin)
	}
}
