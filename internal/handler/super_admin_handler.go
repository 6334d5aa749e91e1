package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// SuperAdminHandler serves the cross-school pages.
type SuperAdminHandler struct {
	service service.SuperAdminService
	logger  zerolog.Logger
}

// NewSuperAdminHandler constructs the handler.
func NewSuperAdminHandler(service service.SuperAdminService, logger zerolog.Logger) *SuperAdminHandler {
	return &SuperAdminHandler{
		service: service,
		logger:  logger.With().Str("component", "super_admin_handler").Logger(),
	}
}

// Register attaches the super-admin routes to the /superadmin group.
func (h *SuperAdminHandler) Register(router fiber.Router) {
	router.Get("/", h.dashboard)
	router.Get("/schools", h.schools)
	router.Delete("/schools/:schoolId", h.deleteSchool)
	router.Get("/students", h.students)
}

func (h *SuperAdminHandler) dashboard(c *fiber.Ctx) error {
	response, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dashboard")
	}
	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *SuperAdminHandler) schools(c *fiber.Ctx) error {
	schools, err := h.service.Schools(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list schools")
	}
	return utils.SendSuccess(c, "schools retrieved", schools)
}

func (h *SuperAdminHandler) deleteSchool(c *fiber.Ctx) error {
	schoolID := c.Params("schoolId")
	if err := h.service.DeleteSchool(c.UserContext(), actorFromContext(c), schoolID); err != nil {
		return respondError(c, h.logger, err, "failed to delete school")
	}

	requestLogger(h.logger, c).Info().Str("school_id", schoolID).Msg("school and related data deleted")
	return utils.SendSuccess(c, "School and related data deleted", nil)
}

func (h *SuperAdminHandler) students(c *fiber.Ctx) error {
	response, err := h.service.SearchStudents(c.UserContext(), c.Query("schoolId"), c.Query("search"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to search students")
	}
	return utils.SendSuccess(c, "students retrieved", response)
}
