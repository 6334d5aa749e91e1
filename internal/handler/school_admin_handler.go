package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// SchoolAdminHandler serves the read-only pages of the school admin area.
type SchoolAdminHandler struct {
	service service.SchoolAdminService
	logger  zerolog.Logger
}

// NewSchoolAdminHandler constructs the handler.
func NewSchoolAdminHandler(service service.SchoolAdminService, logger zerolog.Logger) *SchoolAdminHandler {
	return &SchoolAdminHandler{
		service: service,
		logger:  logger.With().Str("component", "school_admin_handler").Logger(),
	}
}

// Register attaches the school admin pages to the /admin group.
func (h *SchoolAdminHandler) Register(router fiber.Router) {
	router.Get("/", h.dashboard)
	router.Get("/students", h.allStudents)
	router.Get("/students/new", h.studentForm)
	router.Get("/students/:id", h.editStudent)
	router.Get("/classes", h.classes)
	router.Get("/classes/:classId", h.classRoster)
	router.Get("/sections/by-class/:classId", h.sectionsByClass)
}

func (h *SchoolAdminHandler) dashboard(c *fiber.Ctx) error {
	response, err := h.service.Dashboard(c.UserContext(), actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrSchoolNotFound) {
			return utils.SendRedirect(c, service.SettingsPage)
		}
		return respondError(c, h.logger, err, "failed to load dashboard")
	}
	return utils.SendSuccess(c, "dashboard retrieved", response)
}

func (h *SchoolAdminHandler) allStudents(c *fiber.Ctx) error {
	response, err := h.service.AllStudents(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list students")
	}
	return utils.SendSuccess(c, "students retrieved", response)
}

func (h *SchoolAdminHandler) studentForm(c *fiber.Ctx) error {
	response, err := h.service.StudentForm(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load student form")
	}
	return utils.SendSuccess(c, "student form retrieved", response)
}

func (h *SchoolAdminHandler) editStudent(c *fiber.Ctx) error {
	response, err := h.service.StudentEditForm(c.UserContext(), actorFromContext(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) || errors.Is(err, service.ErrSchoolNotFound) {
			return utils.SendRedirect(c, service.SchoolAdminHome)
		}
		return respondError(c, h.logger, err, "failed to load student")
	}
	return utils.SendSuccess(c, "student retrieved", response)
}

func (h *SchoolAdminHandler) classes(c *fiber.Ctx) error {
	response, err := h.service.Classes(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list classes")
	}
	return utils.SendSuccess(c, "classes retrieved", response)
}

func (h *SchoolAdminHandler) classRoster(c *fiber.Ctx) error {
	response, err := h.service.ClassRoster(c.UserContext(), actorFromContext(c), c.Params("classId"), c.Query("section"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load class")
	}
	return utils.SendSuccess(c, "class retrieved", response)
}

func (h *SchoolAdminHandler) sectionsByClass(c *fiber.Ctx) error {
	sections, err := h.service.SectionsByClass(c.UserContext(), actorFromContext(c), c.Params("classId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to list sections")
	}
	return utils.SendSuccess(c, "sections retrieved", sections)
}
