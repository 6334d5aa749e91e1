package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// StudentHandler handles student mutations of the school admin.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student mutation routes to the /admin group.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Post("/students", h.create)
	router.Put("/students/:id", h.update)
	router.Delete("/students/:id", h.delete)
	router.Post("/classes/:classId/submit-all", h.submitAll)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var req dto.StudentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	photo, err := imageFromForm(c, req.CroppedImage, "image")
	if err != nil {
		return respondError(c, h.logger, err, "failed to read image")
	}

	student, err := h.service.Create(c.UserContext(), actorFromContext(c), req, photo)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create student")
	}

	return utils.SendCreated(c, "student created", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	var req dto.StudentUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	photo, err := imageFromForm(c, req.CroppedImage, "image")
	if err != nil {
		return respondError(c, h.logger, err, "failed to read image")
	}

	student, err := h.service.Update(c.UserContext(), actorFromContext(c), c.Params("id"), req, photo)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actorFromContext(c), c.Params("id")); err != nil {
		return respondError(c, h.logger, err, "failed to delete student")
	}
	return utils.SendSuccess(c, "student deleted", nil)
}

func (h *StudentHandler) submitAll(c *fiber.Ctx) error {
	result, err := h.service.SubmitAll(c.UserContext(), actorFromContext(c), c.Params("classId"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to submit class")
	}
	return utils.SendSuccess(c, "students submitted for printing", result)
}
