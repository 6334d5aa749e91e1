package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
)

// SettingsHandler serves the school profile settings.
type SettingsHandler struct {
	service service.SettingsService
	logger  zerolog.Logger
}

// NewSettingsHandler constructs the handler.
func NewSettingsHandler(service service.SettingsService, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		logger:  logger.With().Str("component", "settings_handler").Logger(),
	}
}

// Register attaches settings routes to the /admin group.
func (h *SettingsHandler) Register(router fiber.Router) {
	router.Get("/settings", h.get)
	router.Put("/settings", h.update)
	router.Post("/settings/signature", h.signature)
	router.Post("/settings/template", h.template)
}

func (h *SettingsHandler) get(c *fiber.Ctx) error {
	response, err := h.service.Settings(c.UserContext(), actorFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load settings")
	}
	return utils.SendSuccess(c, "settings retrieved", response)
}

func (h *SettingsHandler) update(c *fiber.Ctx) error {
	var req dto.SchoolUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	logo, err := imageFromForm(c, "", "logo")
	if err != nil {
		return respondError(c, h.logger, err, "failed to read logo")
	}

	school, err := h.service.UpdateSchool(c.UserContext(), actorFromContext(c), req, logo)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update school")
	}
	return utils.SendSuccess(c, "school updated", school)
}

func (h *SettingsHandler) signature(c *fiber.Ctx) error {
	signature, err := imageFromForm(c, "", "signature")
	if err != nil {
		return respondError(c, h.logger, err, "failed to read signature")
	}

	school, err := h.service.UploadSignature(c.UserContext(), actorFromContext(c), signature)
	if err != nil {
		return respondError(c, h.logger, err, "failed to upload signature")
	}
	return utils.SendSuccess(c, "signature uploaded", school)
}

func (h *SettingsHandler) template(c *fiber.Ctx) error {
	var req dto.TemplateSelectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	school, err := h.service.SelectTemplate(c.UserContext(), actorFromContext(c), req.Template)
	if err != nil {
		return respondError(c, h.logger, err, "failed to select template")
	}
	return utils.SendSuccess(c, "template selected", school)
}
