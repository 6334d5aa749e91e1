package handler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/middleware"
	"github.com/noah-isme/idcard-api/internal/service"
	"github.com/noah-isme/idcard-api/internal/utils"
	"github.com/noah-isme/idcard-api/pkg/imaging"
)

func actorFromContext(c *fiber.Ctx) service.Actor {
	actor, _ := middleware.ActorFrom(c)
	return actor
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "invalid payload"
	}
	field := validationErrors[0]
	if field.Tag() == "required" {
		return fmt.Sprintf("%s is required", field.Field())
	}
	return fmt.Sprintf("%s is invalid", field.Field())
}

// imageFromForm reads an image from a data URL when one is given, otherwise from the multipart file field.
// It returns nil when neither is present.
func imageFromForm(c *fiber.Ctx, dataURL, fileField string) (*service.ImageUpload, error) {
	if dataURL = strings.TrimSpace(dataURL); dataURL != "" {
		data, err := imaging.DecodeDataURL(dataURL)
		if err != nil {
			return nil, service.ErrUnsupportedImage
		}
		return &service.ImageUpload{Name: fileField, Data: data}, nil
	}

	file, err := c.FormFile(fileField)
	if err != nil || file == nil {
		return nil, nil
	}

	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	return &service.ImageUpload{Name: file.Filename, Data: data}, nil
}

// respondError maps service errors to HTTP statuses. Unknown errors are logged and answered with fallback.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, validationMessage(err))
	case errors.Is(err, service.ErrSchoolNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrClassNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCartEmpty):
		return utils.SendError(c, fiber.StatusBadRequest, "No students selected")
	case errors.Is(err, service.ErrSchoolIDRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "School ID is required")
	case errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrInvalidStudentID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrUnsupportedImage),
		errors.Is(err, service.ErrInvalidTemplate):
		return utils.SendError(c, fiber.StatusBadRequest, errorMessage(err))
	case errors.Is(err, service.ErrImageTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrDuplicateAdmissionNo),
		errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "Invalid email or password")
	default:
		requestLogger(logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

// errorMessage drops the decoder detail wrapped into image errors.
func errorMessage(err error) string {
	if errors.Is(err, service.ErrUnsupportedImage) {
		return service.ErrUnsupportedImage.Error()
	}
	return err.Error()
}
