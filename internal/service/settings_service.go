package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

// ErrInvalidTemplate indicates an unknown card template.
var ErrInvalidTemplate = errors.New("unknown card template")

// SettingsService manages the school profile, logo, signature and card template.
type SettingsService interface {
	Settings(ctx context.Context, actor Actor) (dto.SettingsResponse, error)
	UpdateSchool(ctx context.Context, actor Actor, req dto.SchoolUpdateRequest, logo *ImageUpload) (dto.SchoolResponse, error)
	UploadSignature(ctx context.Context, actor Actor, signature *ImageUpload) (dto.SchoolResponse, error)
	SelectTemplate(ctx context.Context, actor Actor, template string) (dto.SchoolResponse, error)
}

type settingsService struct {
	users     repository.UserRepository
	schools   repository.SchoolRepository
	media     MediaService
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(users repository.UserRepository, schools repository.SchoolRepository, media MediaService, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SettingsService {
	return &settingsService{
		users:     users,
		schools:   schools,
		media:     media,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "settings_service").Logger(),
	}
}

// Settings returns the admin, the school if one exists, and the available templates.
func (s *settingsService) Settings(ctx context.Context, actor Actor) (dto.SettingsResponse, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	response := dto.SettingsResponse{
		User:      dto.NewUserResponse(user),
		Templates: models.CardTemplates,
	}

	school, err := ownedSchool(ctx, s.schools, actor)
	switch {
	case err == nil:
		schoolResponse := dto.NewSchoolResponse(school)
		response.School = &schoolResponse
	case !errors.Is(err, ErrSchoolNotFound):
		return dto.SettingsResponse{}, err
	}
	return response, nil
}

func (s *settingsService) UpdateSchool(ctx context.Context, actor Actor, req dto.SchoolUpdateRequest, logo *ImageUpload) (dto.SchoolResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.SchoolResponse{}, err
	}

	req.Name = cleanText(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return dto.SchoolResponse{}, err
	}

	updates := map[string]interface{}{
		"name":    req.Name,
		"address": cleanText(req.Address),
		"pincode": cleanText(req.Pincode),
		"state":   cleanText(req.State),
	}
	if !logo.Empty() {
		url, err := s.media.Store(ctx, ImageKindLogo, logo)
		if err != nil {
			return dto.SchoolResponse{}, err
		}
		updates["logo_url"] = url
	}

	return s.apply(ctx, actor, school.ID, updates)
}

func (s *settingsService) UploadSignature(ctx context.Context, actor Actor, signature *ImageUpload) (dto.SchoolResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.SchoolResponse{}, err
	}

	url, err := s.media.Store(ctx, ImageKindSignature, signature)
	if err != nil {
		return dto.SchoolResponse{}, err
	}

	return s.apply(ctx, actor, school.ID, map[string]interface{}{"signature_url": url})
}

func (s *settingsService) SelectTemplate(ctx context.Context, actor Actor, template string) (dto.SchoolResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.SchoolResponse{}, err
	}

	template = strings.TrimSpace(template)
	if !models.IsKnownTemplate(template) {
		return dto.SchoolResponse{}, ErrInvalidTemplate
	}

	return s.apply(ctx, actor, school.ID, map[string]interface{}{"selected_template": template})
}

func (s *settingsService) apply(ctx context.Context, actor Actor, schoolID string, updates map[string]interface{}) (dto.SchoolResponse, error) {
	updated, err := s.schools.Update(ctx, schoolID, updates)
	if err != nil {
		return dto.SchoolResponse{}, err
	}

	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionSchoolUpdated,
		EntityType: "school",
		EntityID:   schoolID,
		Metadata:   map[string]interface{}{"fields": fields},
	})

	return dto.NewSchoolResponse(updated), nil
}
