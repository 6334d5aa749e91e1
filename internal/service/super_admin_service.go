package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

const latestSchoolsLimit = 3

// SuperAdminService answers the cross-school pages of the super-admin.
type SuperAdminService interface {
	Dashboard(ctx context.Context) (dto.SuperAdminDashboardResponse, error)
	Schools(ctx context.Context) ([]dto.SchoolSummaryResponse, error)
	DeleteSchool(ctx context.Context, actor Actor, schoolID string) error
	SearchStudents(ctx context.Context, schoolID, search string) (dto.StudentSearchResponse, error)
}

type superAdminService struct {
	schools  repository.SchoolRepository
	students repository.StudentRepository
	prints   repository.PrintRepository
	cache    *DashboardCache
	activity ActivityRecorder
	logger   zerolog.Logger
}

// NewSuperAdminService constructs the super-admin service.
func NewSuperAdminService(schools repository.SchoolRepository, students repository.StudentRepository, prints repository.PrintRepository, cache *DashboardCache, activity ActivityRecorder, logger zerolog.Logger) SuperAdminService {
	return &superAdminService{
		schools:  schools,
		students: students,
		prints:   prints,
		cache:    cache,
		activity: activity,
		logger:   logger.With().Str("component", "super_admin_service").Logger(),
	}
}

func (s *superAdminService) Dashboard(ctx context.Context) (dto.SuperAdminDashboardResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/idcard-api/internal/service/super_admin")
	ctx, span := tracer.Start(ctx, "superadmin.dashboard")
	defer span.End()

	var cached dto.SuperAdminDashboardResponse
	if s.cache.Load(ctx, superAdminDashboardKey, &cached) {
		cached.CacheHit = true
		span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
		return cached, nil
	}

	totalSchools, err := s.schools.Count(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.SuperAdminDashboardResponse{}, err
	}
	totals, err := s.prints.StatusTotals(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.SuperAdminDashboardResponse{}, err
	}
	latest, err := s.prints.SchoolSummaries(ctx, latestSchoolsLimit)
	if err != nil {
		span.RecordError(err)
		return dto.SuperAdminDashboardResponse{}, err
	}

	var totalStudents int64
	for _, count := range totals {
		totalStudents += count
	}

	response := dto.SuperAdminDashboardResponse{
		TotalSchools:         totalSchools,
		TotalStudents:        totalStudents,
		PendingApprovalCount: totals[models.StudentStatusSubmitted],
		PrintedCount:         totals[models.StudentStatusPrinted],
		LatestSchools:        schoolSummaryResponses(latest),
	}
	s.cache.Store(ctx, superAdminDashboardKey, response)
	return response, nil
}

func (s *superAdminService) Schools(ctx context.Context) ([]dto.SchoolSummaryResponse, error) {
	summaries, err := s.prints.SchoolSummaries(ctx, 0)
	if err != nil {
		return nil, err
	}
	return schoolSummaryResponses(summaries), nil
}

// DeleteSchool removes a school with its students, own classes and sections, and owner account.
func (s *superAdminService) DeleteSchool(ctx context.Context, actor Actor, schoolID string) error {
	schoolID, ok := CanonicalID(schoolID)
	if !ok {
		return ErrSchoolNotFound
	}

	if err := s.schools.DeleteCascade(ctx, schoolID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSchoolNotFound
		}
		return fmt.Errorf("delete school: %w", err)
	}

	s.cache.Invalidate(ctx)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionSchoolDeleted,
		EntityType: "school",
		EntityID:   schoolID,
	})
	s.logger.Info().Str("school_id", schoolID).Msg("school deleted")
	return nil
}

// SearchStudents lists students newest first, optionally restricted to a school and a name fragment.
func (s *superAdminService) SearchStudents(ctx context.Context, schoolID, search string) (dto.StudentSearchResponse, error) {
	schoolID = strings.TrimSpace(schoolID)
	search = strings.TrimSpace(search)

	filter := repository.StudentSearchFilter{Search: search}
	if schoolID != "" {
		canonical, ok := CanonicalID(schoolID)
		if !ok {
			return dto.StudentSearchResponse{}, ErrSchoolNotFound
		}
		schoolID = canonical
		filter.SchoolID = schoolID
	}

	students, err := s.students.Search(ctx, filter)
	if err != nil {
		return dto.StudentSearchResponse{}, err
	}
	schools, err := s.schools.ListNames(ctx)
	if err != nil {
		return dto.StudentSearchResponse{}, err
	}

	options := make([]dto.SchoolOption, 0, len(schools))
	for _, school := range schools {
		options = append(options, dto.SchoolOption{ID: school.ID, Name: school.Name})
	}

	return dto.StudentSearchResponse{
		Students:       dto.NewStudentResponses(students),
		Schools:        options,
		SelectedSchool: schoolID,
		SearchText:     search,
	}, nil
}

func schoolSummaryResponses(summaries []repository.SchoolPrintSummary) []dto.SchoolSummaryResponse {
	responses := make([]dto.SchoolSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		responses = append(responses, dto.SchoolSummaryResponse{
			ID:             summary.SchoolID,
			Name:           summary.SchoolName,
			TotalStudents:  summary.Total,
			SubmittedCount: summary.Submitted,
			PrintedCount:   summary.Printed,
		})
	}
	return responses
}
