package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/repository"
)

// PrintBatchService aggregates submitted cards for the super-admin print pages.
type PrintBatchService interface {
	SchoolSummaries(ctx context.Context) (dto.PrintSchoolsResponse, error)
	ClassSummaries(ctx context.Context, schoolID string) (dto.PrintClassesResponse, error)
	ClassListing(ctx context.Context, sessionID, classID, schoolID, section string) (dto.PrintClassResponse, error)
}

type printBatchService struct {
	schools repository.SchoolRepository
	classes repository.ClassRepository
	prints  repository.PrintRepository
	cart    CartStore
	logger  zerolog.Logger
}

// NewPrintBatchService constructs the batch print aggregator.
func NewPrintBatchService(schools repository.SchoolRepository, classes repository.ClassRepository, prints repository.PrintRepository, cart CartStore, logger zerolog.Logger) PrintBatchService {
	return &printBatchService{
		schools: schools,
		classes: classes,
		prints:  prints,
		cart:    cart,
		logger:  logger.With().Str("component", "print_batch_service").Logger(),
	}
}

func (s *printBatchService) SchoolSummaries(ctx context.Context) (dto.PrintSchoolsResponse, error) {
	summaries, err := s.prints.SchoolSummaries(ctx, 0)
	if err != nil {
		return dto.PrintSchoolsResponse{}, err
	}
	return dto.PrintSchoolsResponse{Schools: schoolSummaryResponses(summaries)}, nil
}

// ClassSummaries lists the classes that hold at least one student of the school.
func (s *printBatchService) ClassSummaries(ctx context.Context, schoolID string) (dto.PrintClassesResponse, error) {
	schoolID, ok := CanonicalID(schoolID)
	if !ok {
		return dto.PrintClassesResponse{}, ErrSchoolNotFound
	}

	summaries, err := s.prints.ClassSummaries(ctx, schoolID)
	if err != nil {
		return dto.PrintClassesResponse{}, err
	}

	classes := make([]dto.ClassSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		classes = append(classes, dto.ClassSummaryResponse{
			ClassID:        summary.ClassID,
			ClassName:      summary.ClassName,
			TotalStudents:  summary.Total,
			SubmittedCount: summary.Submitted,
			PrintedCount:   summary.Printed,
		})
	}
	return dto.PrintClassesResponse{SchoolID: schoolID, Classes: classes}, nil
}

// ClassListing returns the SUBMITTED and PRINTED students of a class in one school.
func (s *printBatchService) ClassListing(ctx context.Context, sessionID, classID, schoolID, section string) (dto.PrintClassResponse, error) {
	schoolID = strings.TrimSpace(schoolID)
	if schoolID == "" {
		return dto.PrintClassResponse{}, ErrSchoolIDRequired
	}
	schoolID, ok := CanonicalID(schoolID)
	if !ok {
		return dto.PrintClassResponse{}, ErrSchoolNotFound
	}

	school, err := s.schools.GetByID(ctx, schoolID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PrintClassResponse{}, ErrSchoolNotFound
		}
		return dto.PrintClassResponse{}, err
	}
	class, err := visibleClass(ctx, s.classes, school.ID, classID)
	if err != nil {
		return dto.PrintClassResponse{}, err
	}

	sectionID, selected, err := resolveSectionFilter(ctx, s.classes, class.ID, section)
	if err != nil {
		return dto.PrintClassResponse{}, err
	}

	students, err := s.prints.ClassListing(ctx, school.ID, class.ID, sectionID)
	if err != nil {
		return dto.PrintClassResponse{}, err
	}

	cart, err := s.cart.List(ctx, sessionID)
	if err != nil {
		return dto.PrintClassResponse{}, err
	}

	response := dto.PrintClassResponse{
		School:          dto.NewSchoolResponse(school),
		Class:           dto.NewClassResponse(class),
		Students:        make([]dto.StudentResponse, 0, len(students)),
		Cart:            cart,
		SelectedSection: selected,
	}
	for _, student := range students {
		student.Class = &class
		student.School = &school
		response.Students = append(response.Students, dto.NewStudentResponse(student))
	}
	return response, nil
}

