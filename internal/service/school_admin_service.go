package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

const latestStudentsLimit = 3

// AllSections is the section filter value that disables section filtering.
const AllSections = "all"

// SchoolAdminService answers the read-only pages of a school admin.
type SchoolAdminService interface {
	Dashboard(ctx context.Context, actor Actor) (dto.AdminDashboardResponse, error)
	AllStudents(ctx context.Context, actor Actor) (dto.AllStudentsResponse, error)
	Classes(ctx context.Context, actor Actor) (dto.ClassesResponse, error)
	ClassRoster(ctx context.Context, actor Actor, classID, section string) (dto.ClassRosterResponse, error)
	SectionsByClass(ctx context.Context, actor Actor, classID string) ([]dto.SectionResponse, error)
	StudentForm(ctx context.Context, actor Actor) (dto.StudentFormResponse, error)
	StudentEditForm(ctx context.Context, actor Actor, studentID string) (dto.StudentEditResponse, error)
}

type schoolAdminService struct {
	schools  repository.SchoolRepository
	students repository.StudentRepository
	classes  repository.ClassRepository
	logger   zerolog.Logger
}

// NewSchoolAdminService constructs the school admin query service.
func NewSchoolAdminService(schools repository.SchoolRepository, students repository.StudentRepository, classes repository.ClassRepository, logger zerolog.Logger) SchoolAdminService {
	return &schoolAdminService{
		schools:  schools,
		students: students,
		classes:  classes,
		logger:   logger.With().Str("component", "school_admin_service").Logger(),
	}
}

// ownedSchool resolves the school owned by the acting admin.
func ownedSchool(ctx context.Context, schools repository.SchoolRepository, actor Actor) (models.School, error) {
	school, err := schools.GetByOwner(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.School{}, ErrSchoolNotFound
		}
		return models.School{}, err
	}
	return school, nil
}

// visibleClass loads a class the school may use.
func visibleClass(ctx context.Context, classes repository.ClassRepository, schoolID, classID string) (models.Class, error) {
	classID, ok := CanonicalID(classID)
	if !ok {
		return models.Class{}, ErrClassNotFound
	}
	class, err := classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrClassNotFound
		}
		return models.Class{}, err
	}
	if !class.VisibleTo(schoolID) {
		return models.Class{}, ErrClassNotFound
	}
	return class, nil
}

// resolveSectionFilter maps a section name to its id. Unknown names and "all" disable the filter.
func resolveSectionFilter(ctx context.Context, classes repository.ClassRepository, classID, section string) (string, string, error) {
	section = strings.TrimSpace(section)
	if section == "" || strings.EqualFold(section, AllSections) {
		return "", AllSections, nil
	}

	found, err := classes.FindSectionByName(ctx, classID, section)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", section, nil
		}
		return "", "", err
	}
	return found.ID, section, nil
}

func (s *schoolAdminService) Dashboard(ctx context.Context, actor Actor) (dto.AdminDashboardResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	total, err := s.students.Count(ctx, repository.StudentCountFilter{SchoolID: school.ID})
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	pending, err := s.students.Count(ctx, repository.StudentCountFilter{SchoolID: school.ID, Status: models.StudentStatusPending})
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}
	submitted, err := s.students.Count(ctx, repository.StudentCountFilter{SchoolID: school.ID, Status: models.StudentStatusSubmitted})
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	latest, err := s.students.Latest(ctx, school.ID, latestStudentsLimit)
	if err != nil {
		return dto.AdminDashboardResponse{}, err
	}

	return dto.AdminDashboardResponse{
		School:         dto.NewSchoolResponse(school),
		TotalStudents:  total,
		PendingCount:   pending,
		SubmittedCount: submitted,
		LatestStudents: dto.NewStudentResponses(latest),
	}, nil
}

// AllStudents lists the school's students. Pending and submitted counts are scoped to the school.
func (s *schoolAdminService) AllStudents(ctx context.Context, actor Actor) (dto.AllStudentsResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.AllStudentsResponse{}, err
	}

	students, err := s.students.ListBySchool(ctx, school.ID)
	if err != nil {
		return dto.AllStudentsResponse{}, err
	}

	var pending, submitted int64
	for _, student := range students {
		switch student.Status {
		case models.StudentStatusPending:
			pending++
		case models.StudentStatusSubmitted:
			submitted++
		}
	}

	return dto.AllStudentsResponse{
		School:         dto.NewSchoolResponse(school),
		Students:       dto.NewStudentResponses(students),
		PendingCount:   pending,
		SubmittedCount: submitted,
	}, nil
}

func (s *schoolAdminService) Classes(ctx context.Context, actor Actor) (dto.ClassesResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.ClassesResponse{}, err
	}

	classes, err := s.classes.ListVisible(ctx, school.ID)
	if err != nil {
		return dto.ClassesResponse{}, err
	}
	counts, err := s.classes.CountStudentsByClass(ctx, school.ID)
	if err != nil {
		return dto.ClassesResponse{}, err
	}

	overview := make([]dto.ClassOverview, 0, len(classes))
	for _, class := range classes {
		overview = append(overview, dto.ClassOverview{
			ClassResponse: dto.NewClassResponse(class),
			TotalStudents: counts[class.ID],
		})
	}

	return dto.ClassesResponse{School: dto.NewSchoolResponse(school), Classes: overview}, nil
}

func (s *schoolAdminService) ClassRoster(ctx context.Context, actor Actor, classID, section string) (dto.ClassRosterResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}
	class, err := visibleClass(ctx, s.classes, school.ID, classID)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}

	sectionID, selected, err := resolveSectionFilter(ctx, s.classes, class.ID, section)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}

	students, err := s.students.ListRoster(ctx, school.ID, class.ID, sectionID)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}
	sections, err := s.classes.ListSections(ctx, class.ID)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}

	response := dto.ClassRosterResponse{
		School:          dto.NewSchoolResponse(school),
		ClassID:         class.ID,
		ClassName:       class.Name,
		SelectedSection: selected,
		Sections:        dto.NewSectionResponses(sections),
		Students:        make([]dto.StudentResponse, 0, len(students)),
		TotalIDs:        len(students),
	}
	for _, student := range students {
		student.Class = &class
		response.Students = append(response.Students, dto.NewStudentResponse(student))
		switch student.Status {
		case models.StudentStatusPending:
			response.PendingCount++
		case models.StudentStatusSubmitted:
			response.SubmittedCount++
		}
	}
	return response, nil
}

func (s *schoolAdminService) SectionsByClass(ctx context.Context, actor Actor, classID string) ([]dto.SectionResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return nil, err
	}
	class, err := visibleClass(ctx, s.classes, school.ID, classID)
	if err != nil {
		return nil, err
	}

	sections, err := s.classes.ListSections(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewSectionResponses(sections), nil
}

func (s *schoolAdminService) StudentForm(ctx context.Context, actor Actor) (dto.StudentFormResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.StudentFormResponse{}, err
	}
	classes, err := s.classes.ListVisible(ctx, school.ID)
	if err != nil {
		return dto.StudentFormResponse{}, err
	}
	return dto.StudentFormResponse{
		School:  dto.NewSchoolResponse(school),
		Classes: dto.NewClassResponses(classes),
	}, nil
}

func (s *schoolAdminService) StudentEditForm(ctx context.Context, actor Actor, studentID string) (dto.StudentEditResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.StudentEditResponse{}, err
	}
	studentID, ok := CanonicalID(studentID)
	if !ok {
		return dto.StudentEditResponse{}, ErrStudentNotFound
	}

	student, err := s.students.GetForSchool(ctx, school.ID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentEditResponse{}, ErrStudentNotFound
		}
		return dto.StudentEditResponse{}, err
	}

	classes, err := s.classes.ListVisible(ctx, school.ID)
	if err != nil {
		return dto.StudentEditResponse{}, err
	}

	sections := []models.Section{}
	if student.ClassID != nil {
		sections, err = s.classes.ListSections(ctx, *student.ClassID)
		if err != nil {
			return dto.StudentEditResponse{}, err
		}
	}

	return dto.StudentEditResponse{
		School:   dto.NewSchoolResponse(school),
		Student:  dto.NewStudentResponse(student),
		Classes:  dto.NewClassResponses(classes),
		Sections: dto.NewSectionResponses(sections),
	}, nil
}
