package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/observability"
	"github.com/noah-isme/idcard-api/internal/repository"
)

// StudentService implements the school admin's student workflow.
type StudentService interface {
	Create(ctx context.Context, actor Actor, req dto.StudentCreateRequest, photo *ImageUpload) (dto.StudentResponse, error)
	Update(ctx context.Context, actor Actor, id string, req dto.StudentUpdateRequest, photo *ImageUpload) (dto.StudentResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
	SubmitAll(ctx context.Context, actor Actor, classID string) (dto.SubmitAllResponse, error)
}

type studentService struct {
	schools   repository.SchoolRepository
	students  repository.StudentRepository
	classes   repository.ClassRepository
	media     MediaService
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStudentService constructs the student workflow service.
func NewStudentService(schools repository.SchoolRepository, students repository.StudentRepository, classes repository.ClassRepository, media MediaService, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) StudentService {
	return &studentService{
		schools:   schools,
		students:  students,
		classes:   classes,
		media:     media,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, actor Actor, req dto.StudentCreateRequest, photo *ImageUpload) (dto.StudentResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}
	if photo.Empty() {
		return dto.StudentResponse{}, ErrImageRequired
	}

	dob, err := parseDOB(req.DOB)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	classID, sectionID, err := s.placement(ctx, school.ID, req.ClassID, req.SectionID)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	photoURL, err := s.media.Store(ctx, ImageKindPhoto, photo)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		SchoolID:      school.ID,
		ClassID:       classID,
		SectionID:     sectionID,
		Name:          cleanText(req.Name),
		DOB:           dob,
		FatherName:    cleanText(req.FatherName),
		MotherName:    cleanText(req.MotherName),
		AdmissionNo:   optionalText(req.AdmissionNo),
		Address:       cleanText(req.Address),
		ContactNumber: cleanText(req.ContactNumber),
		PhotoURL:      photoURL,
		Status:        models.StudentStatusPending,
	}

	if err := s.students.Create(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrDuplicateAdmissionNo
		}
		return dto.StudentResponse{}, fmt.Errorf("create student: %w", err)
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionStudentCreated,
		EntityType: "student",
		EntityID:   student.ID,
		Metadata:   map[string]interface{}{"school_id": school.ID},
	})

	created, err := s.students.GetForSchool(ctx, school.ID, student.ID)
	if err != nil {
		return dto.NewStudentResponse(student), nil
	}
	return dto.NewStudentResponse(created), nil
}

// Update edits a student of the admin's school. Status may be set to any value, including backwards.
func (s *studentService) Update(ctx context.Context, actor Actor, id string, req dto.StudentUpdateRequest, photo *ImageUpload) (dto.StudentResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	id, ok := CanonicalID(id)
	if !ok {
		return dto.StudentResponse{}, ErrStudentNotFound
	}

	current, err := s.students.GetForSchool(ctx, school.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}
	dob, err := parseDOB(req.DOB)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	classID, sectionID, err := s.placement(ctx, school.ID, req.ClassID, req.SectionID)
	if err != nil {
		return dto.StudentResponse{}, err
	}

	updates := map[string]interface{}{
		"name":         cleanText(req.Name),
		"dob":          dob,
		"father_name":  cleanText(req.FatherName),
		"mother_name":  cleanText(req.MotherName),
		"admission_no": optionalText(req.AdmissionNo),
		"address":      cleanText(req.Address),
		"class_id":     classID,
		"section_id":   sectionID,
	}
	if contact := cleanText(req.ContactNumber); contact != "" {
		updates["contact_number"] = contact
	}

	previousStatus := current.Status
	if strings.TrimSpace(req.Status) != "" {
		status, err := models.ParseStudentStatus(req.Status)
		if err != nil {
			return dto.StudentResponse{}, ErrInvalidStatus
		}
		updates["status"] = status
	}

	if !photo.Empty() {
		photoURL, err := s.media.Store(ctx, ImageKindPhoto, photo)
		if err != nil {
			return dto.StudentResponse{}, err
		}
		updates["photo_url"] = photoURL
	}

	updated, err := s.students.Update(ctx, school.ID, id, updates)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.StudentResponse{}, ErrStudentNotFound
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return dto.StudentResponse{}, ErrDuplicateAdmissionNo
		}
		return dto.StudentResponse{}, fmt.Errorf("update student: %w", err)
	}

	metadata := map[string]interface{}{"school_id": school.ID}
	if updated.Status != previousStatus {
		metadata["status_from"] = string(previousStatus)
		metadata["status_to"] = string(updated.Status)
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionStudentUpdated,
		EntityType: "student",
		EntityID:   id,
		Metadata:   metadata,
	})

	return dto.NewStudentResponse(updated), nil
}

func (s *studentService) Delete(ctx context.Context, actor Actor, id string) error {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return err
	}
	id, ok := CanonicalID(id)
	if !ok {
		return ErrStudentNotFound
	}

	if err := s.students.Delete(ctx, school.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionStudentDeleted,
		EntityType: "student",
		EntityID:   id,
		Metadata:   map[string]interface{}{"school_id": school.ID},
	})
	return nil
}

// SubmitAll moves the PENDING students of one class in the admin's school to SUBMITTED.
func (s *studentService) SubmitAll(ctx context.Context, actor Actor, classID string) (dto.SubmitAllResponse, error) {
	school, err := ownedSchool(ctx, s.schools, actor)
	if err != nil {
		return dto.SubmitAllResponse{}, err
	}
	class, err := visibleClass(ctx, s.classes, school.ID, classID)
	if err != nil {
		return dto.SubmitAllResponse{}, err
	}

	affected, err := s.students.SubmitPending(ctx, school.ID, class.ID)
	if err != nil {
		return dto.SubmitAllResponse{}, fmt.Errorf("submit class: %w", err)
	}

	observability.StudentsSubmitted().Add(float64(affected))
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     ActionClassSubmitted,
		EntityType: "class",
		EntityID:   class.ID,
		Metadata:   map[string]interface{}{"school_id": school.ID, "submitted": affected},
	})
	s.logger.Info().Str("school_id", school.ID).Str("class_id", class.ID).Int64("submitted", affected).Msg("class submitted for printing")

	return dto.SubmitAllResponse{ClassID: class.ID, Submitted: affected}, nil
}

// placement validates the chosen class and section and returns the ids to store.
func (s *studentService) placement(ctx context.Context, schoolID, classID, sectionID string) (*string, *string, error) {
	classRef := optionalID(classID)
	sectionRef := optionalID(sectionID)

	if classRef == nil {
		if sectionRef != nil {
			return nil, nil, ErrSectionNotFound
		}
		return nil, nil, nil
	}

	class, err := visibleClass(ctx, s.classes, schoolID, *classRef)
	if err != nil {
		return nil, nil, err
	}
	if sectionRef == nil {
		return &class.ID, nil, nil
	}

	sectionID, ok := CanonicalID(*sectionRef)
	if !ok {
		return nil, nil, ErrSectionNotFound
	}
	section, err := s.classes.GetSection(ctx, sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSectionNotFound
		}
		return nil, nil, err
	}
	if section.ClassID != class.ID {
		return nil, nil, ErrSectionNotFound
	}
	return &class.ID, &section.ID, nil
}

func parseDOB(value string) (time.Time, error) {
	dob, err := time.Parse(dto.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return dob, nil
}
