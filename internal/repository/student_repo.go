package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/models"
)

// StudentCountFilter narrows student counts. Empty fields are ignored.
type StudentCountFilter struct {
	SchoolID string
	ClassID  string
	Status   models.StudentStatus
}

// StudentSearchFilter drives the cross-school student search.
type StudentSearchFilter struct {
	SchoolID string
	Search   string
}

// StudentRepository persists students of all schools.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetForSchool(ctx context.Context, schoolID, id string) (models.Student, error)
	Update(ctx context.Context, schoolID, id string, updates map[string]interface{}) (models.Student, error)
	Delete(ctx context.Context, schoolID, id string) error
	Count(ctx context.Context, filter StudentCountFilter) (int64, error)
	Latest(ctx context.Context, schoolID string, limit int) ([]models.Student, error)
	ListBySchool(ctx context.Context, schoolID string) ([]models.Student, error)
	ListRoster(ctx context.Context, schoolID, classID, sectionID string) ([]models.Student, error)
	SubmitPending(ctx context.Context, schoolID, classID string) (int64, error)
	MarkPrinted(ctx context.Context, ids []string) (int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Student, error)
	Search(ctx context.Context, filter StudentSearchFilter) ([]models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Omit("School", "Class", "Section").Create(student).Error
}

func (r *studentRepository) GetForSchool(ctx context.Context, schoolID, id string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Section").
		Where("id = ? AND school_id = ?", id, schoolID).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, schoolID, id string, updates map[string]interface{}) (models.Student, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ? AND school_id = ?", id, schoolID).
		Updates(updates)
	if result.Error != nil {
		return models.Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return r.GetForSchool(ctx, schoolID, id)
}

func (r *studentRepository) Delete(ctx context.Context, schoolID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND school_id = ?", id, schoolID).
		Delete(&models.Student{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepository) Count(ctx context.Context, filter StudentCountFilter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})
	if filter.SchoolID != "" {
		query = query.Where("school_id = ?", filter.SchoolID)
	}
	if filter.ClassID != "" {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

// Latest returns the most recently registered students of a school.
func (r *studentRepository) Latest(ctx context.Context, schoolID string, limit int) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Section").
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Limit(limit).
		Find(&students).Error
	return students, err
}

func (r *studentRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Section").
		Where("school_id = ?", schoolID).
		Order("created_at DESC").
		Find(&students).Error
	return students, err
}

// ListRoster returns the students of one class in a school, sorted by name.
func (r *studentRepository) ListRoster(ctx context.Context, schoolID, classID, sectionID string) ([]models.Student, error) {
	query := r.db.WithContext(ctx).
		Preload("Section").
		Where("school_id = ? AND class_id = ?", schoolID, classID)
	if sectionID != "" {
		query = query.Where("section_id = ?", sectionID)
	}

	var students []models.Student
	err := query.Order("name ASC").Find(&students).Error
	return students, err
}

// SubmitPending moves every PENDING student of a class in a school to SUBMITTED.
func (r *studentRepository) SubmitPending(ctx context.Context, schoolID, classID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("school_id = ? AND class_id = ? AND status = ?", schoolID, classID, models.StudentStatusPending).
		Update("status", models.StudentStatusSubmitted)
	return result.RowsAffected, result.Error
}

// MarkPrinted sets PRINTED on the given students regardless of their current status.
func (r *studentRepository) MarkPrinted(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Student{}).
			Where("id IN ?", ids).
			Update("status", models.StudentStatusPrinted)
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}

// ListByIDs loads students with their school, class and section, keeping the order of ids.
func (r *studentRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Student, error) {
	if len(ids) == 0 {
		return []models.Student{}, nil
	}

	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("School").
		Preload("Class").
		Preload("Section").
		Where("id IN ?", ids).
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	ordered := make([]models.Student, 0, len(students))
	for _, id := range ids {
		if student, ok := byID[id]; ok {
			ordered = append(ordered, student)
		}
	}
	return ordered, nil
}

func (r *studentRepository) Search(ctx context.Context, filter StudentSearchFilter) ([]models.Student, error) {
	query := r.db.WithContext(ctx).
		Preload("School").
		Preload("Class")

	if filter.SchoolID != "" {
		query = query.Where("school_id = ?", filter.SchoolID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", like)
	}

	var students []models.Student
	err := query.Order("created_at DESC").Find(&students).Error
	return students, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
