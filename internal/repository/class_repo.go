package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/models"
)

// ClassRepository exposes classes and their sections.
type ClassRepository interface {
	ListVisible(ctx context.Context, schoolID string) ([]models.Class, error)
	GetByID(ctx context.Context, id string) (models.Class, error)
	GetSection(ctx context.Context, id string) (models.Section, error)
	FindSectionByName(ctx context.Context, classID, name string) (models.Section, error)
	ListSections(ctx context.Context, classID string) ([]models.Section, error)
	CountStudentsByClass(ctx context.Context, schoolID string) (map[string]int64, error)
	EnsureCatalogClass(ctx context.Context, name string) (models.Class, bool, error)
	EnsureSection(ctx context.Context, classID, name string) (models.Section, bool, error)
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository constructs the class repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

// ListVisible returns catalog classes plus the classes owned by the school.
func (r *classRepository) ListVisible(ctx context.Context, schoolID string) ([]models.Class, error) {
	var classes []models.Class
	err := r.db.WithContext(ctx).
		Where("school_id IS NULL OR school_id = ?", schoolID).
		Find(&classes).Error
	if err != nil {
		return nil, err
	}
	models.SortClassesByCatalog(classes)
	return classes, nil
}

func (r *classRepository) GetByID(ctx context.Context, id string) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error; err != nil {
		return models.Class{}, err
	}
	return class, nil
}

func (r *classRepository) GetSection(ctx context.Context, id string) (models.Section, error) {
	var section models.Section
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&section).Error; err != nil {
		return models.Section{}, err
	}
	return section, nil
}

func (r *classRepository) FindSectionByName(ctx context.Context, classID, name string) (models.Section, error) {
	var section models.Section
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND name = ?", classID, name).
		First(&section).Error
	if err != nil {
		return models.Section{}, err
	}
	return section, nil
}

func (r *classRepository) ListSections(ctx context.Context, classID string) ([]models.Section, error) {
	var sections []models.Section
	err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("name ASC").
		Find(&sections).Error
	return sections, err
}

type classCountRow struct {
	ClassID string
	Total   int64
}

// CountStudentsByClass returns student totals per class for one school.
func (r *classRepository) CountStudentsByClass(ctx context.Context, schoolID string) (map[string]int64, error) {
	var rows []classCountRow
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select("class_id, COUNT(*) AS total").
		Where("school_id = ? AND class_id IS NOT NULL", schoolID).
		Group("class_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ClassID] = row.Total
	}
	return counts, nil
}

// EnsureCatalogClass returns the shared class with the given name, creating it when missing.
func (r *classRepository) EnsureCatalogClass(ctx context.Context, name string) (models.Class, bool, error) {
	class := models.Class{Name: name}
	result := r.db.WithContext(ctx).
		Where("name = ? AND school_id IS NULL", name).
		FirstOrCreate(&class)
	if result.Error != nil {
		return models.Class{}, false, result.Error
	}
	return class, result.RowsAffected > 0, nil
}

// EnsureSection returns the named section of a class, creating it when missing.
func (r *classRepository) EnsureSection(ctx context.Context, classID, name string) (models.Section, bool, error) {
	section := models.Section{ClassID: classID, Name: name}
	result := r.db.WithContext(ctx).
		Where(models.Section{ClassID: classID, Name: name}).
		FirstOrCreate(&section)
	if result.Error != nil {
		return models.Section{}, false, result.Error
	}
	return section, result.RowsAffected > 0, nil
}
