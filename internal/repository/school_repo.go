package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/models"
)

// SchoolRepository persists schools and the operations spanning a school and its owner.
type SchoolRepository interface {
	CreateWithOwner(ctx context.Context, owner *models.User, school *models.School) error
	GetByID(ctx context.Context, id string) (models.School, error)
	GetByOwner(ctx context.Context, userID string) (models.School, error)
	ListNames(ctx context.Context) ([]models.School, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (models.School, error)
	DeleteCascade(ctx context.Context, id string) error
}

type schoolRepository struct {
	db *gorm.DB
}

// NewSchoolRepository constructs the school repository.
func NewSchoolRepository(db *gorm.DB) SchoolRepository {
	return &schoolRepository{db: db}
}

// CreateWithOwner creates the owner account and its school atomically and links them.
func (r *schoolRepository) CreateWithOwner(ctx context.Context, owner *models.User, school *models.School) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		school.OwnerUserID = owner.ID
		if err := tx.Create(school).Error; err != nil {
			return err
		}

		owner.SchoolID = &school.ID
		return tx.Model(&models.User{}).
			Where("id = ?", owner.ID).
			Update("school_id", school.ID).Error
	})
}

func (r *schoolRepository) GetByID(ctx context.Context, id string) (models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&school).Error; err != nil {
		return models.School{}, err
	}
	return school, nil
}

func (r *schoolRepository) GetByOwner(ctx context.Context, userID string) (models.School, error) {
	var school models.School
	if err := r.db.WithContext(ctx).Where("owner_user_id = ?", userID).First(&school).Error; err != nil {
		return models.School{}, err
	}
	return school, nil
}

func (r *schoolRepository) ListNames(ctx context.Context) ([]models.School, error) {
	var schools []models.School
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Order("name ASC").
		Find(&schools).Error
	return schools, err
}

func (r *schoolRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.School{}).Count(&total).Error
	return total, err
}

func (r *schoolRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (models.School, error) {
	result := r.db.WithContext(ctx).Model(&models.School{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.School{}, result.Error
	}
	return r.GetByID(ctx, id)
}

// DeleteCascade removes a school with its students, school-owned sections and classes, and its owner, in one transaction.
func (r *schoolRepository) DeleteCascade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var school models.School
		if err := tx.Where("id = ?", id).First(&school).Error; err != nil {
			return err
		}

		if err := tx.Where("school_id = ?", id).Delete(&models.Student{}).Error; err != nil {
			return err
		}

		ownedClasses := tx.Model(&models.Class{}).Select("id").Where("school_id = ?", id)
		if err := tx.Where("school_id = ? OR class_id IN (?)", id, ownedClasses).Delete(&models.Section{}).Error; err != nil {
			return err
		}

		if err := tx.Where("school_id = ?", id).Delete(&models.Class{}).Error; err != nil {
			return err
		}

		if err := tx.Where("id = ?", id).Delete(&models.School{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", school.OwnerUserID).Delete(&models.User{}).Error
	})
}
