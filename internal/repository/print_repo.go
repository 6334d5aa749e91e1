package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/noah-isme/idcard-api/internal/models"
)

// SchoolPrintSummary holds per-school card counts.
type SchoolPrintSummary struct {
	SchoolID   string
	SchoolName string
	Total      int64
	Submitted  int64
	Printed    int64
}

// ClassPrintSummary holds per-class card counts inside one school.
type ClassPrintSummary struct {
	ClassID   string
	ClassName string
	Total     int64
	Submitted int64
	Printed   int64
}

// PrintRepository aggregates students for the print workflow.
type PrintRepository interface {
	SchoolSummaries(ctx context.Context, limit int) ([]SchoolPrintSummary, error)
	ClassSummaries(ctx context.Context, schoolID string) ([]ClassPrintSummary, error)
	ClassListing(ctx context.Context, schoolID, classID, sectionID string) ([]models.Student, error)
	StatusTotals(ctx context.Context) (map[models.StudentStatus]int64, error)
}

type printRepository struct {
	db *gorm.DB
}

// NewPrintRepository constructs the print aggregation repository.
func NewPrintRepository(db *gorm.DB) PrintRepository {
	return &printRepository{db: db}
}

const statusCountColumns = "COUNT(students.id) AS total, " +
	"COALESCE(SUM(CASE WHEN students.status = ? THEN 1 ELSE 0 END), 0) AS submitted, " +
	"COALESCE(SUM(CASE WHEN students.status = ? THEN 1 ELSE 0 END), 0) AS printed"

// SchoolSummaries returns every school, newest first, with its student counts. A limit of zero returns all schools.
func (r *printRepository) SchoolSummaries(ctx context.Context, limit int) ([]SchoolPrintSummary, error) {
	query := r.db.WithContext(ctx).
		Table("schools").
		Select("schools.id AS school_id, schools.name AS school_name, "+statusCountColumns,
			models.StudentStatusSubmitted, models.StudentStatusPrinted).
		Joins("LEFT JOIN students ON students.school_id = schools.id").
		Group("schools.id, schools.name, schools.created_at").
		Order("schools.created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []SchoolPrintSummary
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ClassSummaries returns the classes that hold at least one student of the school, in catalog order.
func (r *printRepository) ClassSummaries(ctx context.Context, schoolID string) ([]ClassPrintSummary, error) {
	var rows []ClassPrintSummary
	err := r.db.WithContext(ctx).
		Table("students").
		Select("classes.id AS class_id, classes.name AS class_name, "+statusCountColumns,
			models.StudentStatusSubmitted, models.StudentStatusPrinted).
		Joins("JOIN classes ON classes.id = students.class_id").
		Where("students.school_id = ?", schoolID).
		Group("classes.id, classes.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return models.CatalogLess(rows[i].ClassName, rows[j].ClassName)
	})
	return rows, nil
}

// ClassListing returns the submitted and printed students of a class, ordered by status then name.
func (r *printRepository) ClassListing(ctx context.Context, schoolID, classID, sectionID string) ([]models.Student, error) {
	query := r.db.WithContext(ctx).
		Preload("Section").
		Where("school_id = ? AND class_id = ?", schoolID, classID).
		Where("status IN ?", []models.StudentStatus{models.StudentStatusSubmitted, models.StudentStatusPrinted})
	if sectionID != "" {
		query = query.Where("section_id = ?", sectionID)
	}

	var students []models.Student
	err := query.Order("status ASC").Order("name ASC").Find(&students).Error
	return students, err
}

type statusTotalRow struct {
	Status models.StudentStatus
	Total  int64
}

// StatusTotals counts students of all schools per status.
func (r *printRepository) StatusTotals(ctx context.Context) (map[models.StudentStatus]int64, error) {
	var rows []statusTotalRow
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := map[models.StudentStatus]int64{
		models.StudentStatusPending:   0,
		models.StudentStatusSubmitted: 0,
		models.StudentStatusPrinted:   0,
	}
	for _, row := range rows {
		totals[row.Status] = row.Total
	}
	return totals, nil
}
