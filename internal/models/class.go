package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassCatalog is the shared class list in display order.
var ClassCatalog = []string{
	"Play School", "Nursery", "LKG", "UKG",
	"1", "2", "3", "4", "5", "6",
	"7", "8", "9", "10", "11", "12",
}

// DefaultSectionNames are seeded for every catalog class.
var DefaultSectionNames = []string{"A", "B", "C", "D"}

// Class is a grade level. A nil SchoolID marks a shared catalog class.
type Class struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex" json:"name"`
	SchoolID  *string   `gorm:"size:36;index" json:"school_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the identifier.
func (c *Class) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// VisibleTo reports whether a school may attach students to this class.
func (c Class) VisibleTo(schoolID string) bool {
	return c.SchoolID == nil || *c.SchoolID == schoolID
}

// Section divides a class, e.g. "10" / "A".
type Section struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	ClassID   string    `gorm:"size:36;not null;uniqueIndex:idx_sections_class_name,priority:1" json:"class_id"`
	Name      string    `gorm:"size:32;not null;uniqueIndex:idx_sections_class_name,priority:2" json:"name"`
	SchoolID  *string   `gorm:"size:36;index" json:"school_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Class     *Class    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

// BeforeCreate assigns the identifier.
func (s *Section) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// CatalogPosition returns the index of name in ClassCatalog, or -1.
func CatalogPosition(name string) int {
	for i, candidate := range ClassCatalog {
		if candidate == name {
			return i
		}
	}
	return -1
}

// SortClassesByCatalog orders classes by catalog position; unknown names go last, alphabetically.
func SortClassesByCatalog(classes []Class) {
	sort.SliceStable(classes, func(i, j int) bool {
		return catalogLess(classes[i].Name, classes[j].Name)
	})
}

// CatalogLess compares two class names by catalog order.
func CatalogLess(a, b string) bool {
	return catalogLess(a, b)
}

func catalogLess(a, b string) bool {
	pa, pb := CatalogPosition(a), CatalogPosition(b)
	switch {
	case pa >= 0 && pb >= 0:
		return pa < pb
	case pa >= 0:
		return true
	case pb >= 0:
		return false
	default:
		return a < b
	}
}
