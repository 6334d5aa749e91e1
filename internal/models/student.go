package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentStatus is the card lifecycle stage of a student.
type StudentStatus string

const (
	// StudentStatusPending is the initial status of a registered student.
	StudentStatusPending StudentStatus = "PENDING"
	// StudentStatusSubmitted marks students sent to the super-admin for printing.
	StudentStatusSubmitted StudentStatus = "SUBMITTED"
	// StudentStatusPrinted marks students whose card has been printed.
	StudentStatusPrinted StudentStatus = "PRINTED"
)

// ParseStudentStatus validates a status string.
func ParseStudentStatus(value string) (StudentStatus, error) {
	switch status := StudentStatus(strings.ToUpper(strings.TrimSpace(value))); status {
	case StudentStatusPending, StudentStatusSubmitted, StudentStatusPrinted:
		return status, nil
	default:
		return "", fmt.Errorf("unknown student status %q", value)
	}
}

// Student is a card holder registered by a school admin.
type Student struct {
	ID            string        `gorm:"size:36;primaryKey" json:"id"`
	SchoolID      string        `gorm:"size:36;not null;index;uniqueIndex:idx_students_school_admission,priority:1" json:"school_id"`
	ClassID       *string       `gorm:"size:36;index" json:"class_id"`
	SectionID     *string       `gorm:"size:36;index" json:"section_id"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	DOB           time.Time     `gorm:"not null" json:"dob"`
	FatherName    string        `gorm:"size:255;not null" json:"father_name"`
	MotherName    string        `gorm:"size:255" json:"mother_name"`
	AdmissionNo   *string       `gorm:"size:64;uniqueIndex:idx_students_school_admission,priority:2" json:"admission_no"`
	Address       string        `gorm:"size:512;not null" json:"address"`
	ContactNumber string        `gorm:"size:32;not null" json:"contact_number"`
	PhotoURL      string        `gorm:"size:1024" json:"photo_url"`
	Status        StudentStatus `gorm:"size:16;not null;default:PENDING;index" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	School  *School  `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Class   *Class   `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Section *Section `gorm:"foreignKey:SectionID" json:"section,omitempty"`
}

// BeforeCreate assigns the identifier and initial status.
func (s *Student) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = StudentStatusPending
	}
	return nil
}

// ClassName returns the preloaded class name or an empty string.
func (s Student) ClassName() string {
	if s.Class == nil {
		return ""
	}
	return s.Class.Name
}

// SectionName returns the preloaded section name or an empty string.
func (s Student) SectionName() string {
	if s.Section == nil {
		return ""
	}
	return s.Section.Name
}

// SchoolName returns the preloaded school name or an empty string.
func (s Student) SchoolName() string {
	if s.School == nil {
		return ""
	}
	return s.School.Name
}
