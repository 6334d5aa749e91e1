package dto

import (
	"time"

	"github.com/noah-isme/idcard-api/internal/models"
)

// DateLayout is the format of date-of-birth inputs.
const DateLayout = "2006-01-02"

// StudentCreateRequest is the add-student form. The photo arrives separately.
type StudentCreateRequest struct {
	Name          string `json:"name" form:"name" validate:"required,max=255"`
	DOB           string `json:"dob" form:"dob" validate:"required,datetime=2006-01-02"`
	FatherName    string `json:"fatherName" form:"fatherName" validate:"required,max=255"`
	MotherName    string `json:"motherName" form:"motherName" validate:"omitempty,max=255"`
	AdmissionNo   string `json:"admissionNo" form:"admissionNo" validate:"omitempty,max=64"`
	Address       string `json:"address" form:"address" validate:"required,max=512"`
	ContactNumber string `json:"contactNumber" form:"contactNumber" validate:"required,max=32"`
	ClassID       string `json:"classId" form:"classId" validate:"omitempty,uuid"`
	SectionID     string `json:"sectionId" form:"sectionId" validate:"omitempty,uuid"`
	CroppedImage  string `json:"croppedImage" form:"croppedImage"`
}

// StudentUpdateRequest is the edit-student form. Status may be set to any valid value.
type StudentUpdateRequest struct {
	Name          string `json:"name" form:"name" validate:"required,max=255"`
	DOB           string `json:"dob" form:"dob" validate:"required,datetime=2006-01-02"`
	FatherName    string `json:"fatherName" form:"fatherName" validate:"required,max=255"`
	MotherName    string `json:"motherName" form:"motherName" validate:"omitempty,max=255"`
	AdmissionNo   string `json:"admissionNo" form:"admissionNo" validate:"omitempty,max=64"`
	Address       string `json:"address" form:"address" validate:"required,max=512"`
	ContactNumber string `json:"contactNumber" form:"contactNumber" validate:"omitempty,max=32"`
	ClassID       string `json:"classId" form:"classId" validate:"omitempty,uuid"`
	SectionID     string `json:"sectionId" form:"sectionId" validate:"omitempty,uuid"`
	Status        string `json:"status" form:"status" validate:"omitempty,oneof=PENDING SUBMITTED PRINTED pending submitted printed"`
	CroppedImage  string `json:"croppedImage" form:"croppedImage"`
}

// StudentResponse is the card-holder view.
type StudentResponse struct {
	ID            string               `json:"id"`
	SchoolID      string               `json:"school_id"`
	SchoolName    string               `json:"school_name,omitempty"`
	ClassID       string               `json:"class_id,omitempty"`
	ClassName     string               `json:"class_name,omitempty"`
	SectionID     string               `json:"section_id,omitempty"`
	SectionName   string               `json:"section_name,omitempty"`
	Name          string               `json:"name"`
	DOB           string               `json:"dob"`
	FatherName    string               `json:"father_name"`
	MotherName    string               `json:"mother_name,omitempty"`
	AdmissionNo   string               `json:"admission_no,omitempty"`
	Address       string               `json:"address"`
	ContactNumber string               `json:"contact_number"`
	PhotoURL      string               `json:"photo_url"`
	Status        models.StudentStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

// NewStudentResponse converts a student with whichever associations are preloaded.
func NewStudentResponse(student models.Student) StudentResponse {
	response := StudentResponse{
		ID:            student.ID,
		SchoolID:      student.SchoolID,
		SchoolName:    student.SchoolName(),
		ClassName:     student.ClassName(),
		SectionName:   student.SectionName(),
		Name:          student.Name,
		FatherName:    student.FatherName,
		MotherName:    student.MotherName,
		Address:       student.Address,
		ContactNumber: student.ContactNumber,
		PhotoURL:      student.PhotoURL,
		Status:        student.Status,
		CreatedAt:     student.CreatedAt,
	}
	if !student.DOB.IsZero() {
		response.DOB = student.DOB.Format(DateLayout)
	}
	if student.ClassID != nil {
		response.ClassID = *student.ClassID
	}
	if student.SectionID != nil {
		response.SectionID = *student.SectionID
	}
	if student.AdmissionNo != nil {
		response.AdmissionNo = *student.AdmissionNo
	}
	return response
}

// NewStudentResponses converts a slice of students.
func NewStudentResponses(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}
	return responses
}
