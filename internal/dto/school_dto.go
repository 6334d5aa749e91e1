package dto

import (
	"time"

	"github.com/noah-isme/idcard-api/internal/models"
)

// SchoolResponse is the public view of a school.
type SchoolResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Address          string    `json:"address"`
	Pincode          string    `json:"pincode"`
	State            string    `json:"state"`
	LogoURL          string    `json:"logo_url"`
	SignatureURL     string    `json:"signature_url"`
	SelectedTemplate string    `json:"selected_template"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewSchoolResponse converts a school model.
func NewSchoolResponse(school models.School) SchoolResponse {
	return SchoolResponse{
		ID:               school.ID,
		Name:             school.Name,
		Address:          school.Address,
		Pincode:          school.Pincode,
		State:            school.State,
		LogoURL:          school.LogoURL,
		SignatureURL:     school.SignatureURL,
		SelectedTemplate: school.SelectedTemplate,
		CreatedAt:        school.CreatedAt,
	}
}

// SchoolOption is an entry of the school filter drop-down.
type SchoolOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClassResponse describes a class.
type ClassResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Shared bool   `json:"shared"`
}

// NewClassResponse converts a class model.
func NewClassResponse(class models.Class) ClassResponse {
	return ClassResponse{ID: class.ID, Name: class.Name, Shared: class.SchoolID == nil}
}

// NewClassResponses converts a slice of classes.
func NewClassResponses(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}

// SectionResponse describes a section.
type SectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewSectionResponses converts a slice of sections.
func NewSectionResponses(sections []models.Section) []SectionResponse {
	responses := make([]SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, SectionResponse{ID: section.ID, Name: section.Name})
	}
	return responses
}

// AdminDashboardResponse is the school admin landing page.
type AdminDashboardResponse struct {
	School         SchoolResponse    `json:"school"`
	TotalStudents  int64             `json:"total_students"`
	PendingCount   int64             `json:"pending_count"`
	SubmittedCount int64             `json:"submitted_count"`
	LatestStudents []StudentResponse `json:"latest_students"`
}

// AllStudentsResponse lists every student of the admin's school.
type AllStudentsResponse struct {
	School         SchoolResponse    `json:"school"`
	Students       []StudentResponse `json:"students"`
	PendingCount   int64             `json:"pending_count"`
	SubmittedCount int64             `json:"submitted_count"`
}

// ClassOverview is a class with the number of students the school has in it.
type ClassOverview struct {
	ClassResponse
	TotalStudents int64 `json:"total_students"`
}

// ClassesResponse lists the classes visible to a school.
type ClassesResponse struct {
	School  SchoolResponse  `json:"school"`
	Classes []ClassOverview `json:"classes"`
}

// ClassRosterResponse is the class preview of a school admin.
type ClassRosterResponse struct {
	School          SchoolResponse    `json:"school"`
	ClassID         string            `json:"class_id"`
	ClassName       string            `json:"class_name"`
	SelectedSection string            `json:"selected_section"`
	Sections        []SectionResponse `json:"sections"`
	Students        []StudentResponse `json:"students"`
	TotalIDs        int               `json:"total_ids"`
	PendingCount    int               `json:"pending_count"`
	SubmittedCount  int               `json:"submitted_count"`
}

// StudentFormResponse feeds the add-student form.
type StudentFormResponse struct {
	School  SchoolResponse  `json:"school"`
	Classes []ClassResponse `json:"classes"`
}

// StudentEditResponse feeds the edit-student form.
type StudentEditResponse struct {
	School   SchoolResponse    `json:"school"`
	Student  StudentResponse   `json:"student"`
	Classes  []ClassResponse   `json:"classes"`
	Sections []SectionResponse `json:"sections"`
}

// SubmitAllResponse reports a bulk submission.
type SubmitAllResponse struct {
	ClassID   string `json:"class_id"`
	Submitted int64  `json:"submitted"`
}

// SchoolUpdateRequest edits the school profile. The logo arrives separately.
type SchoolUpdateRequest struct {
	Name    string `json:"name" form:"name" validate:"required,max=255"`
	Address string `json:"address" form:"address" validate:"omitempty,max=512"`
	Pincode string `json:"pincode" form:"pincode" validate:"omitempty,max=16"`
	State   string `json:"state" form:"state" validate:"omitempty,max=128"`
}

// TemplateSelectRequest selects the ID-card layout.
type TemplateSelectRequest struct {
	Template string `json:"template" form:"template" validate:"required"`
}

// SettingsResponse is the settings page of a school admin.
type SettingsResponse struct {
	User      UserResponse          `json:"user"`
	School    *SchoolResponse       `json:"school"`
	Templates []models.CardTemplate `json:"templates"`
}

// SchoolSummaryResponse is a school with its card counts.
type SchoolSummaryResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalStudents  int64  `json:"total_students"`
	SubmittedCount int64  `json:"submitted_count"`
	PrintedCount   int64  `json:"printed_count"`
}

// SuperAdminDashboardResponse is the super-admin landing page.
type SuperAdminDashboardResponse struct {
	TotalSchools         int64                   `json:"total_schools"`
	TotalStudents        int64                   `json:"total_students"`
	PendingApprovalCount int64                   `json:"pending_approval_count"`
	PrintedCount         int64                   `json:"printed_count"`
	LatestSchools        []SchoolSummaryResponse `json:"latest_schools"`
	CacheHit             bool                    `json:"cache_hit"`
}

// StudentSearchResponse is the cross-school student list.
type StudentSearchResponse struct {
	Students       []StudentResponse `json:"students"`
	Schools        []SchoolOption    `json:"schools,omitempty"`
	SelectedSchool string            `json:"selected_school"`
	SearchText     string            `json:"search_text"`
}
