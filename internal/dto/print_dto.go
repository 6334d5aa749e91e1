package dto

// ClassSummaryResponse is a class with its card counts inside one school.
type ClassSummaryResponse struct {
	ClassID        string `json:"class_id"`
	ClassName      string `json:"class_name"`
	TotalStudents  int64  `json:"total_students"`
	SubmittedCount int64  `json:"submitted_count"`
	PrintedCount   int64  `json:"printed_count"`
}

// PrintSchoolsResponse lists schools for batch printing.
type PrintSchoolsResponse struct {
	Schools []SchoolSummaryResponse `json:"schools"`
}

// PrintClassesResponse lists the classes of one school for batch printing.
type PrintClassesResponse struct {
	SchoolID string                 `json:"school_id"`
	Classes  []ClassSummaryResponse `json:"classes"`
}

// PrintClassResponse is the printable student list of one class.
type PrintClassResponse struct {
	School          SchoolResponse    `json:"school"`
	Class           ClassResponse     `json:"class"`
	Students        []StudentResponse `json:"students"`
	Cart            []string          `json:"cart"`
	SelectedSection string            `json:"selected_section"`
}

// CartToggleRequest adds or removes one student.
type CartToggleRequest struct {
	StudentID string `json:"studentId" form:"studentId"`
}

// CartToggleResponse reports the cart after a toggle.
type CartToggleResponse struct {
	Count int  `json:"count"`
	Added bool `json:"added"`
}

// CartResponse lists the carted student ids.
type CartResponse struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// PrintPreviewResponse is the print sheet of the carted students.
type PrintPreviewResponse struct {
	School           SchoolResponse    `json:"school"`
	SelectedTemplate string            `json:"selected_template"`
	Students         []StudentResponse `json:"students"`
	IDs              []string          `json:"ids"`
}

// PrintCompleteResponse reports a completed batch.
type PrintCompleteResponse struct {
	BatchID  string `json:"batch_id"`
	Printed  int64  `json:"printed"`
	Redirect string `json:"redirect"`
}
