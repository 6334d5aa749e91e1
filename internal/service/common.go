package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/idcard-api/internal/events"
	"github.com/noah-isme/idcard-api/internal/models"
)

var (
	// ErrSchoolNotFound is returned when a school does not exist or the admin has none.
	ErrSchoolNotFound = errors.New("school not found")
	// ErrStudentNotFound is returned when a student does not exist in the caller's scope.
	ErrStudentNotFound = errors.New("student not found")
	// ErrClassNotFound is returned for unknown or foreign classes.
	ErrClassNotFound = errors.New("class not found")
	// ErrSectionNotFound is returned when a section does not belong to the chosen class.
	ErrSectionNotFound = errors.New("section not found")
	// ErrInvalidStudentID is returned when a cart toggle carries a malformed id.
	ErrInvalidStudentID = errors.New("invalid student id")
	// ErrCartEmpty is returned when previewing or completing an empty cart.
	ErrCartEmpty = errors.New("no students selected")
	// ErrSchoolIDRequired is returned when a print listing is requested without a school.
	ErrSchoolIDRequired = errors.New("school id is required")
	// ErrDuplicateAdmissionNo is returned when the admission number is already used in the school.
	ErrDuplicateAdmissionNo = errors.New("admission number already exists in this school")
	// ErrInvalidStatus is returned for unknown student statuses.
	ErrInvalidStatus = errors.New("invalid student status")
	// ErrInvalidDate is returned for malformed dates of birth.
	ErrInvalidDate = errors.New("invalid date of birth")
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	UserID   string
	Role     models.UserRole
	SchoolID string
}

// ImageUpload is an image received from a form, either decoded from a data URL or read from a file part.
type ImageUpload struct {
	Name string
	Data []byte
}

// Empty reports whether no image was supplied.
func (i *ImageUpload) Empty() bool {
	return i == nil || len(i.Data) == 0
}

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// CartStore keeps the print cart of each browser session.
type CartStore interface {
	Toggle(ctx context.Context, sessionID, id string) (int, bool, error)
	List(ctx context.Context, sessionID string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
	Drain(ctx context.Context, sessionID string) ([]string, error)
	Restore(ctx context.Context, sessionID string, ids []string) error
}

// PrintEventPublisher announces completed print batches.
type PrintEventPublisher interface {
	PublishPrintCompleted(ctx context.Context, event events.PrintCompleted) error
}

// CanonicalID parses an entity identifier and returns it in the stored form
// (lowercase, hyphenated, no braces or urn prefix).
func CanonicalID(value string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

var textPolicy = bluemonday.StrictPolicy()

// cleanText trims input and strips any markup.
func cleanText(value string) string {
	return strings.TrimSpace(textPolicy.Sanitize(strings.TrimSpace(value)))
}

func optionalID(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func optionalText(value string) *string {
	value = cleanText(value)
	if value == "" {
		return nil
	}
	return &value
}
