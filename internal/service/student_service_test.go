package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/repository"
)

type studentHarness struct {
	fixture
	svc      StudentService
	storage  *fakeStorage
	activity *memoryActivityRepo
}

func newStudentHarness(t *testing.T) studentHarness {
	t.Helper()
	db := setupServiceDB(t)
	f := newFixture(t, db, "Oak Grove")
	storage := newFakeStorage()
	activity := &memoryActivityRepo{}
	svc := NewStudentService(
		repository.NewSchoolRepository(db),
		repository.NewStudentRepository(db),
		repository.NewClassRepository(db),
		NewMediaService(storage, 5, testLogger()),
		testValidator(),
		NewActivityService(activity, testLogger()),
		testLogger(),
	)
	return studentHarness{fixture: f, svc: svc, storage: storage, activity: activity}
}

func validCreateRequest(f fixture) dto.StudentCreateRequest {
	return dto.StudentCreateRequest{
		Name:          "Riya <b>Sharma</b>",
		DOB:           "2015-08-21",
		FatherName:    "Arun Sharma",
		AdmissionNo:   "ADM-1",
		Address:       "7 Park Street",
		ContactNumber: "9123456780",
		ClassID:       f.class.ID,
		SectionID:     f.section.ID,
	}
}

func TestStudentServiceCreateRequiresImage(t *testing.T) {
	h := newStudentHarness(t)

	_, err := h.svc.Create(context.Background(), h.actor, validCreateRequest(h.fixture), nil)
	require.ErrorIs(t, err, ErrImageRequired)
	require.Empty(t, h.storage.uploads)
}

func TestStudentServiceCreateStoresCompressedPhoto(t *testing.T) {
	h := newStudentHarness(t)
	photo := &ImageUpload{Name: "riya.png", Data: pngImage(t, 640, 480)}

	created, err := h.svc.Create(context.Background(), h.actor, validCreateRequest(h.fixture), photo)
	require.NoError(t, err)
	require.Equal(t, "Riya Sharma", created.Name)
	require.Equal(t, models.StudentStatusPending, created.Status)
	require.Equal(t, "5", created.ClassName)
	require.Equal(t, "A", created.SectionName)
	require.Equal(t, "2015-08-21", created.DOB)
	require.Equal(t, "https://cdn.example.com/riya.jpg", created.PhotoURL)
	require.Contains(t, h.storage.uploads, "riya.jpg")

	require.Len(t, h.activity.entries, 1)
	require.Equal(t, ActionStudentCreated, h.activity.entries[0].Action)
}

func TestStudentServiceCreateRejectsDuplicateAdmissionNo(t *testing.T) {
	h := newStudentHarness(t)
	ctx := context.Background()
	req := validCreateRequest(h.fixture)

	_, err := h.svc.Create(ctx, h.actor, req, &ImageUpload{Data: pngImage(t, 40, 40)})
	require.NoError(t, err)

	req.Name = "Another Student"
	_, err = h.svc.Create(ctx, h.actor, req, &ImageUpload{Data: pngImage(t, 40, 40)})
	require.ErrorIs(t, err, ErrDuplicateAdmissionNo)
}

func TestStudentServiceCreateValidatesPayload(t *testing.T) {
	h := newStudentHarness(t)
	req := validCreateRequest(h.fixture)
	req.FatherName = ""

	_, err := h.svc.Create(context.Background(), h.actor, req, &ImageUpload{Data: pngImage(t, 40, 40)})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
}

func TestStudentServiceCreateRejectsForeignSection(t *testing.T) {
	h := newStudentHarness(t)
	classes := repository.NewClassRepository(h.db)
	other, _, err := classes.EnsureCatalogClass(context.Background(), "6")
	require.NoError(t, err)
	foreign, _, err := classes.EnsureSection(context.Background(), other.ID, "B")
	require.NoError(t, err)

	req := validCreateRequest(h.fixture)
	req.SectionID = foreign.ID

	_, err = h.svc.Create(context.Background(), h.actor, req, &ImageUpload{Data: pngImage(t, 40, 40)})
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestStudentServiceUpdateKeepsContactAndAllowsManualStatus(t *testing.T) {
	h := newStudentHarness(t)
	student := h.addStudent(t, "Kabir", models.StudentStatusPrinted)

	updated, err := h.svc.Update(context.Background(), h.actor, student.ID, dto.StudentUpdateRequest{
		Name:       "Kabir Singh",
		DOB:        "2014-01-02",
		FatherName: "Harpreet Singh",
		Address:    "9 Hill Road",
		Status:     "pending",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Kabir Singh", updated.Name)
	require.Equal(t, "9876543210", updated.ContactNumber)
	require.Equal(t, models.StudentStatusPending, updated.Status)
	require.Empty(t, updated.ClassID)
	require.Empty(t, h.storage.uploads)
}

func TestStudentServiceScopesToOwnSchool(t *testing.T) {
	h := newStudentHarness(t)
	other := newFixture(t, h.db, "Elsewhere")
	foreign := other.addStudent(t, "Zoya", models.StudentStatusPending)
	ctx := context.Background()

	_, err := h.svc.Update(ctx, h.actor, foreign.ID, dto.StudentUpdateRequest{
		Name: "Hijack", DOB: "2014-01-02", FatherName: "X", Address: "Y",
	}, nil)
	require.ErrorIs(t, err, ErrStudentNotFound)

	require.ErrorIs(t, h.svc.Delete(ctx, h.actor, foreign.ID), ErrStudentNotFound)
	require.ErrorIs(t, h.svc.Delete(ctx, h.actor, "bogus"), ErrStudentNotFound)
	require.Equal(t, models.StudentStatusPending, other.status(t, foreign.ID))
}

func TestStudentServiceSubmitAllOnlyTouchesOwnSchool(t *testing.T) {
	h := newStudentHarness(t)
	mine := h.addStudent(t, "Mine", models.StudentStatusPending)
	other := newFixture(t, h.db, "Neighbour")
	theirs := other.addStudent(t, "Theirs", models.StudentStatusPending)

	result, err := h.svc.SubmitAll(context.Background(), h.actor, h.class.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.Submitted)
	require.Equal(t, models.StudentStatusSubmitted, h.status(t, mine.ID))
	require.Equal(t, models.StudentStatusPending, other.status(t, theirs.ID))
}

func TestStudentServiceRequiresSchool(t *testing.T) {
	h := newStudentHarness(t)
	stranger := Actor{UserID: "00000000-0000-0000-0000-000000000000", Role: models.RoleSchoolAdmin}

	_, err := h.svc.SubmitAll(context.Background(), stranger, h.class.ID)
	require.ErrorIs(t, err, ErrSchoolNotFound)
}
