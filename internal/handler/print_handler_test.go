package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/dto"
	"github.com/noah-isme/idcard-api/internal/handler"
	"github.com/noah-isme/idcard-api/internal/service"
)

type mockPrintBatchService struct {
	lastSchoolID string
	lastClassID  string
	lastSection  string
	lastSession  string
	listingErr   error
}

func (m *mockPrintBatchService) SchoolSummaries(context.Context) (dto.PrintSchoolsResponse, error) {
	return dto.PrintSchoolsResponse{Schools: []dto.SchoolSummaryResponse{{ID: "s-1", Name: "Green Valley"}}}, nil
}

func (m *mockPrintBatchService) ClassSummaries(_ context.Context, schoolID string) (dto.PrintClassesResponse, error) {
	m.lastSchoolID = schoolID
	return dto.PrintClassesResponse{SchoolID: schoolID, Classes: []dto.ClassSummaryResponse{}}, nil
}

func (m *mockPrintBatchService) ClassListing(_ context.Context, sessionID, classID, schoolID, section string) (dto.PrintClassResponse, error) {
	m.lastSession = sessionID
	m.lastClassID = classID
	m.lastSchoolID = schoolID
	m.lastSection = section
	if m.listingErr != nil {
		return dto.PrintClassResponse{}, m.listingErr
	}
	return dto.PrintClassResponse{SelectedSection: section, Cart: []string{}}, nil
}

type mockPrintCartService struct {
	items       []string
	toggleErr   error
	previewErr  error
	completeErr error
	completed   dto.PrintCompleteResponse
	lastActor   service.Actor
	cleared     bool
}

func (m *mockPrintCartService) Toggle(_ context.Context, _ string, studentID string) (dto.CartToggleResponse, error) {
	if m.toggleErr != nil {
		return dto.CartToggleResponse{}, m.toggleErr
	}
	m.items = append(m.items, studentID)
	return dto.CartToggleResponse{Count: len(m.items), Added: true}, nil
}

func (m *mockPrintCartService) List(context.Context, string) (dto.CartResponse, error) {
	return dto.CartResponse{Items: m.items, Count: len(m.items)}, nil
}

func (m *mockPrintCartService) Clear(context.Context, string) error {
	m.cleared = true
	m.items = nil
	return nil
}

func (m *mockPrintCartService) Preview(context.Context, string) (dto.PrintPreviewResponse, error) {
	if m.previewErr != nil {
		return dto.PrintPreviewResponse{}, m.previewErr
	}
	return dto.PrintPreviewResponse{SelectedTemplate: "template1", IDs: m.items}, nil
}

func (m *mockPrintCartService) Complete(_ context.Context, actor service.Actor, _ string) (dto.PrintCompleteResponse, error) {
	m.lastActor = actor
	if m.completeErr != nil {
		return dto.PrintCompleteResponse{}, m.completeErr
	}
	return m.completed, nil
}

func newPrintApp(batches *mockPrintBatchService, cart *mockPrintCartService) *fiber.App {
	app := fiber.New()
	group := app.Group("/superadmin/print", withActor(superAdmin))
	handler.NewPrintHandler(batches, cart, zerolog.Nop()).Register(group)
	return app
}

func TestPrintHandler_ToggleRejectsInvalidStudent(t *testing.T) {
	cart := &mockPrintCartService{toggleErr: service.ErrInvalidStudentID}
	app := newPrintApp(&mockPrintBatchService{}, cart)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/superadmin/print/cart/toggle", map[string]string{"studentId": "nope"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, service.ErrInvalidStudentID.Error(), body.Message)
}

func TestPrintHandler_ToggleAndListCart(t *testing.T) {
	cart := &mockPrintCartService{}
	app := newPrintApp(&mockPrintBatchService{}, cart)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/superadmin/print/cart/toggle", map[string]string{"studentId": "3f0d4c52-0d0c-4f0b-9a40-2d1f4d8f3c11"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var toggled struct {
		Success bool                   `json:"success"`
		Data    dto.CartToggleResponse `json:"data"`
	}
	decodeResponse(t, resp, &toggled)
	require.True(t, toggled.Success)
	require.True(t, toggled.Data.Added)
	require.Equal(t, 1, toggled.Data.Count)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/superadmin/print/cart", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listed struct {
		Data dto.CartResponse `json:"data"`
	}
	decodeResponse(t, resp, &listed)
	require.Equal(t, []string{"3f0d4c52-0d0c-4f0b-9a40-2d1f4d8f3c11"}, listed.Data.Items)
}

func TestPrintHandler_PreviewWithEmptyCart(t *testing.T) {
	cart := &mockPrintCartService{previewErr: service.ErrCartEmpty}
	app := newPrintApp(&mockPrintBatchService{}, cart)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/superadmin/print/preview", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.Equal(t, "No students selected", body.Message)
}

func TestPrintHandler_CompletePassesActor(t *testing.T) {
	cart := &mockPrintCartService{completed: dto.PrintCompleteResponse{BatchID: "batch-1", Printed: 2, Redirect: service.SuperAdminHome}}
	app := newPrintApp(&mockPrintBatchService{}, cart)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/superadmin/print/complete", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                      `json:"success"`
		Data    dto.PrintCompleteResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, int64(2), body.Data.Printed)
	require.Equal(t, service.SuperAdminHome, body.Data.Redirect)
	require.Equal(t, superAdmin.UserID, cart.lastActor.UserID)
}

func TestPrintHandler_ClearEmptiesCart(t *testing.T) {
	cart := &mockPrintCartService{items: []string{"a"}}
	app := newPrintApp(&mockPrintBatchService{}, cart)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/superadmin/print/cart/clear", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.True(t, cart.cleared)
}

func TestPrintHandler_ClassListingForwardsQuery(t *testing.T) {
	batches := &mockPrintBatchService{}
	app := newPrintApp(batches, &mockPrintCartService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/superadmin/print/class/c-1?schoolId=s-1&section=B", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "c-1", batches.lastClassID)
	require.Equal(t, "s-1", batches.lastSchoolID)
	require.Equal(t, "B", batches.lastSection)
	require.NotEmpty(t, batches.lastSession)
}

func TestPrintHandler_ClassListingRequiresSchool(t *testing.T) {
	batches := &mockPrintBatchService{listingErr: service.ErrSchoolIDRequired}
	app := newPrintApp(batches, &mockPrintCartService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/superadmin/print/class/c-1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope
	decodeResponse(t, resp, &body)
	require.Equal(t, "School ID is required", body.Message)
}

func TestPrintHandler_SchoolClassesRoute(t *testing.T) {
	batches := &mockPrintBatchService{}
	app := newPrintApp(batches, &mockPrintCartService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/superadmin/print/s-42", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "s-42", batches.lastSchoolID)

	var body struct {
		Data json.RawMessage `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Contains(t, string(body.Data), `"school_id":"s-42"`)
}
