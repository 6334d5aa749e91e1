package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/service"
)

var (
	schoolAdmin = service.Actor{UserID: "5b0a6a52-2f43-4a2c-9b43-64f1cf0d6f10", Role: models.RoleSchoolAdmin, SchoolID: "0f6a1c9e-7d36-4a55-8c11-3f1e2b1e7c01"}
	superAdmin  = service.Actor{UserID: "a7d9e2c4-1b3f-4e5a-8c6d-9f0b1a2c3d4e", Role: models.RoleSuperAdmin}
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

// withActor stands in for the session middleware.
func withActor(actor service.Actor) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("actor", actor)
		c.Locals("session_id", "9d4b3a0e-5f1c-4d2b-8e7a-6c5b4a3f2e1d")
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}
