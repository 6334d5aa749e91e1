package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/idcard-api/internal/config"
	"github.com/noah-isme/idcard-api/internal/handler"
	"github.com/noah-isme/idcard-api/internal/middleware"
	"github.com/noah-isme/idcard-api/internal/models"
	"github.com/noah-isme/idcard-api/internal/router"
	"github.com/noah-isme/idcard-api/internal/service"
)

type stubAuthenticator map[string]service.Actor

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (service.Actor, error) {
	actor, ok := s[token]
	if !ok {
		return service.Actor{}, service.ErrUnauthenticated
	}
	return actor, nil
}

var testConfig = config.Config{AppName: "ID Card API", AppEnv: "test"}

func newApp() *fiber.App {
	return newAppWithChecks(map[string]handler.DependencyCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return nil },
	})
}

func newAppWithChecks(checks map[string]handler.DependencyCheck) *fiber.App {
	app := fiber.New()
	router.Register(app, testConfig, router.Dependencies{
		Authenticator: stubAuthenticator{
			"school": {UserID: "u-1", Role: models.RoleSchoolAdmin, SchoolID: "s-1"},
			"super":  {UserID: "u-2", Role: models.RoleSuperAdmin},
		},
		HealthChecks: checks,
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHealthCheck(t *testing.T) {
	resp := get(t, newApp(), "/api/v1/health", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, testConfig.AppName, resp.Header.Get("X-Application"))

	var payload struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	assert.Equal(t, "ok", payload.Data.Status)
	assert.Equal(t, testConfig.AppName, payload.Data.Service)
	assert.Equal(t, testConfig.AppEnv, payload.Data.Environment)
	assert.WithinDuration(t, time.Now().UTC(), payload.Data.Timestamp, 2*time.Second)
	assert.Equal(t, []handler.DependencyStatus{
		{Name: "postgres", Status: "up"},
		{Name: "redis", Status: "up"},
	}, payload.Data.Dependencies)
}

func TestHealthCheckReportsDegradedDependency(t *testing.T) {
	app := newAppWithChecks(map[string]handler.DependencyCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	resp := get(t, app, "/api/v1/health", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var payload struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "degraded", payload.Data.Status)
	require.Len(t, payload.Data.Dependencies, 2)
	assert.Equal(t, "up", payload.Data.Dependencies[0].Status)
	assert.Equal(t, "redis", payload.Data.Dependencies[1].Name)
	assert.Equal(t, "down", payload.Data.Dependencies[1].Status)
	assert.Equal(t, "connection refused", payload.Data.Dependencies[1].Error)
}

func TestMetricsEndpoint(t *testing.T) {
	resp := get(t, newApp(), "/metrics", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "print_batches_completed_total")
	assert.Contains(t, string(body), "printed_cards_total")
}

func TestPortalRedirectsWithoutSession(t *testing.T) {
	app := newApp()
	for _, path := range []string{"/admin", "/admin/students", "/superadmin", "/superadmin/print/cart"} {
		resp := get(t, app, path, "")
		assert.Equal(t, fiber.StatusFound, resp.StatusCode, path)
		assert.Equal(t, service.LoginPage, resp.Header.Get("Location"), path)
	}
}

func TestPortalRejectsWrongRole(t *testing.T) {
	app := newApp()

	resp := get(t, app, "/superadmin", "school")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = get(t, app, "/admin/students", "super")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
