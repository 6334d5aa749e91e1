package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/idcard-api/internal/config"
	"github.com/noah-isme/idcard-api/internal/utils"
)

const healthCheckTimeout = 2 * time.Second

// DependencyCheck reports whether a backing store answers.
type DependencyCheck func(ctx context.Context) error

// DependencyStatus is the outcome of one dependency check.
type DependencyStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string             `json:"status"`
	Timestamp    time.Time          `json:"timestamp"`
	Service      string             `json:"service"`
	Environment  string             `json:"environment"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

// HealthCheck reports the service status and pings the directory store and cart store.
// Any failing dependency turns the answer into 503 "degraded".
func HealthCheck(cfg config.Config, checks map[string]DependencyCheck) fiber.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		payload := HealthResponse{
			Status:       "ok",
			Timestamp:    time.Now().UTC(),
			Service:      cfg.AppName,
			Environment:  cfg.AppEnv,
			Dependencies: make([]DependencyStatus, 0, len(names)),
		}
		for _, name := range names {
			dependency := DependencyStatus{Name: name, Status: "up"}
			if err := checks[name](ctx); err != nil {
				dependency.Status = "down"
				dependency.Error = err.Error()
				payload.Status = "degraded"
			}
			payload.Dependencies = append(payload.Dependencies, dependency)
		}

		if payload.Status != "ok" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(utils.APIResponse{
				Success: false,
				Data:    payload,
				Message: "service degraded",
			})
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}
