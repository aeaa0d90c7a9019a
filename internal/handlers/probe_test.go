package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbes(t *testing.T) {
	healthy := ReadinessCheck{Name: "sessions", Check: func(context.Context) error { return nil }}
	down := ReadinessCheck{Name: "backend", Check: func(context.Context) error { return errors.New("dial tcp: refused") }}

	tests := []struct {
		name       string
		checks     []ReadinessCheck
		path       string
		wantStatus int
		wantError  string
	}{
		{"liveness ignores checks", []ReadinessCheck{down}, "/healthz", http.StatusOK, ""},
		{"ready without checks", nil, "/readyz", http.StatusOK, ""},
		{"ready when all pass", []ReadinessCheck{healthy}, "/readyz", http.StatusOK, ""},
		{"not ready names failing check", []ReadinessCheck{healthy, down}, "/readyz", http.StatusServiceUnavailable, "backend unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProbeHandler(tt.checks...)
			app := fiber.New()
			app.Get("/healthz", h.Liveness)
			app.Get("/readyz", h.Readiness)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}
