package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julesapp/crm-api/internal/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthHandler_Live(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHealthHandler_Ready(t *testing.T) {
	ok := handler.HealthCheck{Name: "database", Check: func(context.Context) error { return nil }}
	down := handler.HealthCheck{Name: "firestore", Check: func(context.Context) error { return errors.New("unavailable") }}

	tests := []struct {
		name   string
		checks []handler.HealthCheck
		status int
		label  string
	}{
		{"no dependencies", nil, http.StatusOK, "healthy"},
		{"all healthy", []handler.HealthCheck{ok}, http.StatusOK, "healthy"},
		{"one down", []handler.HealthCheck{ok, down}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(zap.NewNop(), tt.checks...)
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			require.Equal(t, tt.status, rec.Code)
			body := decode[map[string]interface{}](t, rec)
			assert.Equal(t, tt.label, body["status"])
			checks, _ := body["checks"].(map[string]interface{})
			assert.Len(t, checks, len(tt.checks))
		})
	}
}
