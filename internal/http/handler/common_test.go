package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		errType string
	}{
		{"validation", &service.ValidationError{Field: "contact", Message: "Missing"}, http.StatusBadRequest, domain.ErrorTypeValidation},
		{"not found", fmt.Errorf("failed to get client: %w", repository.ErrNotFound), http.StatusNotFound, domain.ErrorTypeNotFound},
		{"no owner", repository.ErrNoOwner, http.StatusUnauthorized, domain.ErrorTypeUnauthorized},
		{"confirmation", service.ErrConfirmationRequired, http.StatusPreconditionRequired, domain.ErrorTypeConfirmationRequired},
		{"not assigned", service.ErrNoAssignment, http.StatusConflict, domain.ErrorTypeConflict},
		{"too large", service.ErrFileTooLarge, http.StatusRequestEntityTooLarge, domain.ErrorTypeBadRequest},
		{"bad credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, domain.ErrorTypeUnauthorized},
		{"email taken", auth.ErrEmailTaken, http.StatusConflict, domain.ErrorTypeConflict},
		{"weak password", auth.ErrWeakPassword, http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, zap.NewNop(), tt.err, "do something")

			assert.Equal(t, tt.status, rec.Code)
			var apiErr domain.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.errType, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestRespondServiceError_UnknownKeepsProviderText(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, zap.NewNop(), errors.New("permission denied"), "list clients")

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "Failed to list clients: permission denied", apiErr.Detail)
}

func TestConfirmed(t *testing.T) {
	for query, want := range map[string]bool{
		"":              false,
		"?confirm=true": true,
		"?confirm=1":    true,
		"?confirm=no":   false,
	} {
		r := httptest.NewRequest(http.MethodDelete, "/api/v1/clients/abc"+query, nil)
		assert.Equal(t, want, confirmed(r), query)
	}
}
