package handler_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, s *testServer, token, title string) domain.TaskDTO {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/tasks", token, map[string]interface{}{
		"title":       title,
		"description": "Revisar presupuesto",
		"dueDate":     "2026-11-02",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.TaskDTO](t, rec)
}

func TestTaskHandler_SendWithoutAssignment(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")
	task := createTask(t, s, token, "Llamar al proveedor")

	rec := s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/send", token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.ErrorTypeConflict, decode[domain.APIError](t, rec).Type)
}

func TestTaskHandler_AssignToExistingClientByEmail(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")
	task := createTask(t, s, token, "Enviar factura")

	rec := s.do(t, http.MethodPost, "/api/v1/clients", token, map[string]string{
		"name":  "Lucía",
		"email": "lucia@example.com",
		"phone": "600111222",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	client := decode[domain.ClientDTO](t, rec)

	rec = s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/assign", token, map[string]string{"clientId": client.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assigned := decode[domain.TaskDTO](t, rec)
	assert.Equal(t, domain.AssignmentMethodEmail, assigned.Assignment.Method)
	assert.Equal(t, "lucia@example.com", assigned.Assignment.Contact)
	assert.False(t, assigned.Assignment.Sent)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "Lucía", *assigned.AssignedTo)

	rec = s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/send", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	link := decode[domain.AssignmentLinkDTO](t, rec)
	assert.True(t, strings.HasPrefix(link.Link, "mailto:lucia@example.com?subject=Tarea%3A%20Enviar%20factura&body="), link.Link)
	assert.True(t, link.Sent)
	assert.NotNil(t, link.SentAt)

	rec = s.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.TaskDTO](t, rec).Assignment.Sent)
}

func TestTaskHandler_AssignToNewContactByPhone(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")
	task := createTask(t, s, token, "Medir cocina")

	rec := s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/assign", token, map[string]interface{}{
		"newContact": map[string]string{"name": "Pedro", "phone": "600 111 222"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.AssignmentMethodWhatsApp, decode[domain.TaskDTO](t, rec).Assignment.Method)

	rec = s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/send", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	link := decode[domain.AssignmentLinkDTO](t, rec)
	assert.True(t, strings.HasPrefix(link.Link, "https://wa.me/600111222?text="), link.Link)

	// The new contact was saved as a client
	rec = s.do(t, http.MethodGet, "/api/v1/clients", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	clients := decode[[]domain.ClientDTO](t, rec)
	require.Len(t, clients, 1)
	assert.Equal(t, "Pedro", clients[0].Name)
}

func TestTaskHandler_AssignRequiresTarget(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")
	task := createTask(t, s, token, "Sin destinatario")

	rec := s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/assign", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/assign", token, map[string]interface{}{
		"newContact": map[string]string{"name": "Nadie"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_AssignBlankPhoneLeavesNoClient(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")
	task := createTask(t, s, token, "Medir salón")

	rec := s.do(t, http.MethodPost, "/api/v1/tasks/"+task.ID+"/assign", token, map[string]interface{}{
		"newContact": map[string]string{"name": "Pedro", "phone": "   "},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, domain.ErrorTypeValidation, decode[domain.APIError](t, rec).Type)

	rec = s.do(t, http.MethodGet, "/api/v1/clients", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]domain.ClientDTO](t, rec))
}

func TestTaskHandler_ToggleAndFilter(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")
	done := createTask(t, s, token, "Hecha")
	createTask(t, s, token, "Pendiente")

	rec := s.do(t, http.MethodPost, "/api/v1/tasks/"+done.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[domain.TaskDTO](t, rec).Completed)

	rec = s.do(t, http.MethodGet, "/api/v1/tasks?filter=completed", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	completed := decode[[]domain.TaskDTO](t, rec)
	require.Len(t, completed, 1)
	assert.Equal(t, "Hecha", completed[0].Title)

	rec = s.do(t, http.MethodGet, "/api/v1/tasks?filter=pending", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]domain.TaskDTO](t, rec), 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/tasks/"+done.ID, token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/tasks/"+done.ID+"?confirm=true", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
