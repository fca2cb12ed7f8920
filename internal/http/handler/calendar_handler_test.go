package handler_test

import (
	"net/http"
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarHandler_MergesProjectsAndEvents(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/projects", token, map[string]interface{}{
		"name":           "Reforma local",
		"startDate":      "2026-03-02",
		"deliveryDate":   "2026-03-20",
		"totalAmount":    1000,
		"operatingCost":  200,
		"productionCost": 300,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	project := decode[domain.ProjectDTO](t, rec)
	assert.InDelta(t, 50.0, project.ProfitMargin, 0.001)

	rec = s.do(t, http.MethodPost, "/api/v1/events", token, map[string]interface{}{
		"title": "Reunión de obra",
		"start": "2026-03-01",
		"type":  "meeting",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/events", token, map[string]interface{}{
		"title": "Fuera de rango",
		"start": "2026-06-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/calendar?from=2026-03-01&to=2026-03-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	items := decode[[]domain.CalendarItemDTO](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "Reunión de obra", items[0].Title)
	assert.Equal(t, domain.CalendarSourceEvent, items[0].Source)
	assert.Equal(t, "Reforma local", items[1].Title)
	assert.Equal(t, domain.CalendarSourceProject, items[1].Source)
	assert.Equal(t, project.ID, items[1].SourceID)
}

func TestCalendarHandler_InvalidWindow(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodGet, "/api/v1/calendar?from=tomorrow", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/calendar?to=31-31-2026", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_Get(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/clients", token, map[string]string{
		"name":        "Lucía",
		"projectName": "Web corporativa",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	createTask(t, s, token, "Preparar propuesta")

	rec = s.do(t, http.MethodGet, "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	dash := decode[domain.DashboardDTO](t, rec)
	assert.Equal(t, int64(1), dash.TotalClients)
	assert.Equal(t, int64(1), dash.TotalTasks)
	assert.Equal(t, int64(0), dash.CompletedTasks)
	assert.Equal(t, 0, dash.CompletionRate)
	assert.Contains(t, dash.ProjectOptions, "Web corporativa")
	assert.NotEmpty(t, dash.RecentActivities)
}
