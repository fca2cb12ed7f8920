package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julesapp/crm-api/internal/http/handler"
	"github.com/julesapp/crm-api/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationHandler_Menu(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodGet, "/api/v1/navigation?path=/tareas/&collapsed=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[handler.NavigationResponse](t, rec)
	assert.Equal(t, "Jules App", resp.Title)
	assert.True(t, resp.Collapsible)
	assert.True(t, resp.Collapsed)
	assert.Equal(t, []navigation.Capability{
		navigation.CapabilityResponsiveCollapse,
		navigation.CapabilityActiveRouteHighlight,
	}, resp.Capabilities)

	var active []string
	for _, item := range resp.Items {
		assert.NotEqual(t, navigation.LoginPath, item.Path)
		if item.Active {
			active = append(active, item.Path)
		}
	}
	assert.Equal(t, []string{"/tareas"}, active)
}

func TestSPAHandler_Gate(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	tests := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
		body     string
	}{
		{name: "private page without session", path: "/clientes", status: http.StatusFound, location: "/login"},
		{name: "home without session", path: "/", status: http.StatusFound, location: "/login"},
		{name: "unknown page without session", path: "/nada", status: http.StatusFound, location: "/login"},
		{name: "login is public", path: "/login", status: http.StatusOK, body: "<html>crm</html>"},
		{name: "private page with session", path: "/clientes", token: token, status: http.StatusOK, body: "<html>crm</html>"},
		{name: "unknown page with session", path: "/nada", token: token, status: http.StatusFound, location: "/"},
		{name: "static asset", path: "/app.js", status: http.StatusOK, body: "console.log('crm')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: "crm_session", Value: tt.token})
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}
