package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/app"
	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/config"
	"github.com/julesapp/crm-api/internal/http/handler"
	"github.com/julesapp/crm-api/internal/http/middleware"
	"github.com/julesapp/crm-api/internal/http/router"
	"github.com/julesapp/crm-api/internal/navigation"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/storage"
	"github.com/julesapp/crm-api/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	handler  http.Handler
	sessions *auth.Sessions
	services *app.Services
	static   string
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Name: "crm-test", Title: "Jules App", Environment: "test"},
		Auth:    config.AuthConfig{CookieName: "crm_session"},
		Storage: config.StorageConfig{MaxUploadSizeMB: 1},
		Server: config.ServerConfig{
			RequestTimeout:         30,
			NavigationCapabilities: []string{"responsive-collapse", "active-route-highlight"},
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	cfg := testConfig()

	db := testutil.SetupTestDB(t)
	stores := repository.NewGormStores(db, repository.NewChangeHub())
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	services := app.NewServices(stores, files, cfg.Storage.MaxUploadSizeMB<<20, log)

	provider := auth.NewLocalProvider(db, auth.NewTokenIssuer("test-secret", time.Hour, cfg.App.Name), log)
	sessions := auth.NewSessions(provider, auth.NewSessionHub(), log)

	shell, err := navigation.New(cfg.App.Title, cfg.Server.NavigationCapabilities)
	require.NoError(t, err)

	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>crm</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "app.js"), []byte("console.log('crm')"), 0o644))

	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(log),
		Auth:       handler.NewAuthHandler(sessions, handler.CookieSettings{Name: cfg.Auth.CookieName}, log),
		Client:     handler.NewClientHandler(services.Clients, services.Contacts, log),
		Project:    handler.NewProjectHandler(services.Projects, log),
		Task:       handler.NewTaskHandler(services.Tasks, log),
		Sale:       handler.NewSaleHandler(services.Sales, log),
		Document:   handler.NewDocumentHandler(services.Documents, cfg.Storage.MaxUploadSizeMB, log),
		Event:      handler.NewEventHandler(services.Events, log),
		Calendar:   handler.NewCalendarHandler(services.Calendar, log),
		Dashboard:  handler.NewDashboardHandler(services.Dashboard, log),
		Navigation: handler.NewNavigationHandler(shell, log),
		Stream:     handler.NewStreamHandler(services.Clients, services.Tasks, sessions.Hub(), log),
		SPA:        handler.NewSPAHandler(static, log),
	}

	rt := router.NewRouter(
		cfg,
		log,
		auth.NewMiddleware(sessions, cfg.Auth.CookieName, log),
		middleware.NewRateLimiter(&cfg.RateLimit, log),
		prometheus.NewRegistry(),
		handlers,
	)

	return &testServer{handler: rt.Setup(), sessions: sessions, services: services, static: static}
}

// signUp creates an account and returns its bearer token
func (s *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	session, err := s.sessions.SignUp(context.Background(), email, "secreto1")
	require.NoError(t, err)
	return session.Token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
