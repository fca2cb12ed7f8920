package handler_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sseEvent struct {
	name string
	data string
}

// readEvent returns the next named event, skipping heartbeat comments
func readEvent(t *testing.T, r *bufio.Reader) (sseEvent, error) {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return ev, err
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev, nil
			}
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, srv *httptest.Server, path, token string) (*http.Response, *bufio.Reader) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp, bufio.NewReader(resp.Body)
}

func snapshotItems(t *testing.T, ev sseEvent) []domain.ClientDTO {
	t.Helper()
	var snap struct {
		Collection string             `json:"collection"`
		Items      []domain.ClientDTO `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(ev.data), &snap))
	assert.Equal(t, "clients", snap.Collection)
	return snap.Items
}

func TestStreamHandler_ClientsSnapshotsUntilSignOut(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	token := s.signUp(t, "ana@example.com")
	resp, body := openStream(t, srv, "/api/v1/stream/clients", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	ev, err := readEvent(t, body)
	require.NoError(t, err)
	require.Equal(t, "snapshot", ev.name)
	assert.Empty(t, snapshotItems(t, ev))

	rec := s.do(t, http.MethodPost, "/api/v1/clients", token, map[string]string{"name": "Lucía"})
	require.Equal(t, http.StatusCreated, rec.Code)

	ev, err = readEvent(t, body)
	require.NoError(t, err)
	require.Equal(t, "snapshot", ev.name)
	items := snapshotItems(t, ev)
	require.Len(t, items, 1)
	assert.Equal(t, "Lucía", items[0].Name)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	ev, err = readEvent(t, body)
	require.NoError(t, err)
	assert.Equal(t, "signed_out", ev.name)

	_, err = readEvent(t, body)
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamHandler_OtherSessionKeepsStreaming(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	first := s.signUp(t, "ana@example.com")
	session, err := s.sessions.SignIn(context.Background(), "ana@example.com", "secreto1")
	require.NoError(t, err)
	second := session.Token

	_, body := openStream(t, srv, "/api/v1/stream/clients", first)
	ev, err := readEvent(t, body)
	require.NoError(t, err)
	require.Equal(t, "snapshot", ev.name)

	// Signing out the other session leaves this stream open
	rec := s.do(t, http.MethodPost, "/api/v1/auth/logout", second, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/clients", first, map[string]string{"name": "Sigue abierto"})
	require.Equal(t, http.StatusCreated, rec.Code)

	ev, err = readEvent(t, body)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", ev.name)
	assert.Len(t, snapshotItems(t, ev), 1)
}

func TestStreamHandler_UnknownCollection(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodGet, "/api/v1/stream/invoices", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/stream/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
