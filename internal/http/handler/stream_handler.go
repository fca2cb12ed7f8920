package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

// StreamHeartbeat is how often an idle stream sends a comment line
var StreamHeartbeat = 25 * time.Second

// StreamHandler pushes live list snapshots as Server-Sent Events. Every event carries the
// complete list; the stream ends when the request goes away or the session is signed out.
type StreamHandler struct {
	clientService *service.ClientService
	taskService   *service.TaskService
	sessions      *auth.SessionHub
	logger        *zap.Logger
}

func NewStreamHandler(
	clientService *service.ClientService,
	taskService *service.TaskService,
	sessions *auth.SessionHub,
	logger *zap.Logger,
) *StreamHandler {
	return &StreamHandler{
		clientService: clientService,
		taskService:   taskService,
		sessions:      sessions,
		logger:        logger,
	}
}

// Stream godoc
// @Summary Live list updates
// @Description Server-Sent Events. Each "snapshot" event replaces the previous list. A "signed_out" event ends the stream.
// @Tags Stream
// @Produce text/event-stream
// @Param collection path string true "Collection" Enums(clients, tasks)
// @Param filter query string false "Task completion filter" Enums(all, completed, pending)
// @Success 200 {object} domain.SnapshotDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /stream/{collection} [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Sign in to continue")
		return
	}

	collection := chi.URLParam(r, "collection")
	switch collection {
	case "clients":
		sub, err := h.clientService.Watch(r.Context())
		if err != nil {
			respondServiceError(w, h.logger, err, "watch clients")
			return
		}
		streamSnapshots(w, r, h, user, collection, sub, func(items []domain.Client) interface{} {
			return mapper.ToClientDTOs(items)
		})
	case "tasks":
		sub, err := h.taskService.Watch(r.Context(), service.ParseTaskFilter(r.URL.Query().Get("filter")))
		if err != nil {
			respondServiceError(w, h.logger, err, "watch tasks")
			return
		}
		streamSnapshots(w, r, h, user, collection, sub, func(items []domain.Task) interface{} {
			return mapper.ToTaskDTOs(items)
		})
	default:
		respondWithError(w, http.StatusNotFound, "Unknown collection "+collection)
	}
}

func streamSnapshots[T any](
	w http.ResponseWriter,
	r *http.Request,
	h *StreamHandler,
	user *auth.UserContext,
	collection string,
	sub *repository.Subscription[T],
	convert func([]T) interface{},
) {
	defer sub.Cancel()

	sessionEvents, unsubscribe := h.sessions.Subscribe(user.UserID)
	defer unsubscribe()

	rc := http.NewResponseController(w)
	// The server write timeout would cut the stream
	_ = rc.SetWriteDeadline(time.Time{})
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("response does not support streaming", zap.Error(err))
		return
	}

	send := func(event string, payload interface{}) bool {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Error("failed to encode stream event", zap.String("event", event), zap.Error(err))
			return false
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	heartbeat := time.NewTicker(StreamHeartbeat)
	defer heartbeat.Stop()

	h.logger.Debug("stream opened", zap.String("collection", collection), zap.String("user_id", user.UserID))
	defer h.logger.Debug("stream closed", zap.String("collection", collection), zap.String("user_id", user.UserID))

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sessionEvents:
			if !ok {
				return
			}
			if ev.Ends(user.SessionID) {
				send("signed_out", map[string]string{"reason": string(ev.Kind)})
				return
			}
		case snap, ok := <-sub.Updates():
			if !ok {
				return
			}
			if snap.Err != nil {
				h.logger.Warn("stream snapshot failed", zap.String("collection", collection), zap.Error(snap.Err))
				if !send("error", domain.APIError{
					Type:   domain.ErrorTypeInternal,
					Title:  http.StatusText(http.StatusInternalServerError),
					Status: http.StatusInternalServerError,
					Detail: snap.Err.Error(),
				}) {
					return
				}
				continue
			}
			if !send("snapshot", domain.SnapshotDTO{Collection: collection, Items: convert(snap.Items)}) {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil || rc.Flush() != nil {
				return
			}
		}
	}
}
