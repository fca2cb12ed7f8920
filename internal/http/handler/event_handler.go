package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

type EventHandler struct {
	eventService *service.EventService
	logger       *zap.Logger
}

func NewEventHandler(eventService *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       logger,
	}
}

// List godoc
// @Summary List calendar events
// @Tags Events
// @Produce json
// @Success 200 {array} domain.CalendarEventDTO
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list events")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

// GetByID godoc
// @Summary Get calendar event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.CalendarEventDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get event")
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Create godoc
// @Summary Create calendar event
// @Description A missing end uses the start; a missing title becomes "Sin título".
// @Tags Events
// @Accept json
// @Produce json
// @Param request body domain.CalendarEventRequest true "Event data"
// @Success 201 {object} domain.CalendarEventDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CalendarEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create event")
		return
	}

	w.Header().Set("Location", "/api/v1/events/"+event.ID)
	respondJSON(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update calendar event
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body domain.CalendarEventRequest true "Event data"
// @Success 200 {object} domain.CalendarEventDTO
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.CalendarEventRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	event, err := h.eventService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update event")
		return
	}
	respondJSON(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete calendar event
// @Tags Events
// @Param id path string true "Event ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.eventService.Delete(r.Context(), chi.URLParam(r, "id"), confirmed(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete event")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
