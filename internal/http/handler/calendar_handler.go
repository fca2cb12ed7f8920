package handler

import (
	"net/http"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
	logger          *zap.Logger
}

func NewCalendarHandler(calendarService *service.CalendarService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		logger:          logger,
	}
}

// Get godoc
// @Summary Merged calendar
// @Description Projects (as all-day ranges) and events, sorted by start and styled by type and status.
// @Tags Calendar
// @Produce json
// @Param from query string false "Only items ending on or after this date"
// @Param to query string false "Only items starting on or before this date"
// @Success 200 {array} domain.CalendarItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /calendar [get]
func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	var (
		window service.CalendarWindow
		ok     bool
	)
	if window.From, ok = queryDate(r, "from"); !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid from date")
		return
	}
	if window.To, ok = queryDate(r, "to"); !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid to date")
		return
	}

	items, err := h.calendarService.Build(r.Context(), window)
	if err != nil {
		respondServiceError(w, h.logger, err, "load calendar")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToCalendarItemDTOs(items))
}

// queryDate parses an optional date parameter; a missing one is the zero time
func queryDate(r *http.Request, param string) (time.Time, bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return time.Time{}, true
	}
	d := domain.ParseDateValue(raw)
	return d.Time, d.Valid
}
