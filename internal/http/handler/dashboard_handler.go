package handler

import (
	"net/http"

	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Get godoc
// @Summary Dashboard figures
// @Description Client and task counts, completion rate, this month's sales and the latest activity.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}
