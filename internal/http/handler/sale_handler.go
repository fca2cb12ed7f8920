package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

type SaleHandler struct {
	saleService *service.SaleService
	logger      *zap.Logger
}

func NewSaleHandler(saleService *service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
		logger:      logger,
	}
}

// List godoc
// @Summary List sales
// @Tags Sales
// @Produce json
// @Param month query string false "Month bucket (YYYY-MM)"
// @Success 200 {array} domain.SaleDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /sales [get]
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.saleService.List(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respondServiceError(w, h.logger, err, "list sales")
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

// MonthlyTotal godoc
// @Summary Total of a month's sales
// @Tags Sales
// @Produce json
// @Param month query string false "Month bucket (YYYY-MM), defaults to the current month"
// @Success 200 {object} domain.MonthlySalesDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /sales/total [get]
func (h *SaleHandler) MonthlyTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.saleService.MonthlyTotal(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		respondServiceError(w, h.logger, err, "total sales")
		return
	}
	respondJSON(w, http.StatusOK, total)
}

// Create godoc
// @Summary Record a sale
// @Description The sale is filed under the current month.
// @Tags Sales
// @Accept json
// @Produce json
// @Param request body domain.SaleRequest true "Sale data"
// @Success 201 {object} domain.SaleDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /sales [post]
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.saleService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "record sale")
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

// Update godoc
// @Summary Update sale
// @Description Amount, project and comment are replaced. The sale stays in its original month.
// @Tags Sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param request body domain.SaleRequest true "Sale data"
// @Success 200 {object} domain.SaleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sales/{id} [put]
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.SaleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	sale, err := h.saleService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update sale")
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

// Delete godoc
// @Summary Delete sale
// @Tags Sales
// @Param id path string true "Sale ID"
// @Param confirm query bool true "Confirm the deletion"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /sales/{id} [delete]
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.saleService.Delete(r.Context(), chi.URLParam(r, "id"), confirmed(r)); err != nil {
		respondServiceError(w, h.logger, err, "delete sale")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
