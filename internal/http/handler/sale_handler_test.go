package handler_test

import (
	"net/http"
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleHandler_Update(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/sales", token, map[string]interface{}{
		"amount":      250,
		"projectName": "Reforma baño",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sale := decode[domain.SaleDTO](t, rec)

	rec = s.do(t, http.MethodPut, "/api/v1/sales/"+sale.ID, token, map[string]interface{}{
		"amount":      300,
		"projectName": "Reforma baño",
		"comment":     "incluye azulejos",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.SaleDTO](t, rec)
	assert.Equal(t, sale.ID, updated.ID)
	assert.Equal(t, 300.0, updated.Amount)
	assert.Equal(t, "incluye azulejos", updated.Comment)
	assert.Equal(t, sale.Month, updated.Month)

	rec = s.do(t, http.MethodGet, "/api/v1/sales/total", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 300.0, decode[domain.MonthlySalesDTO](t, rec).Total)
}

func TestSaleHandler_UpdateValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp(t, "ana@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/sales", token, map[string]interface{}{
		"amount":      10,
		"projectName": "Web",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	sale := decode[domain.SaleDTO](t, rec)

	rec = s.do(t, http.MethodPut, "/api/v1/sales/"+sale.ID, token, map[string]interface{}{
		"projectName": "Web",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaleHandler_UpdateOtherUsersSale(t *testing.T) {
	s := newTestServer(t)
	owner := s.signUp(t, "ana@example.com")
	other := s.signUp(t, "luis@example.com")

	rec := s.do(t, http.MethodPost, "/api/v1/sales", owner, map[string]interface{}{
		"amount":      10,
		"projectName": "Web",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	sale := decode[domain.SaleDTO](t, rec)

	rec = s.do(t, http.MethodPut, "/api/v1/sales/"+sale.ID, other, map[string]interface{}{
		"amount":      1,
		"projectName": "Web",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/sales", owner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sales := decode[[]domain.SaleDTO](t, rec)
	require.Len(t, sales, 1)
	assert.Equal(t, 10.0, sales[0].Amount)
}
