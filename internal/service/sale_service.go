package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// SaleService records payments. Every sale is bucketed by the month it was recorded in.
type SaleService struct {
	saleRepo *repository.OwnedRepository[domain.Sale, *domain.Sale]
	activity *ActivityService
	logger   *zap.Logger
	now      func() time.Time
}

func NewSaleService(
	saleRepo *repository.OwnedRepository[domain.Sale, *domain.Sale],
	activity *ActivityService,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		activity: activity,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CurrentMonth is the YYYY-MM bucket new sales go into
func (s *SaleService) CurrentMonth() string {
	return domain.MonthKey(s.now())
}

func validMonth(month string) error {
	if month != "" && !monthPattern.MatchString(month) {
		return invalid("month", "Month must be in YYYY-MM format")
	}
	return nil
}

// List returns the user's sales, newest first, optionally for one month
func (s *SaleService) List(ctx context.Context, month string) ([]domain.SaleDTO, error) {
	if err := validMonth(month); err != nil {
		return nil, err
	}

	var filters []repository.Filter
	if month != "" {
		filters = append(filters, repository.Eq(domain.FieldMonth, month))
	}

	sales, err := s.saleRepo.ListNewest(ctx, 0, filters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return mapper.ToSaleDTOs(sales), nil
}

func (s *SaleService) Create(ctx context.Context, req *domain.SaleRequest) (*domain.SaleDTO, error) {
	if req.Amount == nil {
		return nil, invalid("amount", "This field is required")
	}

	sale := &domain.Sale{
		Amount:      *req.Amount,
		ProjectName: strings.TrimSpace(req.ProjectName),
		Comment:     req.Comment,
		Month:       s.CurrentMonth(),
	}

	created, err := s.saleRepo.Create(ctx, sale)
	if err != nil {
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	s.activity.Log(ctx, domain.ActionSaleRecorded, map[string]interface{}{
		"ventaId":  created.ID,
		"monto":    created.Amount,
		"proyecto": created.ProjectName,
	})

	dto := mapper.ToSaleDTO(created)
	return &dto, nil
}

// Update changes amount, project and comment. The month bucket and owner are kept.
func (s *SaleService) Update(ctx context.Context, id string, req *domain.SaleRequest) (*domain.SaleDTO, error) {
	if req.Amount == nil {
		return nil, invalid("amount", "This field is required")
	}
	projectName := strings.TrimSpace(req.ProjectName)
	if projectName == "" {
		return nil, invalid("projectName", "This field is required")
	}

	updated, err := s.saleRepo.Update(ctx, id, map[string]interface{}{
		domain.FieldAmount:      *req.Amount,
		domain.FieldProjectName: projectName,
		domain.FieldComment:     req.Comment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	s.activity.Log(ctx, domain.ActionSaleUpdated, map[string]interface{}{
		"ventaId":  updated.ID,
		"monto":    updated.Amount,
		"proyecto": updated.ProjectName,
	})

	dto := mapper.ToSaleDTO(updated)
	return &dto, nil
}

func (s *SaleService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	deleted, err := s.saleRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	s.activity.Log(ctx, domain.ActionSaleDeleted, map[string]interface{}{
		"ventaId": deleted.ID,
		"monto":   deleted.Amount,
	})
	return nil
}

// MonthlyTotal sums the sales of a month; an empty month means the current one
func (s *SaleService) MonthlyTotal(ctx context.Context, month string) (*domain.MonthlySalesDTO, error) {
	if month == "" {
		month = s.CurrentMonth()
	}
	if err := validMonth(month); err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.List(ctx, repository.Eq(domain.FieldMonth, month))
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly sales: %w", err)
	}

	total := 0.0
	for _, sale := range sales {
		total += sale.Amount
	}

	return &domain.MonthlySalesDTO{
		Month: month,
		Total: math.Round(total*100) / 100,
		Count: len(sales),
	}, nil
}
