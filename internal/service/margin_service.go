package service

import (
	"context"
	"fmt"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
)

// MarginReport summarises a reconciliation run
type MarginReport struct {
	Checked  int
	Stale    int
	Repaired int
	StaleIDs []string
}

// MarginService checks persisted profit margins against their inputs across all users.
// It works on the unscoped store and is only used by operators and scheduled jobs.
type MarginService struct {
	projects repository.Store[domain.Project]
	logger   *zap.Logger
}

func NewMarginService(projects repository.Store[domain.Project], logger *zap.Logger) *MarginService {
	return &MarginService{projects: projects, logger: logger}
}

// Reconcile finds projects whose stored margin differs from the computed one and,
// when repair is set, rewrites them.
func (s *MarginService) Reconcile(ctx context.Context, repair bool) (*MarginReport, error) {
	projects, err := s.projects.Find(ctx, repository.Query{})
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	report := &MarginReport{Checked: len(projects)}
	for i := range projects {
		p := &projects[i]
		if !p.MarginIsStale() {
			continue
		}

		expected := domain.ProfitMargin(p.TotalAmount, p.OperatingCost, p.ProductionCost)
		report.Stale++
		report.StaleIDs = append(report.StaleIDs, p.ID)
		s.logger.Warn("stale profit margin",
			zap.String("project_id", p.ID),
			zap.String("owner_id", p.OwnerID),
			zap.Float64("stored", p.ProfitMargin),
			zap.Float64("expected", expected),
		)

		if !repair {
			continue
		}
		if err := s.projects.Update(ctx, p.ID, map[string]interface{}{
			domain.FieldProfitMargin: expected,
		}); err != nil {
			return report, fmt.Errorf("failed to repair margin of project %s: %w", p.ID, err)
		}
		report.Repaired++
	}

	s.logger.Info("margin reconciliation finished",
		zap.Int("checked", report.Checked),
		zap.Int("stale", report.Stale),
		zap.Int("repaired", report.Repaired),
	)
	return report, nil
}
