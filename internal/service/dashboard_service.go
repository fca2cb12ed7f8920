package service

import (
	"context"
	"fmt"
	"math"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecentActivityLimit is how many activity entries the dashboard shows
const RecentActivityLimit = 5

type DashboardService struct {
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client]
	taskRepo   *repository.OwnedRepository[domain.Task, *domain.Task]
	clients    *ClientService
	sales      *SaleService
	activity   *ActivityService
	logger     *zap.Logger
}

func NewDashboardService(
	clientRepo *repository.OwnedRepository[domain.Client, *domain.Client],
	taskRepo *repository.OwnedRepository[domain.Task, *domain.Task],
	clients *ClientService,
	sales *SaleService,
	activity *ActivityService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		clientRepo: clientRepo,
		taskRepo:   taskRepo,
		clients:    clients,
		sales:      sales,
		activity:   activity,
		logger:     logger,
	}
}

// CompletionRate is the rounded percentage of completed tasks; no tasks gives 0
func CompletionRate(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// GetDashboard gathers the figures shown on the home screen. Recent activity is best effort.
func (s *DashboardService) GetDashboard(ctx context.Context) (*domain.DashboardDTO, error) {
	dto := &domain.DashboardDTO{
		ProjectOptions:   []string{},
		RecentActivities: []domain.ActivityDTO{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.clientRepo.Count(gctx)
		dto.TotalClients = n
		return err
	})
	g.Go(func() error {
		n, err := s.taskRepo.Count(gctx)
		dto.TotalTasks = n
		return err
	})
	g.Go(func() error {
		n, err := s.taskRepo.Count(gctx, repository.Eq(domain.FieldCompleted, true))
		dto.CompletedTasks = n
		return err
	})
	g.Go(func() error {
		monthly, err := s.sales.MonthlyTotal(gctx, "")
		if err != nil {
			return err
		}
		dto.Month = monthly.Month
		dto.MonthlySales = monthly.Total
		return nil
	})
	g.Go(func() error {
		options, err := s.clients.ProjectOptions(gctx)
		if err != nil {
			return err
		}
		dto.ProjectOptions = options
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	dto.CompletionRate = CompletionRate(dto.CompletedTasks, dto.TotalTasks)

	recent, err := s.activity.Recent(ctx, RecentActivityLimit)
	if err != nil {
		s.logger.Warn("failed to load recent activity", zap.Error(err))
	} else {
		dto.RecentActivities = recent
	}

	return dto, nil
}
