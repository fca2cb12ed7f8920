package service_test

import (
	"errors"
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total int64
		want             int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{4, 4, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.CompletionRate(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func newDashboardService(f *fixture, activity *service.ActivityService) *service.DashboardService {
	return service.NewDashboardService(
		f.repos.Clients,
		f.repos.Tasks,
		newClientService(f),
		newSaleService(f),
		activity,
		zap.NewNop(),
	)
}

func TestDashboardService_GetDashboard(t *testing.T) {
	f := newFixture(t)
	clients := newClientService(f)
	tasks := newTaskService(f)
	sales := newSaleService(f)

	for _, name := range []string{"Ana", "Bruno"} {
		_, err := clients.Create(f.ctx, &domain.ClientRequest{Name: name, ProjectName: "Web"})
		require.NoError(t, err)
	}
	for i, done := range []bool{true, false, false} {
		_, err := tasks.Create(f.ctx, &domain.TaskRequest{Title: string(rune('a' + i)), Completed: done})
		require.NoError(t, err)
	}
	_, err := sales.Create(f.ctx, &domain.SaleRequest{Amount: ptr(99.99), ProjectName: "Web"})
	require.NoError(t, err)

	dash, err := newDashboardService(f, f.activity).GetDashboard(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), dash.TotalClients)
	assert.Equal(t, int64(3), dash.TotalTasks)
	assert.Equal(t, int64(1), dash.CompletedTasks)
	assert.Equal(t, 33, dash.CompletionRate)
	assert.Equal(t, sales.CurrentMonth(), dash.Month)
	assert.Equal(t, 99.99, dash.MonthlySales)
	assert.Equal(t, []string{"Web"}, dash.ProjectOptions)
	// two clients, three tasks and a sale were logged
	assert.Len(t, dash.RecentActivities, service.RecentActivityLimit)
}

func TestDashboardService_EmptyAccount(t *testing.T) {
	f := newFixture(t)

	dash, err := newDashboardService(f, f.activity).GetDashboard(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, dash.TotalClients)
	assert.Zero(t, dash.CompletionRate)
	assert.NotNil(t, dash.ProjectOptions)
	assert.NotNil(t, dash.RecentActivities)
}

func TestDashboardService_ActivityFailureIsTolerated(t *testing.T) {
	f := newFixture(t)
	broken := brokenStore[domain.Activity]{coll: repository.ActivitiesCollection, err: errors.New("unavailable")}
	activity := service.NewActivityService(repository.NewOwnedRepository[domain.Activity](broken, zap.NewNop()), zap.NewNop())

	_, err := newClientService(f).Create(f.ctx, &domain.ClientRequest{Name: "Ana"})
	require.NoError(t, err)

	dash, err := newDashboardService(f, activity).GetDashboard(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.TotalClients)
	assert.Empty(t, dash.RecentActivities)
}
