package service_test

import (
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProjectService_MarginIsComputedOnWrite(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProjectService(f.repos.Projects, f.activity, zap.NewNop())

	created, err := svc.Create(f.ctx, &domain.ProjectRequest{
		Name:           "Web",
		TotalAmount:    1000,
		OperatingCost:  200,
		ProductionCost: 300,
		StartDate:      mustDate(t, "2024-01-01"),
		DeliveryDate:   mustDate(t, "2024-01-31"),
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, created.ProfitMargin)
	assert.Equal(t, domain.ProjectStatusPending, created.Status)

	updated, err := svc.Update(f.ctx, created.ID, &domain.ProjectRequest{
		Name:           "Web",
		TotalAmount:    3,
		OperatingCost:  1,
		ProductionCost: 0,
		Status:         domain.ProjectStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, 66.67, updated.ProfitMargin)
	assert.Equal(t, domain.ProjectStatusInProgress, updated.Status)
	assert.Nil(t, updated.StartDate)

	zero, err := svc.Update(f.ctx, created.ID, &domain.ProjectRequest{Name: "Web", OperatingCost: 10})
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.ProfitMargin)

	stored, err := svc.GetByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.ProfitMargin)
}

func TestProjectService_DeliveryBeforeStartIsRejected(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProjectService(f.repos.Projects, f.activity, zap.NewNop())

	_, err := svc.Create(f.ctx, &domain.ProjectRequest{
		Name:         "Web",
		StartDate:    mustDate(t, "2024-02-01"),
		DeliveryDate: mustDate(t, "2024-01-01"),
	})

	require.ErrorIs(t, err, service.ErrInvalidInput)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "deliveryDate", verr.Field)
}

func TestProjectService_DeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProjectService(f.repos.Projects, f.activity, zap.NewNop())

	created, err := svc.Create(f.ctx, &domain.ProjectRequest{Name: "Web"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(f.ctx, created.ID, false), service.ErrConfirmationRequired)
	require.NoError(t, svc.Delete(f.ctx, created.ID, true))

	list, err := svc.List(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMarginService_Reconcile(t *testing.T) {
	f := newFixture(t)
	svc := service.NewProjectService(f.repos.Projects, f.activity, zap.NewNop())

	good, err := svc.Create(f.ctx, &domain.ProjectRequest{Name: "Good", TotalAmount: 100, OperatingCost: 10})
	require.NoError(t, err)
	bad, err := svc.Create(f.ctx, &domain.ProjectRequest{Name: "Bad", TotalAmount: 100, OperatingCost: 10})
	require.NoError(t, err)

	// simulate a record written by a client that never stored the margin
	require.NoError(t, f.stores.Projects.Update(f.ctx, bad.ID, map[string]interface{}{
		domain.FieldProfitMargin: 12.5,
	}))

	margins := service.NewMarginService(f.stores.Projects, zap.NewNop())

	report, err := margins.Reconcile(f.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Stale)
	assert.Equal(t, 0, report.Repaired)
	assert.Equal(t, []string{bad.ID}, report.StaleIDs)

	report, err = margins.Reconcile(f.ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Repaired)

	fixed, err := svc.GetByID(f.ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, fixed.ProfitMargin)

	untouched, err := svc.GetByID(f.ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, untouched.ProfitMargin)

	report, err = margins.Reconcile(f.ctx, false)
	require.NoError(t, err)
	assert.Zero(t, report.Stale)
}
