package service_test

import (
	"errors"
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/julesapp/crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClientService(f *fixture) *service.ClientService {
	return service.NewClientService(f.repos.Clients, f.activity, zap.NewNop())
}

func TestClientService_CreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	svc := newClientService(f)

	created, err := svc.Create(f.ctx, &domain.ClientRequest{Name: "  Acme ", Email: "hola@acme.es"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", created.Name)
	assert.NotEmpty(t, created.CreatedAt)

	updated, err := svc.Update(f.ctx, created.ID, &domain.ClientRequest{Name: "Acme SL", Phone: "600"})
	require.NoError(t, err)
	assert.Equal(t, "Acme SL", updated.Name)
	assert.Empty(t, updated.Email)
	assert.Equal(t, "600", updated.Phone)

	err = svc.Delete(f.ctx, created.ID, false)
	assert.ErrorIs(t, err, service.ErrConfirmationRequired)

	require.NoError(t, svc.Delete(f.ctx, created.ID, true))
	_, err = svc.GetByID(f.ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ElementsMatch(t, []string{
		domain.ActionClientCreated,
		domain.ActionClientUpdated,
		domain.ActionClientDeleted,
	}, f.actions(t))
}

func TestClientService_OtherUsersClientsAreInvisible(t *testing.T) {
	f := newFixture(t)
	svc := newClientService(f)

	created, err := svc.Create(f.ctx, &domain.ClientRequest{Name: "Acme"})
	require.NoError(t, err)

	other := testutil.UserContext("user-2")
	list, err := svc.List(other)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.Delete(other, created.ID, true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientService_Search(t *testing.T) {
	f := newFixture(t)
	svc := newClientService(f)

	for _, req := range []domain.ClientRequest{
		{Name: "Ana López", Email: "ana@example.com"},
		{Name: "Bruno", Company: "Panadería Sol"},
		{Name: "Carla", Phone: "+34 611 222 333"},
	} {
		_, err := svc.Create(f.ctx, &req)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"ana", []string{"Ana López"}},
		{"SOL", []string{"Bruno"}},
		{"611", []string{"Carla"}},
		{"", []string{"Ana López", "Bruno", "Carla"}},
		{"zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := svc.Search(f.ctx, tt.query)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func TestClientService_ProjectOptions(t *testing.T) {
	f := newFixture(t)
	svc := newClientService(f)

	for _, p := range []string{"Web", "App", "Web", ""} {
		_, err := svc.Create(f.ctx, &domain.ClientRequest{Name: "c", ProjectName: p})
		require.NoError(t, err)
	}

	options, err := svc.ProjectOptions(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"App", "Web"}, options)
}

func TestActivityService_LogSwallowsErrors(t *testing.T) {
	broken := brokenStore[domain.Activity]{coll: repository.ActivitiesCollection, err: errors.New("unavailable")}
	activity := service.NewActivityService(repository.NewOwnedRepository[domain.Activity](broken, zap.NewNop()), zap.NewNop())

	assert.NotPanics(t, func() {
		activity.Log(testutil.UserContext("user-1"), domain.ActionClientCreated, nil)
	})
}
