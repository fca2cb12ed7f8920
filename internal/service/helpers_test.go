package service_test

import (
	"context"
	"testing"

	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/repository"
	"github.com/julesapp/crm-api/internal/service"
	"github.com/julesapp/crm-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	stores   *repository.Stores
	repos    *repository.Repositories
	activity *service.ActivityService
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	stores := repository.NewGormStores(db, repository.NewChangeHub())
	repos := repository.NewRepositories(stores, zap.NewNop())
	return &fixture{
		stores:   stores,
		repos:    repos,
		activity: service.NewActivityService(repos.Activities, zap.NewNop()),
		ctx:      testutil.UserContext("user-1"),
	}
}

func (f *fixture) actions(t *testing.T) []string {
	t.Helper()
	items, err := f.repos.Activities.List(f.ctx)
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, a := range items {
		out[i] = a.Action
	}
	return out
}

// brokenStore fails every read and write with err
type brokenStore[T any] struct {
	repository.Store[T]
	coll repository.Collection
	err  error
}

func (s brokenStore[T]) Collection() repository.Collection { return s.coll }

func (s brokenStore[T]) Find(context.Context, repository.Query) ([]T, error) { return nil, s.err }

func (s brokenStore[T]) Count(context.Context, repository.Query) (int64, error) { return 0, s.err }

func (s brokenStore[T]) Create(context.Context, *T) (*T, error) { return nil, s.err }

func ptr[T any](v T) *T { return &v }

func mustDate(t *testing.T, s string) domain.DateValue {
	t.Helper()
	d := domain.ParseDateValue(s)
	require.True(t, d.Valid, s)
	return d
}
