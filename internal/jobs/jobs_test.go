package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/julesapp/crm-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeReconciler struct {
	calls  int
	repair bool
	report *service.MarginReport
	err    error
}

func (f *fakeReconciler) Reconcile(ctx context.Context, repair bool) (*service.MarginReport, error) {
	f.calls++
	f.repair = repair
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("expected a deadline")
	}
	return f.report, f.err
}

type fakePurger struct {
	purged int64
	err    error
}

func (f *fakePurger) PurgeExpiredRevocations(ctx context.Context) (int64, error) {
	return f.purged, f.err
}

func TestScheduler_AddAndRemoveJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b", "0 0 * * * *", func() {}))
	require.NoError(t, s.AddJob("a", "@every 1h", func() {}))
	assert.Equal(t, []string{"a", "b"}, s.GetJobNames())

	err := s.AddJob("a", "@every 1h", func() {})
	assert.ErrorContains(t, err, "already exists")

	err = s.AddJob("c", "not a cron", func() {})
	assert.Error(t, err)

	require.NoError(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.GetJobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestMarginReconcileJob_Run(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := &fakeReconciler{report: &service.MarginReport{Checked: 4, Stale: 1, Repaired: 1}}

	NewMarginReconcileJob(f, true, zap.New(core), time.Minute).Run()

	assert.Equal(t, 1, f.calls)
	assert.True(t, f.repair)
	entries := logs.FilterMessage("margin reconciliation job completed").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ContextMap()["stale"])
}

func TestMarginReconcileJob_RunLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := &fakeReconciler{err: errors.New("store down")}

	NewMarginReconcileJob(f, false, zap.New(core), time.Minute).Run()

	assert.Equal(t, 1, logs.FilterMessage("margin reconciliation failed").Len())
	assert.Zero(t, logs.FilterMessage("margin reconciliation job completed").Len())
}

func TestRevocationPurgeJob_Run(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	NewRevocationPurgeJob(&fakePurger{purged: 3}, zap.New(core), time.Minute).Run()
	NewRevocationPurgeJob(&fakePurger{}, zap.New(core), time.Minute).Run()
	NewRevocationPurgeJob(&fakePurger{err: errors.New("boom")}, zap.New(core), time.Minute).Run()

	assert.Equal(t, 1, logs.FilterMessage("expired revocations purged").Len())
	assert.Equal(t, 1, logs.FilterMessage("revocation purge failed").Len())
}

func TestRegisterJobs(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	require.NoError(t, RegisterMarginReconcileJob(s, &fakeReconciler{}, false, zap.NewNop(), "0 30 3 * * *"))
	require.NoError(t, RegisterRevocationPurgeJob(s, &fakePurger{}, zap.NewNop(), "0 0 4 * * *"))

	assert.Equal(t, []string{MarginReconcileJobName, RevocationPurgeJobName}, s.GetJobNames())
}
