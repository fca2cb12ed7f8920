package jobs

import (
	"context"
	"time"

	"github.com/julesapp/crm-api/internal/service"
	"go.uber.org/zap"
)

const (
	// MarginReconcileJobName checks stored profit margins against their inputs
	MarginReconcileJobName = "margin_reconcile"
	// RevocationPurgeJobName drops sign-out records whose tokens have expired anyway
	RevocationPurgeJobName = "revocation_purge"

	// DefaultJobTimeout bounds a single maintenance run
	DefaultJobTimeout = 5 * time.Minute
)

// MarginReconciler is satisfied by service.MarginService
type MarginReconciler interface {
	Reconcile(ctx context.Context, repair bool) (*service.MarginReport, error)
}

// RevocationPurger is satisfied by auth.LocalProvider
type RevocationPurger interface {
	PurgeExpiredRevocations(ctx context.Context) (int64, error)
}

// MarginReconcileJob reports, and optionally repairs, projects whose stored margin is stale.
type MarginReconcileJob struct {
	margins MarginReconciler
	repair  bool
	logger  *zap.Logger
	timeout time.Duration
}

func NewMarginReconcileJob(margins MarginReconciler, repair bool, logger *zap.Logger, timeout time.Duration) *MarginReconcileJob {
	return &MarginReconcileJob{margins: margins, repair: repair, logger: logger, timeout: timeout}
}

// Run executes one reconciliation pass
func (j *MarginReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	report, err := j.margins.Reconcile(ctx, j.repair)
	if err != nil {
		j.logger.Error("margin reconciliation failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("margin reconciliation job completed",
		zap.Int("checked", report.Checked),
		zap.Int("stale", report.Stale),
		zap.Int("repaired", report.Repaired),
		zap.Bool("repair", j.repair),
		zap.Duration("duration", time.Since(start)))
}

// RevocationPurgeJob keeps the local provider's revocation table small
type RevocationPurgeJob struct {
	purger  RevocationPurger
	logger  *zap.Logger
	timeout time.Duration
}

func NewRevocationPurgeJob(purger RevocationPurger, logger *zap.Logger, timeout time.Duration) *RevocationPurgeJob {
	return &RevocationPurgeJob{purger: purger, logger: logger, timeout: timeout}
}

func (j *RevocationPurgeJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	purged, err := j.purger.PurgeExpiredRevocations(ctx)
	if err != nil {
		j.logger.Error("revocation purge failed", zap.Error(err))
		return
	}
	if purged > 0 {
		j.logger.Info("expired revocations purged", zap.Int64("purged", purged))
	}
}

// RegisterMarginReconcileJob adds the margin job to the scheduler
func RegisterMarginReconcileJob(scheduler *Scheduler, margins MarginReconciler, repair bool, logger *zap.Logger, cronExpr string) error {
	job := NewMarginReconcileJob(margins, repair, logger, DefaultJobTimeout)
	return scheduler.AddJob(MarginReconcileJobName, cronExpr, job.Run)
}

// RegisterRevocationPurgeJob adds the purge job to the scheduler
func RegisterRevocationPurgeJob(scheduler *Scheduler, purger RevocationPurger, logger *zap.Logger, cronExpr string) error {
	job := NewRevocationPurgeJob(purger, logger, DefaultJobTimeout)
	return scheduler.AddJob(RevocationPurgeJobName, cronExpr, job.Run)
}
