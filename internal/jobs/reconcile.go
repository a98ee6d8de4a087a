package jobs

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
)

// Applier runs the transition of an attempt that is already in the log.
type Applier interface {
	Apply(ctx context.Context, attempt models.Attempt, now time.Time) (models.ReviewState, error)
}

// ReconcileStats reports one reconciliation pass.
type ReconcileStats struct {
	Found    int
	Applied  int
	Rejected int
	Failed   int
}

// ReconcileJob applies attempts that were appended to the log but whose
// review state update never committed. Attempts younger than Grace are left
// alone since their request may still be in flight. Attempts that fail
// validation, such as ones whose problem left the catalog, are rejected so
// later passes skip them.
type ReconcileJob struct {
	Attempts  repository.AttemptRepository
	Applier   Applier
	Grace     time.Duration
	BatchSize int
	Now       func() time.Time
}

func (j *ReconcileJob) Name() string { return "reconcile_attempts" }

func (j *ReconcileJob) Run(ctx context.Context) error {
	_, err := j.Reconcile(ctx)
	return err
}

// Reconcile runs one pass and reports what it did.
func (j *ReconcileJob) Reconcile(ctx context.Context) (ReconcileStats, error) {
	log := logger.FromContext(ctx).WithPrefix("reconcile")

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	batch := j.BatchSize
	if batch <= 0 {
		batch = 500
	}
	at := now()

	pending, err := j.Attempts.ListUnapplied(ctx, at.Add(-j.Grace), batch)
	if err != nil {
		log.Error("failed to list unapplied attempts: %v", err)
		return ReconcileStats{}, err
	}
	stats := ReconcileStats{Found: len(pending)}
	if len(pending) == 0 {
		log.Debug("nothing to reconcile")
		return stats, nil
	}

	for _, a := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		_, err := j.Applier.Apply(ctx, a, at)
		switch {
		case err == nil, stderrors.Is(err, repository.ErrAttemptApplied):
			stats.Applied++
		case stderrors.Is(err, errors.ErrInvalidAttempt), stderrors.Is(err, errors.ErrUnknownProblem):
			switch rerr := j.Attempts.Reject(ctx, a.ID); {
			case rerr == nil:
				stats.Rejected++
				log.Warn("rejected attempt %s (%s): %v", a.ID, a.Key(), err)
			case stderrors.Is(rerr, repository.ErrAttemptApplied):
				stats.Applied++
			default:
				stats.Failed++
				log.Error("failed to reject attempt %s: %v", a.ID, rerr)
			}
		default:
			stats.Failed++
			log.Warn("could not apply attempt %s (%s): %v", a.ID, a.Key(), err)
		}
	}

	log.Info("reconciled %d of %d attempts, %d rejected, %d failed", stats.Applied, stats.Found, stats.Rejected, stats.Failed)
	return stats, nil
}
