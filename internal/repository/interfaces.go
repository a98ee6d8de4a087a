package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/repeetcode/internal/models"
)

var (
	// ErrVersionConflict means the stored review state changed since it was read.
	ErrVersionConflict = errors.New("review state version conflict")
	// ErrAttemptApplied means the attempt's transition was already committed.
	ErrAttemptApplied = errors.New("attempt already applied")
)

// ProblemRepository handles catalog data access
type ProblemRepository interface {
	List(ctx context.Context) ([]models.Problem, error)
	Get(ctx context.Context, slug string) (*models.Problem, error)
	UpsertBatch(ctx context.Context, problems []models.Problem) (int, error)
	Count(ctx context.Context) (int, error)
}

// AttemptRepository is the append-only attempt log
type AttemptRepository interface {
	// Append stores a new attempt. It returns false, without error, when an
	// attempt with the same id already exists.
	Append(ctx context.Context, attempt models.Attempt) (bool, error)
	Get(ctx context.Context, id string) (*models.Attempt, error)
	ListByProblem(ctx context.Context, userID, slug string, limit int) ([]models.Attempt, error)
	LoggedAt(ctx context.Context, userID string, until time.Time) ([]time.Time, error)
	Stats(ctx context.Context, userID string) (map[string]models.ProblemStats, error)
	Count(ctx context.Context, userID string) (int, error)
	// ListUnapplied returns attempts that are neither applied nor rejected,
	// oldest first.
	ListUnapplied(ctx context.Context, olderThan time.Time, limit int) ([]models.Attempt, error)
	// Reject takes an attempt that can never be applied out of reconciliation.
	// It returns ErrAttemptApplied when the attempt was applied meanwhile.
	Reject(ctx context.Context, id string) error
}

// ReviewStateRepository handles review state data access
type ReviewStateRepository interface {
	Get(ctx context.Context, key models.StateKey) (*models.ReviewState, error)
	// Save writes state if the stored version still equals state.Version
	// (0 = not stored yet) and, when attemptID is set, marks that attempt
	// applied in the same transaction. It returns the state with its new
	// version.
	Save(ctx context.Context, state models.ReviewState, attemptID string) (models.ReviewState, error)
	ListDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]models.ReviewState, error)
	NextAfter(ctx context.Context, userID string, after time.Time) (*models.ReviewState, error)
	List(ctx context.Context, userID string) ([]models.ReviewState, error)
}
