package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
)

var reviewStateColumns = []string{
	"user_id", "problem_slug", "interval_days", "ease_factor", "repetitions",
	"last_result", "last_reviewed_at", "next_review_date", "version",
}

type reviewStateRow struct {
	UserID         string    `db:"user_id"`
	ProblemSlug    string    `db:"problem_slug"`
	IntervalDays   int       `db:"interval_days"`
	EaseFactor     float64   `db:"ease_factor"`
	Repetitions    int       `db:"repetitions"`
	LastResult     string    `db:"last_result"`
	LastReviewedAt time.Time `db:"last_reviewed_at"`
	NextReviewDate time.Time `db:"next_review_date"`
	Version        int64     `db:"version"`
}

func (r reviewStateRow) model() models.ReviewState {
	return models.ReviewState{
		UserID:         r.UserID,
		ProblemSlug:    r.ProblemSlug,
		IntervalDays:   r.IntervalDays,
		EaseFactor:     r.EaseFactor,
		Repetitions:    r.Repetitions,
		LastResult:     models.Result(r.LastResult),
		LastReviewedAt: r.LastReviewedAt.UTC(),
		NextReviewDate: r.NextReviewDate.UTC(),
		Version:        r.Version,
	}
}

func reviewStateModels(rows []reviewStateRow) []models.ReviewState {
	out := make([]models.ReviewState, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}

type reviewStateRepository struct {
	db *db.DB
}

// NewReviewStateRepository creates a new ReviewStateRepository implementation
func NewReviewStateRepository(database *db.DB) repository.ReviewStateRepository {
	return &reviewStateRepository{db: database}
}

func (r *reviewStateRepository) Get(ctx context.Context, key models.StateKey) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_state_repo")

	query, args, err := r.db.Builder().
		Select(reviewStateColumns...).
		From("review_state").
		Where(squirrel.Eq{"user_id": key.UserID, "problem_slug": key.ProblemSlug}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row reviewStateRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("review state not found: %s", key)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get review state %s: %v", key, err)
		return nil, err
	}
	s := row.model()
	return &s, nil
}

func (r *reviewStateRepository) Save(ctx context.Context, state models.ReviewState, attemptID string) (models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_state_repo")
	log.Debug("saving review state %s at version %d", state.Key(), state.Version)

	err := r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		var (
			res sql.Result
			err error
		)
		if state.Version == 0 {
			res, err = tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO review_state (user_id, problem_slug, interval_days, ease_factor, repetitions, last_result, last_reviewed_at, next_review_date, version)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
ON CONFLICT (user_id, problem_slug) DO NOTHING
`), state.UserID, state.ProblemSlug, state.IntervalDays, state.EaseFactor, state.Repetitions,
				string(state.LastResult), ts(state.LastReviewedAt), ts(state.NextReviewDate))
		} else {
			res, err = tx.ExecContext(ctx, tx.Rebind(`
UPDATE review_state SET
    interval_days = ?,
    ease_factor = ?,
    repetitions = ?,
    last_result = ?,
    last_reviewed_at = ?,
    next_review_date = ?,
    version = version + 1
WHERE user_id = ? AND problem_slug = ? AND version = ?
`), state.IntervalDays, state.EaseFactor, state.Repetitions, string(state.LastResult),
				ts(state.LastReviewedAt), ts(state.NextReviewDate),
				state.UserID, state.ProblemSlug, state.Version)
		}
		if err != nil {
			log.Error("failed to write review state %s: %v", state.Key(), err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrVersionConflict
		}

		if attemptID == "" {
			return nil
		}
		res, err = tx.ExecContext(ctx, tx.Rebind(`UPDATE attempts SET applied = 1 WHERE id = ? AND applied = 0`), attemptID)
		if err != nil {
			log.Error("failed to mark attempt %s applied: %v", attemptID, err)
			return err
		}
		n, err = res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrAttemptApplied
		}
		return nil
	})
	if err != nil {
		return models.ReviewState{}, err
	}

	state.Version++
	state.LastReviewedAt = ts(state.LastReviewedAt)
	state.NextReviewDate = ts(state.NextReviewDate)
	log.Debug("saved review state %s, version now %d", state.Key(), state.Version)
	return state, nil
}

func (r *reviewStateRepository) ListDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_state_repo")

	query, args, err := r.db.Builder().
		Select(reviewStateColumns...).
		From("review_state").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.LtOrEq{"next_review_date": ts(cutoff)}).
		OrderBy("next_review_date ASC", "problem_slug ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []reviewStateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list due reviews: %v", err)
		return nil, err
	}
	log.Debug("found %d due reviews for user %s", len(rows), userID)
	return reviewStateModels(rows), nil
}

func (r *reviewStateRepository) NextAfter(ctx context.Context, userID string, after time.Time) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_state_repo")

	query, args, err := r.db.Builder().
		Select(reviewStateColumns...).
		From("review_state").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Gt{"next_review_date": ts(after)}).
		OrderBy("next_review_date ASC", "problem_slug ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row reviewStateRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get next review: %v", err)
		return nil, err
	}
	s := row.model()
	return &s, nil
}

func (r *reviewStateRepository) List(ctx context.Context, userID string) ([]models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_state_repo")

	query, args, err := r.db.Builder().
		Select(reviewStateColumns...).
		From("review_state").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("next_review_date ASC", "problem_slug ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []reviewStateRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list review states: %v", err)
		return nil, err
	}
	return reviewStateModels(rows), nil
}
