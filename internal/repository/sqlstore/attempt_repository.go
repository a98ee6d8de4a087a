package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
)

var attemptColumns = []string{"id", "user_id", "problem_slug", "personal_difficulty", "result", "logged_at", "applied", "rejected"}

type attemptRow struct {
	ID                 string    `db:"id"`
	UserID             string    `db:"user_id"`
	ProblemSlug        string    `db:"problem_slug"`
	PersonalDifficulty int       `db:"personal_difficulty"`
	Result             string    `db:"result"`
	LoggedAt           time.Time `db:"logged_at"`
	Applied            int       `db:"applied"`
	Rejected           int       `db:"rejected"`
}

func (r attemptRow) model() models.Attempt {
	return models.Attempt{
		ID:                 r.ID,
		UserID:             r.UserID,
		ProblemSlug:        r.ProblemSlug,
		PersonalDifficulty: r.PersonalDifficulty,
		Result:             models.Result(r.Result),
		LoggedAt:           r.LoggedAt.UTC(),
		Applied:            r.Applied != 0,
		Rejected:           r.Rejected != 0,
	}
}

func attemptModels(rows []attemptRow) []models.Attempt {
	out := make([]models.Attempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}

type attemptRepository struct {
	db *db.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(database *db.DB) repository.AttemptRepository {
	return &attemptRepository{db: database}
}

func (r *attemptRepository) Append(ctx context.Context, a models.Attempt) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("appending attempt: id=%s user=%s slug=%s", a.ID, a.UserID, a.ProblemSlug)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO attempts (id, user_id, problem_slug, personal_difficulty, result, logged_at, applied)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING
`), a.ID, a.UserID, a.ProblemSlug, a.PersonalDifficulty, string(a.Result), ts(a.LoggedAt), boolInt(a.Applied))
	if err != nil {
		log.Error("failed to append attempt: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.Debug("attempt %s already logged", a.ID)
		return false, nil
	}
	return true, nil
}

func (r *attemptRepository) Get(ctx context.Context, id string) (*models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query, args, err := r.db.Builder().
		Select(attemptColumns...).
		From("attempts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row attemptRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get attempt: %v", err)
		return nil, err
	}
	a := row.model()
	return &a, nil
}

func (r *attemptRepository) ListByProblem(ctx context.Context, userID, slug string, limit int) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	q := r.db.Builder().
		Select(attemptColumns...).
		From("attempts").
		Where(squirrel.Eq{"user_id": userID, "problem_slug": slug}).
		OrderBy("logged_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	return attemptModels(rows), nil
}

func (r *attemptRepository) LoggedAt(ctx context.Context, userID string, until time.Time) ([]time.Time, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query, args, err := r.db.Builder().
		Select("logged_at").
		From("attempts").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.LtOrEq{"logged_at": ts(until)}).
		OrderBy("logged_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var out []time.Time
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		log.Error("failed to list attempt timestamps: %v", err)
		return nil, err
	}
	for i := range out {
		out[i] = out[i].UTC()
	}
	return out, nil
}

func (r *attemptRepository) Stats(ctx context.Context, userID string) (map[string]models.ProblemStats, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	query, args, err := r.db.Builder().
		Select(
			"problem_slug",
			"COUNT(*) AS attempts",
			"COALESCE(SUM(CASE WHEN result = 'pass' THEN 1 ELSE 0 END), 0) AS passes",
		).
		From("attempts").
		Where(squirrel.Eq{"user_id": userID}).
		GroupBy("problem_slug").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ProblemSlug string `db:"problem_slug"`
		Attempts    int    `db:"attempts"`
		Passes      int    `db:"passes"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to aggregate attempt stats: %v", err)
		return nil, err
	}
	stats := make(map[string]models.ProblemStats, len(rows))
	for _, s := range rows {
		stats[s.ProblemSlug] = models.ProblemStats{ProblemSlug: s.ProblemSlug, Attempts: s.Attempts, Passes: s.Passes}
	}
	return stats, nil
}

func (r *attemptRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM attempts WHERE user_id = ?`), userID)
	return n, err
}

func (r *attemptRepository) ListUnapplied(ctx context.Context, olderThan time.Time, limit int) ([]models.Attempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	q := r.db.Builder().
		Select(attemptColumns...).
		From("attempts").
		Where(squirrel.Eq{"applied": 0, "rejected": 0}).
		Where(squirrel.LtOrEq{"logged_at": ts(olderThan)}).
		OrderBy("logged_at ASC", "id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list unapplied attempts: %v", err)
		return nil, err
	}
	log.Debug("found %d unapplied attempts", len(rows))
	return attemptModels(rows), nil
}

func (r *attemptRepository) Reject(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE attempts SET rejected = 1 WHERE id = ? AND applied = 0`), id)
	if err != nil {
		log.Error("failed to reject attempt %s: %v", id, err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrAttemptApplied
	}
	log.Info("attempt %s rejected", id)
	return nil
}
