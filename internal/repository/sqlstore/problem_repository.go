package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
)

type problemRow struct {
	Slug               string `db:"slug"`
	Title              string `db:"title"`
	OfficialDifficulty string `db:"official_difficulty"`
	Tags               string `db:"tags"`
}

func (r problemRow) model() (models.Problem, error) {
	tags, err := decodeTags(r.Tags)
	if err != nil {
		return models.Problem{}, err
	}
	return models.Problem{
		Slug:               r.Slug,
		Title:              r.Title,
		Tags:               tags,
		OfficialDifficulty: models.OfficialDifficulty(r.OfficialDifficulty),
	}, nil
}

type problemRepository struct {
	db *db.DB
}

// NewProblemRepository creates a new ProblemRepository implementation
func NewProblemRepository(database *db.DB) repository.ProblemRepository {
	return &problemRepository{db: database}
}

func (r *problemRepository) List(ctx context.Context) ([]models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")

	query, args, err := r.db.Builder().
		Select("slug", "title", "official_difficulty", "tags").
		From("problems").
		OrderBy("slug ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []problemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		log.Error("failed to list problems: %v", err)
		return nil, err
	}
	problems := make([]models.Problem, 0, len(rows))
	for _, row := range rows {
		p, err := row.model()
		if err != nil {
			log.Error("corrupt tags for problem %s: %v", row.Slug, err)
			return nil, err
		}
		problems = append(problems, p)
	}
	log.Debug("listed %d problems", len(problems))
	return problems, nil
}

func (r *problemRepository) Get(ctx context.Context, slug string) (*models.Problem, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")

	var row problemRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
SELECT slug, title, official_difficulty, tags
FROM problems
WHERE slug = ?
`), slug)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("problem not found: slug=%s", slug)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get problem: %v", err)
		return nil, err
	}
	p, err := row.model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *problemRepository) UpsertBatch(ctx context.Context, problems []models.Problem) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("problem_repo")
	log.Debug("upserting %d problems", len(problems))

	stmt := r.db.Rebind(`
INSERT INTO problems (slug, title, official_difficulty, tags, updated_at)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (slug) DO UPDATE SET
    title = excluded.title,
    official_difficulty = excluded.official_difficulty,
    tags = excluded.tags,
    updated_at = excluded.updated_at
`)
	written := 0
	err := r.db.InTx(ctx, func(tx *sqlx.Tx) error {
		for _, p := range problems {
			tags, err := encodeTags(p.Tags)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, stmt, p.Slug, p.Title, string(p.OfficialDifficulty), tags); err != nil {
				log.Error("failed to upsert problem %s: %v", p.Slug, err)
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info("upserted %d problems", written)
	return written, nil
}

func (r *problemRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM problems`)
	return n, err
}
