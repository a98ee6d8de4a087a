package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
	"github.com/vytor/repeetcode/internal/repository/sqlstore"
	"github.com/vytor/repeetcode/internal/testutil"
)

type AttemptRepositorySuite struct {
	suite.Suite
	repo repository.AttemptRepository
}

func (s *AttemptRepositorySuite) SetupTest() {
	s.repo = sqlstore.NewAttemptRepository(testutil.NewTestDB(s.T()))
}

func (s *AttemptRepositorySuite) attempt(id, user, slug string, result models.Result, at time.Time) models.Attempt {
	return models.Attempt{
		ID:                 id,
		UserID:             user,
		ProblemSlug:        slug,
		PersonalDifficulty: 3,
		Result:             result,
		LoggedAt:           at,
	}
}

func (s *AttemptRepositorySuite) TestAppendIsIdempotentOnID() {
	ctx := context.Background()
	a := s.attempt("a1", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 1, 10))

	created, err := s.repo.Append(ctx, a)
	s.Require().NoError(err)
	s.True(created)

	created, err = s.repo.Append(ctx, a)
	s.Require().NoError(err)
	s.False(created)

	got, err := s.repo.Get(ctx, "a1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(a.LoggedAt, got.LoggedAt)
	s.Equal(models.ResultPass, got.Result)
	s.False(got.Applied)

	count, err := s.repo.Count(ctx, "u1")
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *AttemptRepositorySuite) TestGetMissing() {
	got, err := s.repo.Get(context.Background(), "missing")
	s.NoError(err)
	s.Nil(got)
}

func (s *AttemptRepositorySuite) TestListByProblemNewestFirst() {
	ctx := context.Background()
	for i, id := range []string{"a1", "a2", "a3"} {
		_, err := s.repo.Append(ctx, s.attempt(id, "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 1+i, 9)))
		s.Require().NoError(err)
	}
	_, err := s.repo.Append(ctx, s.attempt("b1", "u2", "two-sum", models.ResultPass, testutil.Date(2024, 3, 9, 9)))
	s.Require().NoError(err)

	got, err := s.repo.ListByProblem(ctx, "u1", "two-sum", 2)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("a3", got[0].ID)
	s.Equal("a2", got[1].ID)

	all, err := s.repo.ListByProblem(ctx, "u1", "two-sum", 0)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *AttemptRepositorySuite) TestLoggedAtAndStats() {
	ctx := context.Background()
	_, err := s.repo.Append(ctx, s.attempt("a1", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 1, 9)))
	s.Require().NoError(err)
	_, err = s.repo.Append(ctx, s.attempt("a2", "u1", "two-sum", models.ResultFail, testutil.Date(2024, 3, 2, 9)))
	s.Require().NoError(err)
	_, err = s.repo.Append(ctx, s.attempt("a3", "u1", "lru-cache", models.ResultPass, testutil.Date(2024, 3, 5, 9)))
	s.Require().NoError(err)

	times, err := s.repo.LoggedAt(ctx, "u1", testutil.Date(2024, 3, 3, 0))
	s.Require().NoError(err)
	s.Equal([]time.Time{testutil.Date(2024, 3, 2, 9), testutil.Date(2024, 3, 1, 9)}, times)

	stats, err := s.repo.Stats(ctx, "u1")
	s.Require().NoError(err)
	s.Equal(models.ProblemStats{ProblemSlug: "two-sum", Attempts: 2, Passes: 1}, stats["two-sum"])
	s.Equal(50, stats["two-sum"].SuccessRate())
	s.Equal(100, stats["lru-cache"].SuccessRate())

	none, err := s.repo.Stats(ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *AttemptRepositorySuite) TestListUnappliedOldestFirst() {
	ctx := context.Background()
	_, err := s.repo.Append(ctx, s.attempt("late", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 2, 9)))
	s.Require().NoError(err)
	_, err = s.repo.Append(ctx, s.attempt("early", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 1, 9)))
	s.Require().NoError(err)
	done := s.attempt("done", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 2, 1, 9))
	done.Applied = true
	_, err = s.repo.Append(ctx, done)
	s.Require().NoError(err)
	_, err = s.repo.Append(ctx, s.attempt("fresh", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 9, 9)))
	s.Require().NoError(err)

	got, err := s.repo.ListUnapplied(ctx, testutil.Date(2024, 3, 5, 0), 10)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("early", got[0].ID)
	s.Equal("late", got[1].ID)
}

func (s *AttemptRepositorySuite) TestRejectRemovesFromUnappliedScan() {
	ctx := context.Background()
	_, err := s.repo.Append(ctx, s.attempt("gone", "u1", "removed-problem", models.ResultPass, testutil.Date(2024, 3, 1, 9)))
	s.Require().NoError(err)
	_, err = s.repo.Append(ctx, s.attempt("ok", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 2, 9)))
	s.Require().NoError(err)
	done := s.attempt("done", "u1", "two-sum", models.ResultPass, testutil.Date(2024, 3, 1, 8))
	done.Applied = true
	_, err = s.repo.Append(ctx, done)
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Reject(ctx, "gone"))
	s.ErrorIs(s.repo.Reject(ctx, "done"), repository.ErrAttemptApplied)

	got, err := s.repo.ListUnapplied(ctx, testutil.Date(2024, 3, 5, 0), 10)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("ok", got[0].ID)

	rejected, err := s.repo.Get(ctx, "gone")
	s.Require().NoError(err)
	s.True(rejected.Rejected)
	s.False(rejected.Applied)
}

func TestAttemptRepositorySuite(t *testing.T) {
	suite.Run(t, new(AttemptRepositorySuite))
}
