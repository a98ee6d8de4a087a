package scheduler_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/scheduler"
)

type fakeCatalog map[string]models.Problem

func (c fakeCatalog) Lookup(slug string) (models.Problem, bool) {
	p, ok := c[slug]
	return p, ok
}

var day0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newEngine() *scheduler.Engine {
	return scheduler.NewEngine(scheduler.DefaultParams(), fakeCatalog{
		"two-sum":       {Slug: "two-sum", Title: "Two Sum", OfficialDifficulty: models.DifficultyEasy},
		"lru-cache":     {Slug: "lru-cache", Title: "LRU Cache", OfficialDifficulty: models.DifficultyMedium},
		"median-arrays": {Slug: "median-arrays", Title: "Median of Two Sorted Arrays", OfficialDifficulty: models.DifficultyHard},
	})
}

func attempt(slug string, difficulty int, result models.Result) models.Attempt {
	return models.Attempt{ID: "a", UserID: "u1", ProblemSlug: slug, PersonalDifficulty: difficulty, Result: result}
}

func TestTransition_FirstPass(t *testing.T) {
	e := newEngine()

	st, err := e.Transition(nil, attempt("two-sum", 2, models.ResultPass), day0)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Repetitions)
	assert.Equal(t, 1, st.IntervalDays)
	assert.Equal(t, day0.AddDate(0, 0, 1), st.NextReviewDate)
	assert.Equal(t, day0, st.LastReviewedAt)
	assert.Equal(t, models.ResultPass, st.LastResult)
	assert.Equal(t, "u1", st.UserID)
	assert.Equal(t, "two-sum", st.ProblemSlug)
}

func TestTransition_FailAfterPassResets(t *testing.T) {
	e := newEngine()
	st, err := e.Transition(nil, attempt("two-sum", 2, models.ResultPass), day0)
	require.NoError(t, err)

	day1 := day0.AddDate(0, 0, 1)
	st, err = e.Transition(&st, attempt("two-sum", 2, models.ResultFail), day1)
	require.NoError(t, err)

	assert.Equal(t, 0, st.Repetitions)
	assert.Equal(t, 1, st.IntervalDays)
	assert.Equal(t, day1.AddDate(0, 0, 1), st.NextReviewDate)
	assert.Equal(t, models.ResultFail, st.LastResult)
}

func TestTransition_FailResetsRegardlessOfHistory(t *testing.T) {
	e := newEngine()
	var st *models.ReviewState
	now := day0
	for i := 0; i < 8; i++ {
		next, err := e.Transition(st, attempt("lru-cache", 1, models.ResultPass), now)
		require.NoError(t, err)
		st = &next
		now = next.NextReviewDate
	}
	require.Greater(t, st.IntervalDays, 30)

	failed, err := e.Transition(st, attempt("lru-cache", 5, models.ResultFail), now)
	require.NoError(t, err)
	assert.Equal(t, 0, failed.Repetitions)
	assert.Equal(t, scheduler.DefaultParams().BaselineIntervalDays, failed.IntervalDays)
	assert.Less(t, failed.EaseFactor, st.EaseFactor)
}

func TestTransition_PassSequenceIsMonotonic(t *testing.T) {
	e := newEngine()
	for difficulty := 1; difficulty <= 5; difficulty++ {
		var st *models.ReviewState
		now := day0
		prevInterval := 0
		var prevNext time.Time
		for i := 0; i < 15; i++ {
			next, err := e.Transition(st, attempt("two-sum", difficulty, models.ResultPass), now)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, next.IntervalDays, prevInterval, "difficulty %d step %d", difficulty, i)
			assert.True(t, next.NextReviewDate.After(prevNext), "difficulty %d step %d", difficulty, i)
			assert.Equal(t, i+1, next.Repetitions)
			assert.False(t, next.NextReviewDate.Before(next.LastReviewedAt))

			prevInterval = next.IntervalDays
			prevNext = next.NextReviewDate
			st = &next
			now = next.NextReviewDate
		}
	}
}

func TestTransition_IntervalStrictlyIncreasesBelowCap(t *testing.T) {
	e := newEngine()
	// Hardest self rating drives ease to its floor; growth must still be strict.
	var st *models.ReviewState
	now := day0
	prev := 0
	for i := 0; i < 10; i++ {
		next, err := e.Transition(st, attempt("median-arrays", 5, models.ResultPass), now)
		require.NoError(t, err)
		if i > 0 && prev < scheduler.DefaultParams().MaxIntervalDays {
			assert.Greater(t, next.IntervalDays, prev)
		}
		prev = next.IntervalDays
		st = &next
		now = next.NextReviewDate
	}
}

func TestTransition_IntervalCapped(t *testing.T) {
	e := newEngine()
	prior := models.ReviewState{
		UserID: "u1", ProblemSlug: "two-sum",
		IntervalDays: 170, EaseFactor: 3.0, Repetitions: 9,
	}

	st, err := e.Transition(&prior, attempt("two-sum", 1, models.ResultPass), day0)
	require.NoError(t, err)
	assert.Equal(t, 180, st.IntervalDays)
	assert.Equal(t, day0.AddDate(0, 0, 180), st.NextReviewDate)
}

func TestTransition_EaseAdjustsWithDifficulty(t *testing.T) {
	e := newEngine()
	prior := models.ReviewState{UserID: "u1", ProblemSlug: "two-sum", IntervalDays: 4, EaseFactor: 2.5, Repetitions: 2}

	easy, err := e.Transition(&prior, attempt("two-sum", 1, models.ResultPass), day0)
	require.NoError(t, err)
	neutral, err := e.Transition(&prior, attempt("two-sum", 3, models.ResultPass), day0)
	require.NoError(t, err)
	hard, err := e.Transition(&prior, attempt("two-sum", 5, models.ResultPass), day0)
	require.NoError(t, err)

	assert.InDelta(t, 2.65, easy.EaseFactor, 1e-9)
	assert.InDelta(t, 2.5, neutral.EaseFactor, 1e-9)
	assert.InDelta(t, 2.35, hard.EaseFactor, 1e-9)
	assert.Equal(t, 11, easy.IntervalDays)    // round(4 * 2.65)
	assert.Equal(t, 10, neutral.IntervalDays) // 4 * 2.5
	assert.Equal(t, 9, hard.IntervalDays)     // round(4 * 2.35)
}

func TestTransition_EaseClamped(t *testing.T) {
	e := newEngine()
	p := scheduler.DefaultParams()

	high := models.ReviewState{UserID: "u1", ProblemSlug: "two-sum", IntervalDays: 2, EaseFactor: p.MaxEase, Repetitions: 3}
	st, err := e.Transition(&high, attempt("two-sum", 1, models.ResultPass), day0)
	require.NoError(t, err)
	assert.Equal(t, p.MaxEase, st.EaseFactor)

	low := models.ReviewState{UserID: "u1", ProblemSlug: "two-sum", IntervalDays: 2, EaseFactor: p.MinEase, Repetitions: 3}
	for i := 0; i < 5; i++ {
		low, err = e.Transition(&low, attempt("two-sum", 5, models.ResultFail), day0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, low.EaseFactor, p.MinEase)
	}
}

func TestTransition_IsPure(t *testing.T) {
	e := newEngine()
	prior := models.ReviewState{UserID: "u1", ProblemSlug: "lru-cache", IntervalDays: 6, EaseFactor: 2.2, Repetitions: 3}
	a := attempt("lru-cache", 4, models.ResultPass)

	first, err := e.Transition(&prior, a, day0)
	require.NoError(t, err)
	second, err := e.Transition(&prior, a, day0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 6, prior.IntervalDays, "prior must not be mutated")
}

func TestTransition_InvalidAttempts(t *testing.T) {
	e := newEngine()
	tests := []struct {
		name    string
		attempt models.Attempt
	}{
		{"difficulty too low", attempt("two-sum", 0, models.ResultPass)},
		{"difficulty too high", attempt("two-sum", 6, models.ResultPass)},
		{"unknown result", attempt("two-sum", 3, models.Result("maybe"))},
		{"unknown problem", attempt("not-a-problem", 3, models.ResultPass)},
		{"missing user", models.Attempt{ProblemSlug: "two-sum", PersonalDifficulty: 3, Result: models.ResultPass}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Transition(nil, tt.attempt, day0)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrInvalidAttempt))
		})
	}
}

func TestTransition_UnknownProblemIsDistinguishable(t *testing.T) {
	_, err := newEngine().Transition(nil, attempt("nope", 3, models.ResultPass), day0)
	assert.ErrorIs(t, err, errors.ErrUnknownProblem)
}

func TestTransition_PriorKeyMismatch(t *testing.T) {
	e := newEngine()
	prior := models.ReviewState{UserID: "u1", ProblemSlug: "lru-cache", IntervalDays: 1, EaseFactor: 2.5}

	_, err := e.Transition(&prior, attempt("two-sum", 3, models.ResultPass), day0)
	assert.ErrorIs(t, err, errors.ErrInvalidAttempt)
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, scheduler.DefaultParams().Validate())

	bad := scheduler.DefaultParams()
	bad.BaselineIntervalDays = 0
	bad.MinEase = 3.5
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline interval")
	assert.Contains(t, err.Error(), "max ease must be >= min ease")
}
