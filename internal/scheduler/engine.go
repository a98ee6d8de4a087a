package scheduler

import (
	"math"
	"time"

	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/models"
)

// Catalog is the read-only view of the problem catalog the engine needs.
type Catalog interface {
	Lookup(slug string) (models.Problem, bool)
}

// Engine computes review state transitions.
type Engine struct {
	params  Params
	catalog Catalog
}

// NewEngine creates an Engine. params must already be validated.
func NewEngine(params Params, catalog Catalog) *Engine {
	return &Engine{params: params, catalog: catalog}
}

// Initial returns the baseline state used when a pair has no prior state.
func (e *Engine) Initial(key models.StateKey, now time.Time) models.ReviewState {
	return models.ReviewState{
		UserID:         key.UserID,
		ProblemSlug:    key.ProblemSlug,
		IntervalDays:   e.params.BaselineIntervalDays,
		EaseFactor:     e.params.DefaultEase,
		Repetitions:    0,
		LastReviewedAt: now,
		NextReviewDate: now,
	}
}

// Validate checks an attempt without computing anything.
func (e *Engine) Validate(a models.Attempt) error {
	if a.PersonalDifficulty < models.MinPersonalDifficulty || a.PersonalDifficulty > models.MaxPersonalDifficulty {
		return errors.NewInvalidAttemptError("personal_difficulty", "must be between 1 and 5")
	}
	if !a.Result.Valid() {
		return errors.NewInvalidAttemptError("result", "must be pass or fail")
	}
	if a.UserID == "" {
		return errors.NewInvalidAttemptError("user_id", "is required")
	}
	if _, ok := e.catalog.Lookup(a.ProblemSlug); !ok {
		appErr := errors.NewInvalidAttemptError("problem_slug", "is not in the problem catalog")
		appErr.Err = errors.NewUnknownProblemError(a.ProblemSlug)
		return appErr
	}
	return nil
}

// Transition returns the state that follows prior after attempt at now.
// prior may be nil for the first attempt on a pair. The result depends only
// on the arguments.
func (e *Engine) Transition(prior *models.ReviewState, a models.Attempt, now time.Time) (models.ReviewState, error) {
	if err := e.Validate(a); err != nil {
		return models.ReviewState{}, err
	}

	var cur models.ReviewState
	if prior == nil {
		cur = e.Initial(a.Key(), now)
	} else {
		if prior.Key() != a.Key() {
			return models.ReviewState{}, errors.NewInvalidAttemptError("problem_slug", "does not match the prior review state")
		}
		cur = *prior
	}

	next := cur
	next.LastResult = a.Result
	next.LastReviewedAt = now

	switch a.Result {
	case models.ResultFail:
		next.Repetitions = 0
		next.IntervalDays = e.params.BaselineIntervalDays
		next.EaseFactor = math.Max(e.params.MinEase, cur.EaseFactor-e.params.FailEasePenalty)
	case models.ResultPass:
		next.Repetitions = cur.Repetitions + 1
		next.EaseFactor = e.adjustEase(cur.EaseFactor, a.PersonalDifficulty)
		next.IntervalDays = e.passInterval(cur.IntervalDays, next.EaseFactor, next.Repetitions)
	}

	next.NextReviewDate = now.AddDate(0, 0, next.IntervalDays)
	return next, nil
}

// adjustEase moves ease up for easy reviews and down for hard ones.
// Difficulty 3 leaves it unchanged.
func (e *Engine) adjustEase(ease float64, difficulty int) float64 {
	ease += e.params.EaseStep * float64(3-difficulty)
	return math.Min(e.params.MaxEase, math.Max(e.params.MinEase, ease))
}

func (e *Engine) passInterval(prevInterval int, ease float64, repetitions int) int {
	if repetitions == 1 {
		return e.params.BaselineIntervalDays
	}
	interval := int(math.Round(float64(prevInterval) * ease))
	if interval <= prevInterval {
		interval = prevInterval + 1
	}
	if interval > e.params.MaxIntervalDays {
		interval = e.params.MaxIntervalDays
	}
	return interval
}
