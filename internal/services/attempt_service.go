package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
	"github.com/vytor/repeetcode/internal/reviewstate"
	"github.com/vytor/repeetcode/internal/scheduler"
)

// LogAttemptRequest is one attempt as reported by a client.
type LogAttemptRequest struct {
	// AttemptID is optional. When set, retries with the same id are applied once.
	AttemptID          string
	ProblemSlug        string
	PersonalDifficulty int
	// Result defaults to pass when empty.
	Result models.Result
}

// LogAttemptResult is the outcome of LogAttempt.
type LogAttemptResult struct {
	Attempt models.Attempt
	State   models.ReviewState
	// Replayed is true when the attempt had already been applied earlier.
	Replayed bool
}

// AttemptService handles attempt logging business logic
type AttemptService interface {
	LogAttempt(ctx context.Context, userID string, req LogAttemptRequest, now time.Time) (*LogAttemptResult, error)
	// Apply runs the transition of an attempt already in the log.
	Apply(ctx context.Context, attempt models.Attempt, now time.Time) (models.ReviewState, error)
}

type attemptService struct {
	attempts repository.AttemptRepository
	store    *reviewstate.Store
	engine   *scheduler.Engine
	catalog  scheduler.Catalog
}

// NewAttemptService creates a new AttemptService
func NewAttemptService(attempts repository.AttemptRepository, store *reviewstate.Store, engine *scheduler.Engine, catalog scheduler.Catalog) AttemptService {
	return &attemptService{attempts: attempts, store: store, engine: engine, catalog: catalog}
}

func (s *attemptService) LogAttempt(ctx context.Context, userID string, req LogAttemptRequest, now time.Time) (*LogAttemptResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id": userID,
		"slug":    req.ProblemSlug,
	})
	log.Debug("logging attempt: difficulty=%d result=%q", req.PersonalDifficulty, req.Result)

	now = db.Timestamp(now)
	if req.Result == "" {
		req.Result = models.ResultPass
	}
	attempt := models.Attempt{
		ID:                 req.AttemptID,
		UserID:             userID,
		ProblemSlug:        req.ProblemSlug,
		PersonalDifficulty: req.PersonalDifficulty,
		Result:             req.Result,
		LoggedAt:           now,
	}
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}

	if _, ok := s.catalog.Lookup(attempt.ProblemSlug); !ok {
		log.Debug("rejecting attempt on unknown problem")
		return nil, errors.NewUnknownProblemError(attempt.ProblemSlug)
	}
	if err := s.engine.Validate(attempt); err != nil {
		return nil, err
	}

	created, err := s.attempts.Append(ctx, attempt)
	if err != nil {
		log.Error("failed to append attempt: %v", err)
		return nil, errors.NewStorageError("append attempt", err)
	}
	if !created {
		existing, err := s.attempts.Get(ctx, attempt.ID)
		if err != nil {
			return nil, errors.NewStorageError("get attempt", err)
		}
		if existing == nil {
			return nil, errors.NewStorageError("get attempt", stderrors.New("attempt vanished after conflicting insert"))
		}
		if existing.UserID != attempt.UserID || existing.ProblemSlug != attempt.ProblemSlug {
			return nil, errors.NewInvalidAttemptError("attempt_id", "is already used by another attempt")
		}
		if existing.Rejected {
			return nil, errors.NewInvalidAttemptError("attempt_id", "was rejected earlier")
		}
		attempt = *existing
		if existing.Applied {
			log.Info("attempt %s already applied, returning current state", attempt.ID)
			return s.replay(ctx, attempt)
		}
		log.Info("attempt %s logged earlier but not applied, applying now", attempt.ID)
	}

	state, err := s.Apply(ctx, attempt, now)
	if stderrors.Is(err, repository.ErrAttemptApplied) {
		return s.replay(ctx, attempt)
	}
	if err != nil {
		return nil, err
	}
	attempt.Applied = true

	log.Info("attempt %s applied: repetitions=%d interval=%d next=%s",
		attempt.ID, state.Repetitions, state.IntervalDays, state.NextReviewDate.Format(time.RFC3339))
	return &LogAttemptResult{Attempt: attempt, State: state}, nil
}

func (s *attemptService) Apply(ctx context.Context, attempt models.Attempt, now time.Time) (models.ReviewState, error) {
	now = db.Timestamp(now)
	return s.store.Update(ctx, attempt.Key(), attempt.ID, func(prior *models.ReviewState) (models.ReviewState, error) {
		return s.engine.Transition(prior, attempt, now)
	})
}

func (s *attemptService) replay(ctx context.Context, attempt models.Attempt) (*LogAttemptResult, error) {
	state, err := s.store.Get(ctx, attempt.Key())
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, errors.NewStorageError("get review state", stderrors.New("applied attempt has no review state"))
	}
	attempt.Applied = true
	return &LogAttemptResult{Attempt: attempt, State: *state, Replayed: true}, nil
}
