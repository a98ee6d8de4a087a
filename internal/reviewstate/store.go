package reviewstate

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/keylock"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
)

// Options bounds how long an update may wait for its key.
type Options struct {
	LockTimeout        time.Duration
	MaxConflictRetries int
}

// UpdateFunc computes the next state from prior, which is nil when the key
// has no state yet. It runs while the key is locked and may run again after a
// version conflict.
type UpdateFunc func(prior *models.ReviewState) (models.ReviewState, error)

// Store wraps a ReviewStateRepository with a per-key lock and an optimistic
// version check. The lock orders writers inside this process; the version
// check catches writers in other processes sharing the database.
type Store struct {
	repo  repository.ReviewStateRepository
	locks *keylock.Locker
	opts  Options
}

func NewStore(repo repository.ReviewStateRepository, locks *keylock.Locker, opts Options) *Store {
	if locks == nil {
		locks = keylock.New()
	}
	if opts.MaxConflictRetries < 0 {
		opts.MaxConflictRetries = 0
	}
	return &Store{repo: repo, locks: locks, opts: opts}
}

func (s *Store) Get(ctx context.Context, key models.StateKey) (*models.ReviewState, error) {
	state, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, errors.NewStorageError("get review state", err)
	}
	return state, nil
}

// Upsert writes state for its key, replacing whatever is stored.
func (s *Store) Upsert(ctx context.Context, state models.ReviewState) (models.ReviewState, error) {
	return s.Update(ctx, state.Key(), "", func(*models.ReviewState) (models.ReviewState, error) {
		return state, nil
	})
}

// Update applies fn to the state stored under key. When attemptID is set the
// attempt is marked applied in the same transaction as the write. It fails
// with a Busy error when the lock is not acquired within LockTimeout or the
// version check keeps failing, and returns repository.ErrAttemptApplied when
// another writer already applied attemptID.
func (s *Store) Update(ctx context.Context, key models.StateKey, attemptID string, fn UpdateFunc) (models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review_state_store")

	lockCtx := ctx
	if s.opts.LockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, s.opts.LockTimeout)
		defer cancel()
	}
	unlock, err := s.locks.Lock(lockCtx, key.String())
	if err != nil {
		log.Warn("lock wait for %s gave up: %v", key, err)
		return models.ReviewState{}, errors.NewBusyError(key.String(), err)
	}
	defer unlock()

	for try := 0; try <= s.opts.MaxConflictRetries; try++ {
		prior, err := s.repo.Get(ctx, key)
		if err != nil {
			return models.ReviewState{}, errors.NewStorageError("get review state", err)
		}

		next, err := fn(prior)
		if err != nil {
			return models.ReviewState{}, err
		}
		next.UserID, next.ProblemSlug = key.UserID, key.ProblemSlug
		next.Version = 0
		if prior != nil {
			next.Version = prior.Version
		}

		saved, err := s.repo.Save(ctx, next, attemptID)
		switch {
		case err == nil:
			log.Debug("review state %s committed at version %d", key, saved.Version)
			return saved, nil
		case stderrors.Is(err, repository.ErrVersionConflict):
			log.Debug("version conflict on %s, retry %d", key, try+1)
			continue
		case stderrors.Is(err, repository.ErrAttemptApplied):
			return models.ReviewState{}, err
		default:
			log.Error("failed to save review state %s: %v", key, err)
			return models.ReviewState{}, errors.NewStorageError("save review state", err)
		}
	}

	log.Warn("giving up on %s after %d version conflicts", key, s.opts.MaxConflictRetries+1)
	return models.ReviewState{}, errors.NewBusyError(key.String(), repository.ErrVersionConflict)
}

// ListDueBefore returns the user's states due at or before cutoff, ordered by
// next review date then slug.
func (s *Store) ListDueBefore(ctx context.Context, userID string, cutoff time.Time) ([]models.ReviewState, error) {
	states, err := s.repo.ListDueBefore(ctx, userID, cutoff)
	if err != nil {
		return nil, errors.NewStorageError("list due reviews", err)
	}
	return states, nil
}

// NextAfter returns the earliest state due strictly after t, or nil.
func (s *Store) NextAfter(ctx context.Context, userID string, t time.Time) (*models.ReviewState, error) {
	state, err := s.repo.NextAfter(ctx, userID, t)
	if err != nil {
		return nil, errors.NewStorageError("find next review", err)
	}
	return state, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]models.ReviewState, error) {
	states, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, errors.NewStorageError("list review states", err)
	}
	return states, nil
}
