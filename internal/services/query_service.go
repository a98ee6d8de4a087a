package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/vytor/repeetcode/internal/catalog"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/repository"
	"github.com/vytor/repeetcode/internal/reviewstate"
	"github.com/vytor/repeetcode/internal/scheduler"
	"github.com/vytor/repeetcode/internal/streak"
)

const (
	SortByDue   = "due"
	SortByTitle = "title"
)

// ProblemCatalog is the read side of the problem catalog.
type ProblemCatalog interface {
	Lookup(slug string) (models.Problem, bool)
	Search(f catalog.Filter) []models.Problem
}

// AllProblemsOptions controls the all-problems listing.
type AllProblemsOptions struct {
	Sort  string
	Query string
	// IncludeUntracked adds catalog problems the user never attempted.
	IncludeUntracked bool
}

// QueryService answers read-only questions about a user's progress
type QueryService interface {
	ReviewsDue(ctx context.Context, userID string, now time.Time) (*models.ReviewsDue, error)
	AllProblems(ctx context.Context, userID string, opts AllProblemsOptions) ([]models.ProblemOverview, error)
	CurrentStreak(ctx context.Context, userID string, today time.Time, loc *time.Location) (*models.StreakCounter, error)
	DashboardStats(ctx context.Context, userID string, now time.Time, loc *time.Location) (*models.DashboardStats, error)
	ProblemAttempts(ctx context.Context, userID, slug string, limit int) ([]models.Attempt, error)
}

type queryService struct {
	store    *reviewstate.Store
	attempts repository.AttemptRepository
	catalog  ProblemCatalog
	params   scheduler.Params
}

// NewQueryService creates a new QueryService
func NewQueryService(store *reviewstate.Store, attempts repository.AttemptRepository, catalog ProblemCatalog, params scheduler.Params) QueryService {
	return &queryService{store: store, attempts: attempts, catalog: catalog, params: params}
}

func (s *queryService) ReviewsDue(ctx context.Context, userID string, now time.Time) (*models.ReviewsDue, error) {
	log := logger.FromContext(ctx).WithPrefix("query")
	now = db.Timestamp(now)

	due, err := s.store.ListDueBefore(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	next, err := s.store.NextAfter(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	out := &models.ReviewsDue{ReviewsDue: make([]models.ReviewEntry, 0, len(due))}
	for _, st := range due {
		out.ReviewsDue = append(out.ReviewsDue, s.entry(st))
	}
	if next != nil {
		e := s.entry(*next)
		out.NextUp = &e
	}
	log.Debug("user %s has %d reviews due", userID, len(out.ReviewsDue))
	return out, nil
}

func (s *queryService) entry(st models.ReviewState) models.ReviewEntry {
	e := models.ReviewEntry{ReviewState: st, Title: st.ProblemSlug, Tags: []string{}}
	if p, ok := s.catalog.Lookup(st.ProblemSlug); ok {
		e.Title = p.Title
		e.Tags = p.Tags
		e.OfficialDifficulty = p.OfficialDifficulty
	}
	return e
}

func (s *queryService) AllProblems(ctx context.Context, userID string, opts AllProblemsOptions) ([]models.ProblemOverview, error) {
	log := logger.FromContext(ctx).WithPrefix("query")

	switch opts.Sort {
	case "":
		opts.Sort = SortByDue
	case SortByDue, SortByTitle:
	default:
		return nil, errors.NewBadRequestError("sort must be due or title")
	}

	states, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.attempts.Stats(ctx, userID)
	if err != nil {
		log.Error("failed to load attempt stats: %v", err)
		return nil, errors.NewStorageError("aggregate attempts", err)
	}

	q := strings.ToLower(strings.TrimSpace(opts.Query))
	tracked := make(map[string]bool, len(states))
	out := make([]models.ProblemOverview, 0, len(states))
	for _, st := range states {
		tracked[st.ProblemSlug] = true
		p, ok := s.catalog.Lookup(st.ProblemSlug)
		if !ok {
			p = models.Problem{Slug: st.ProblemSlug, Title: st.ProblemSlug, Tags: []string{}}
		}
		if q != "" && !catalog.Matches(p, q) {
			continue
		}
		next := st.NextReviewDate
		ps := stats[st.ProblemSlug]
		out = append(out, models.ProblemOverview{
			Slug:           p.Slug,
			Title:          p.Title,
			Tags:           p.Tags,
			Difficulty:     p.OfficialDifficulty,
			Tracked:        true,
			NextReviewDate: &next,
			LastResult:     st.LastResult,
			IntervalDays:   st.IntervalDays,
			EaseFactor:     st.EaseFactor,
			Repetitions:    st.Repetitions,
			Attempts:       ps.Attempts,
			SuccessRate:    ps.SuccessRate(),
		})
	}

	if opts.IncludeUntracked {
		for _, p := range s.catalog.Search(catalog.Filter{Query: q}) {
			if tracked[p.Slug] {
				continue
			}
			ps := stats[p.Slug]
			out = append(out, models.ProblemOverview{
				Slug:         p.Slug,
				Title:        p.Title,
				Tags:         p.Tags,
				Difficulty:   p.OfficialDifficulty,
				IntervalDays: s.params.BaselineIntervalDays,
				EaseFactor:   s.params.DefaultEase,
				Attempts:     ps.Attempts,
				SuccessRate:  ps.SuccessRate(),
			})
		}
	}

	sortOverviews(out, opts.Sort)
	log.Debug("listed %d problems for user %s", len(out), userID)
	return out, nil
}

func sortOverviews(out []models.ProblemOverview, by string) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if by == SortByTitle {
			ta, tb := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if ta != tb {
				return ta < tb
			}
			return a.Slug < b.Slug
		}
		switch {
		case a.NextReviewDate == nil && b.NextReviewDate == nil:
			return a.Slug < b.Slug
		case a.NextReviewDate == nil:
			return false
		case b.NextReviewDate == nil:
			return true
		case !a.NextReviewDate.Equal(*b.NextReviewDate):
			return a.NextReviewDate.Before(*b.NextReviewDate)
		}
		return a.Slug < b.Slug
	})
}

func (s *queryService) CurrentStreak(ctx context.Context, userID string, today time.Time, loc *time.Location) (*models.StreakCounter, error) {
	log := logger.FromContext(ctx).WithPrefix("query")

	if loc == nil {
		loc = time.UTC
	}
	y, m, d := today.In(loc).Date()
	endOfToday := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	times, err := s.attempts.LoggedAt(ctx, userID, endOfToday)
	if err != nil {
		log.Error("failed to load attempt timestamps: %v", err)
		return nil, errors.NewStorageError("list attempts", err)
	}
	res := streak.Current(times, today, loc)
	counter := &models.StreakCounter{CurrentStreak: res.Current}
	if res.LastActive != nil {
		d := res.LastActive.String()
		counter.LastActiveDate = &d
	}
	return counter, nil
}

func (s *queryService) DashboardStats(ctx context.Context, userID string, now time.Time, loc *time.Location) (*models.DashboardStats, error) {
	now = db.Timestamp(now)

	counter, err := s.CurrentStreak(ctx, userID, now, loc)
	if err != nil {
		return nil, err
	}
	due, err := s.store.ListDueBefore(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	states, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.attempts.Count(ctx, userID)
	if err != nil {
		return nil, errors.NewStorageError("count attempts", err)
	}
	return &models.DashboardStats{
		CurrentStreak:   counter.CurrentStreak,
		LastActiveDate:  counter.LastActiveDate,
		ReviewsDue:      len(due),
		TrackedProblems: len(states),
		TotalAttempts:   total,
	}, nil
}

func (s *queryService) ProblemAttempts(ctx context.Context, userID, slug string, limit int) ([]models.Attempt, error) {
	if _, ok := s.catalog.Lookup(slug); !ok {
		return nil, errors.NewNotFoundError("problem", slug)
	}
	attempts, err := s.attempts.ListByProblem(ctx, userID, slug, limit)
	if err != nil {
		return nil, errors.NewStorageError("list attempts", err)
	}
	if attempts == nil {
		attempts = []models.Attempt{}
	}
	return attempts, nil
}
