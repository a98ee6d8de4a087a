package models

import "time"

// StateKey identifies a review state.
type StateKey struct {
	UserID      string
	ProblemSlug string
}

func (k StateKey) String() string {
	return k.UserID + "/" + k.ProblemSlug
}

// ReviewState is the scheduling record of one (user, problem) pair.
type ReviewState struct {
	UserID         string    `json:"user_id"`
	ProblemSlug    string    `json:"problem_slug"`
	IntervalDays   int       `json:"interval_days"`
	EaseFactor     float64   `json:"ease_factor"`
	Repetitions    int       `json:"repetitions"`
	LastResult     Result    `json:"last_result"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	NextReviewDate time.Time `json:"next_review_date"`
	// Version is the optimistic concurrency counter; 0 means never stored.
	Version int64 `json:"-"`
}

func (s ReviewState) Key() StateKey {
	return StateKey{UserID: s.UserID, ProblemSlug: s.ProblemSlug}
}

// DueAt reports whether the state is due at t.
func (s ReviewState) DueAt(t time.Time) bool {
	return !s.NextReviewDate.After(t)
}

// ReviewEntry is a review state joined with its catalog problem.
type ReviewEntry struct {
	ReviewState
	Title              string             `json:"title"`
	Tags               []string           `json:"tags"`
	OfficialDifficulty OfficialDifficulty `json:"official_difficulty"`
}

// ReviewsDue answers the "what is due" query.
type ReviewsDue struct {
	ReviewsDue []ReviewEntry `json:"reviews_due"`
	NextUp     *ReviewEntry  `json:"next_up"`
}

// ProblemOverview is one row of the all-problems listing.
type ProblemOverview struct {
	Slug           string             `json:"slug"`
	Title          string             `json:"title"`
	Tags           []string           `json:"tags"`
	Difficulty     OfficialDifficulty `json:"difficulty"`
	Tracked        bool               `json:"tracked"`
	NextReviewDate *time.Time         `json:"next_review_date"`
	LastResult     Result             `json:"last_result,omitempty"`
	IntervalDays   int                `json:"interval_days"`
	EaseFactor     float64            `json:"ease_factor"`
	Repetitions    int                `json:"repetitions"`
	Attempts       int                `json:"attempts"`
	SuccessRate    int                `json:"success_rate"`
}

// StreakCounter is derived from the attempt log.
type StreakCounter struct {
	CurrentStreak int `json:"current_streak"`
	// LastActiveDate is a YYYY-MM-DD calendar date in the user's time zone.
	LastActiveDate *string `json:"last_active_date"`
}

// DashboardStats backs the dashboard summary.
type DashboardStats struct {
	CurrentStreak   int     `json:"current_streak"`
	LastActiveDate  *string `json:"last_active_date"`
	ReviewsDue      int     `json:"reviews_due"`
	TrackedProblems int     `json:"tracked_problems"`
	TotalAttempts   int     `json:"total_attempts"`
}
