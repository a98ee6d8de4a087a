package models

import "time"

type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

func (r Result) Valid() bool {
	return r == ResultPass || r == ResultFail
}

const (
	MinPersonalDifficulty = 1
	MaxPersonalDifficulty = 5
)

// Attempt is one immutable entry of the attempt log.
type Attempt struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	ProblemSlug        string    `json:"problem_slug"`
	PersonalDifficulty int       `json:"personal_difficulty"`
	Result             Result    `json:"result"`
	LoggedAt           time.Time `json:"logged_at"`
	// Applied is set once the attempt's transition has been committed.
	Applied bool `json:"-"`
	// Rejected marks an unapplied attempt that can no longer be applied,
	// e.g. because its problem left the catalog.
	Rejected bool `json:"-"`
}

// Key returns the review state key the attempt belongs to.
func (a Attempt) Key() StateKey {
	return StateKey{UserID: a.UserID, ProblemSlug: a.ProblemSlug}
}

// ProblemStats aggregates a user's attempts on one problem.
type ProblemStats struct {
	ProblemSlug string `json:"problem_slug"`
	Attempts    int    `json:"attempts"`
	Passes      int    `json:"passes"`
}

// SuccessRate is the pass percentage rounded to the nearest integer.
func (s ProblemStats) SuccessRate() int {
	if s.Attempts == 0 {
		return 0
	}
	return (s.Passes*100 + s.Attempts/2) / s.Attempts
}
