package testutil

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/repeetcode/internal/db"
	"github.com/vytor/repeetcode/internal/models"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// It is closed automatically when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: ":memory:?_foreign_keys=on"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// SeedProblems writes problems straight into the problems table.
func SeedProblems(t *testing.T, database *db.DB, problems ...models.Problem) {
	t.Helper()
	for _, p := range problems {
		if p.Tags == nil {
			p.Tags = []string{}
		}
		tags, err := json.Marshal(p.Tags)
		require.NoError(t, err)
		_, err = database.ExecContext(context.Background(),
			database.Rebind(`INSERT INTO problems (slug, title, official_difficulty, tags) VALUES (?, ?, ?, ?)`),
			p.Slug, p.Title, string(p.OfficialDifficulty), string(tags))
		require.NoError(t, err)
	}
}

// Problems returns a small fixed catalog.
func Problems() []models.Problem {
	return []models.Problem{
		{Slug: "two-sum", Title: "Two Sum", Tags: []string{"array", "hash-table"}, OfficialDifficulty: models.DifficultyEasy},
		{Slug: "lru-cache", Title: "LRU Cache", Tags: []string{"design", "hash-table", "linked-list"}, OfficialDifficulty: models.DifficultyMedium},
		{Slug: "median-of-two-sorted-arrays", Title: "Median of Two Sorted Arrays", Tags: []string{"array", "binary-search"}, OfficialDifficulty: models.DifficultyHard},
	}
}

// Date builds a UTC timestamp for test fixtures.
func Date(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
