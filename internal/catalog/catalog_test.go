package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/repeetcode/internal/catalog"
	"github.com/vytor/repeetcode/internal/models"
)

func sample() []models.Problem {
	return []models.Problem{
		{Slug: "two-sum", Title: "Two Sum", Tags: []string{"Array", "Hash Table"}, OfficialDifficulty: models.DifficultyEasy},
		{Slug: "add-two-numbers", Title: "Add Two Numbers", Tags: []string{"Linked List", "Math"}, OfficialDifficulty: models.DifficultyMedium},
		{Slug: "median-of-two-sorted-arrays", Title: "Median of Two Sorted Arrays", Tags: []string{"Array", "Binary Search"}, OfficialDifficulty: models.DifficultyHard},
	}
}

type stubSource struct {
	problems []models.Problem
	err      error
}

func (s stubSource) List(context.Context) ([]models.Problem, error) {
	return s.problems, s.err
}

func TestLookup(t *testing.T) {
	c := catalog.New(sample())

	p, ok := c.Lookup("two-sum")
	require.True(t, ok)
	assert.Equal(t, "Two Sum", p.Title)

	_, ok = c.Lookup("missing")
	assert.False(t, ok)
}

func TestLookup_ReturnsCopy(t *testing.T) {
	c := catalog.New(sample())

	p, _ := c.Lookup("two-sum")
	p.Tags[0] = "mutated"

	again, _ := c.Lookup("two-sum")
	assert.Equal(t, "Array", again.Tags[0])
}

func TestSearch(t *testing.T) {
	c := catalog.New(sample())

	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, "add-two-numbers", all[0].Slug, "ordered by title")

	byTag := c.Search(catalog.Filter{Tag: "array"})
	assert.Len(t, byTag, 2)

	byQuery := c.Search(catalog.Filter{Query: "SORTED"})
	require.Len(t, byQuery, 1)
	assert.Equal(t, "median-of-two-sorted-arrays", byQuery[0].Slug)

	byTagText := c.Search(catalog.Filter{Query: "linked"})
	require.Len(t, byTagText, 1)
	assert.Equal(t, "add-two-numbers", byTagText[0].Slug)

	byDifficulty := c.Search(catalog.Filter{Difficulty: models.DifficultyEasy, Tag: "Array"})
	require.Len(t, byDifficulty, 1)
	assert.Equal(t, "two-sum", byDifficulty[0].Slug)
}

func TestReload(t *testing.T) {
	c := catalog.New(sample())

	err := c.Reload(context.Background(), stubSource{problems: []models.Problem{
		{Slug: "lru-cache", Title: "LRU Cache", OfficialDifficulty: models.DifficultyMedium},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	_, ok := c.Lookup("two-sum")
	assert.False(t, ok)

	err = c.Reload(context.Background(), stubSource{err: errors.New("db down")})
	require.Error(t, err)
	assert.Equal(t, 1, c.Len(), "failed reload keeps old snapshot")
}

func TestConcurrentReadsDuringReplace(t *testing.T) {
	c := catalog.New(sample())
	other := []models.Problem{
		{Slug: "a", Title: "A"}, {Slug: "b", Title: "B"}, {Slug: "c", Title: "C"}, {Slug: "d", Title: "D"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				n := len(c.All())
				// Either snapshot, never a mix.
				assert.Contains(t, []int{3, 4}, n)
			}
		}()
	}
	for j := 0; j < 200; j++ {
		if j%2 == 0 {
			c.Replace(other)
		} else {
			c.Replace(sample())
		}
	}
	wg.Wait()
}

func TestEmptyCatalog(t *testing.T) {
	var c catalog.Catalog
	_, ok := c.Lookup("two-sum")
	assert.False(t, ok)
	assert.Empty(t, c.All())
}
