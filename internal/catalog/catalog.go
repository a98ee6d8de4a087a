// Package catalog serves the problem catalog from an immutable in-memory
// snapshot. Reloads swap the whole snapshot, so readers never block and never
// observe a partially updated catalog.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
)

// Source loads the full catalog.
type Source interface {
	List(ctx context.Context) ([]models.Problem, error)
}

type snapshot struct {
	bySlug  map[string]models.Problem
	ordered []models.Problem
}

// Catalog is safe for concurrent use.
type Catalog struct {
	snap atomic.Pointer[snapshot]
}

// New returns a catalog holding problems.
func New(problems []models.Problem) *Catalog {
	c := &Catalog{}
	c.Replace(problems)
	return c
}

// Replace installs a new snapshot built from problems. Later duplicates of a
// slug win.
func (c *Catalog) Replace(problems []models.Problem) {
	bySlug := make(map[string]models.Problem, len(problems))
	for _, p := range problems {
		bySlug[p.Slug] = cloneProblem(p)
	}
	ordered := make([]models.Problem, 0, len(bySlug))
	for _, p := range bySlug {
		ordered = append(ordered, p)
	}
	sortByTitle(ordered)
	c.snap.Store(&snapshot{bySlug: bySlug, ordered: ordered})
}

// Reload replaces the snapshot with the contents of src. On error the
// current snapshot stays in place.
func (c *Catalog) Reload(ctx context.Context, src Source) error {
	log := logger.FromContext(ctx).WithPrefix("catalog")
	problems, err := src.List(ctx)
	if err != nil {
		log.Error("failed to load catalog: %v", err)
		return err
	}
	c.Replace(problems)
	log.Info("catalog loaded: %d problems", len(problems))
	return nil
}

func (c *Catalog) current() *snapshot {
	if s := c.snap.Load(); s != nil {
		return s
	}
	return &snapshot{bySlug: map[string]models.Problem{}}
}

// Lookup returns the problem with slug.
func (c *Catalog) Lookup(slug string) (models.Problem, bool) {
	p, ok := c.current().bySlug[slug]
	if !ok {
		return models.Problem{}, false
	}
	return cloneProblem(p), true
}

// Len returns the number of problems in the current snapshot.
func (c *Catalog) Len() int {
	return len(c.current().ordered)
}

// All returns every problem ordered by title, then slug.
func (c *Catalog) All() []models.Problem {
	return c.Search(Filter{})
}

// Filter narrows a catalog search. Empty fields match everything.
type Filter struct {
	// Query matches a case-insensitive substring of the title, slug or any tag.
	Query      string
	Tag        string
	Difficulty models.OfficialDifficulty
}

// Search returns matching problems ordered by title, then slug.
func (c *Catalog) Search(f Filter) []models.Problem {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]models.Problem, 0)
	for _, p := range c.current().ordered {
		if f.Difficulty != "" && p.OfficialDifficulty != f.Difficulty {
			continue
		}
		if f.Tag != "" && !p.HasTag(f.Tag) {
			continue
		}
		if q != "" && !Matches(p, q) {
			continue
		}
		out = append(out, cloneProblem(p))
	}
	return out
}

// Matches reports whether a lower-cased query occurs in the problem's title,
// slug or tags.
func Matches(p models.Problem, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.Title), lowerQuery) || strings.Contains(p.Slug, lowerQuery) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), lowerQuery) {
			return true
		}
	}
	return false
}

func sortByTitle(ps []models.Problem) {
	sort.SliceStable(ps, func(i, j int) bool {
		ti, tj := strings.ToLower(ps[i].Title), strings.ToLower(ps[j].Title)
		if ti != tj {
			return ti < tj
		}
		return ps[i].Slug < ps[j].Slug
	})
}

func cloneProblem(p models.Problem) models.Problem {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	} else {
		p.Tags = []string{}
	}
	return p
}
