package api

import (
	"net/http"
	"strings"

	"github.com/vytor/repeetcode/internal/catalog"
	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/models"
)

func (s *Server) handleProblemBank(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Query: q.Get("q"),
		Tag:   strings.TrimSpace(q.Get("tag")),
	}
	if raw := strings.TrimSpace(q.Get("difficulty")); raw != "" {
		d, ok := models.ParseOfficialDifficulty(raw)
		if !ok {
			handleError(w, r, errors.NewBadRequestError("difficulty must be Easy, Medium or Hard"))
			return
		}
		filter.Difficulty = d
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"problems": s.Catalogs.ProblemBank(r.Context(), filter)})
}

func errNotFound(r *http.Request) error {
	return errors.NewNotFoundError("route", r.Method+" "+r.URL.Path)
}
