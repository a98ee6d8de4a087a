package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/services"
)

const defaultAttemptLimit = 50

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	res, err := s.Queries.ReviewsDue(r.Context(), userIDFromContext(r.Context()), s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleAllProblems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := services.AllProblemsOptions{
		Sort:             strings.ToLower(strings.TrimSpace(q.Get("sort"))),
		Query:            q.Get("q"),
		IncludeUntracked: queryBool(r, "include_untracked"),
	}
	problems, err := s.Queries.AllProblems(r.Context(), userIDFromContext(r.Context()), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"all_problems": problems})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	loc := s.location()
	if tz := strings.TrimSpace(r.URL.Query().Get("tz")); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("unknown time zone: "+tz))
			return
		}
		loc = l
	}
	stats, err := s.Queries.DashboardStats(r.Context(), userIDFromContext(r.Context()), s.now(), loc)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleProblemAttempts(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	attempts, err := s.Queries.ProblemAttempts(r.Context(), userIDFromContext(r.Context()), slug, queryInt(r, "limit", defaultAttemptLimit))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"attempts": attempts})
}
