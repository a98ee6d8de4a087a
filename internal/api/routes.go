package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(noSniffMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Group(func(r chi.Router) {
		r.Use(timeoutMiddleware(s.RequestTimeout))
		r.Use(s.identityMiddleware)

		r.Post("/log", s.handleLogAttempt)
		r.Get("/reviews", s.handleReviews)
		r.Get("/all_problems", s.handleAllProblems)
		r.Get("/dashboard_stats", s.handleDashboardStats)
		r.Get("/problem_bank", s.handleProblemBank)
		r.Get("/problems/{slug}/attempts", s.handleProblemAttempts)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errNotFound(r))
	})
	return r
}
