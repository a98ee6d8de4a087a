package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vytor/repeetcode/internal/errors"
	"github.com/vytor/repeetcode/internal/logger"
	"github.com/vytor/repeetcode/internal/models"
	"github.com/vytor/repeetcode/internal/services"
)

type logAttemptRequest struct {
	AttemptID          string `json:"attempt_id"`
	Slug               string `json:"slug"`
	PersonalDifficulty *int   `json:"personal_difficulty"`
	// Difficulty is accepted as an alias of personal_difficulty.
	Difficulty *int   `json:"difficulty"`
	Result     string `json:"result"`
}

type logAttemptResponse struct {
	Message     string             `json:"message"`
	AttemptID   string             `json:"attempt_id"`
	NextReview  string             `json:"next_review"`
	Replayed    bool               `json:"replayed"`
	ReviewState models.ReviewState `json:"review_state"`
}

func (req logAttemptRequest) toService() (services.LogAttemptRequest, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return services.LogAttemptRequest{}, errors.NewInvalidAttemptError("slug", "is required")
	}
	difficulty := req.PersonalDifficulty
	if difficulty == nil {
		difficulty = req.Difficulty
	}
	if difficulty == nil {
		return services.LogAttemptRequest{}, errors.NewInvalidAttemptError("personal_difficulty", "is required")
	}
	return services.LogAttemptRequest{
		AttemptID:          strings.TrimSpace(req.AttemptID),
		ProblemSlug:        slug,
		PersonalDifficulty: *difficulty,
		Result:             models.Result(strings.ToLower(strings.TrimSpace(req.Result))),
	}, nil
}

func (s *Server) handleLogAttempt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var body logAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Debug("malformed log payload: %v", err)
		handleError(w, r, errors.NewInvalidAttemptError("body", "is not valid JSON"))
		return
	}
	req, err := body.toService()
	if err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.Attempts.LogAttempt(r.Context(), userIDFromContext(r.Context()), req, s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}

	title := res.Attempt.ProblemSlug
	if p, ok := s.Catalogs.Lookup(title); ok {
		title = p.Title
	}
	message := fmt.Sprintf("%s logged!", title)
	if res.Replayed {
		message = fmt.Sprintf("%s was already logged", title)
	}
	writeJSON(w, r, http.StatusOK, logAttemptResponse{
		Message:     message,
		AttemptID:   res.Attempt.ID,
		NextReview:  res.State.NextReviewDate.In(s.location()).Format("2006-01-02"),
		Replayed:    res.Replayed,
		ReviewState: res.State,
	})
}
