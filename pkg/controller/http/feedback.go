package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
)

func (s *Server) handleSubmitSessionFeedback(w http.ResponseWriter, r *http.Request) {
	var input usecase.SessionFeedbackInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	created, err := s.uc.Feedback.SubmitSessionFeedback(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"id":         created.ID,
		"session_id": created.SessionID,
		"rating":     created.Rating,
		"timing":     created.Timing,
		"created_at": created.CreatedAt,
	})
}

func (s *Server) handleSubmitCardFeedback(w http.ResponseWriter, r *http.Request) {
	var input usecase.CardFeedbackInput
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.uc.Feedback.SubmitCardFeedback(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusCreated, map[string]any{
		"session_id":  saved.SessionID,
		"practice_id": saved.PracticeID,
		"rating":      saved.Rating,
		"is_favorite": saved.IsFavorite,
		"updated_at":  saved.UpdatedAt,
	})
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	var input struct {
		SessionID  int64 `json:"session_id"`
		PracticeID int64 `json:"practice_id"`
		IsFavorite bool  `json:"is_favorite"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	saved, err := s.uc.Feedback.SetFavorite(r.Context(),
		types.SessionID(input.SessionID), types.PracticeCardID(input.PracticeID), input.IsFavorite)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"session_id":  saved.SessionID,
		"practice_id": saved.PracticeID,
		"is_favorite": saved.IsFavorite,
	})
}

func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	totalSessions := 0
	if raw := r.URL.Query().Get("total_sessions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "total_sessions must be a non-negative integer",
				goerr.V("total_sessions", raw)))
			return
		}
		totalSessions = n
	}

	summary, err := s.uc.Feedback.AnalyticsSummary(r.Context(), totalSessions)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleCardAnalytics(w http.ResponseWriter, r *http.Request) {
	practiceID, err := parsePracticeID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cardStats, err := s.uc.Feedback.CardAnalytics(r.Context(), practiceID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, cardStats)
}

func (s *Server) handleSymptomApplicability(w http.ResponseWriter, r *http.Request) {
	symptom := chi.URLParam(r, "symptom")

	rate, total, err := s.uc.Feedback.SymptomApplicability(r.Context(), symptom)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"symptom":            symptom,
		"applicability_rate": rate,
		"total_feedback":     total,
	})
}

func parsePracticeID(r *http.Request) (types.PracticeCardID, error) {
	raw := chi.URLParam(r, "practiceID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "practice ID must be a positive integer",
			goerr.V("practice_id", raw))
	}
	return types.PracticeCardID(id), nil
}
