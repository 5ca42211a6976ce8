package http

import (
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/service/recommend"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
)

// recommendationEntry is the wire shape of one recommended practice card
type recommendationEntry struct {
	ID                types.PracticeCardID `json:"id"`
	Name              string               `json:"name"`
	Goal              string               `json:"goal"`
	SimilarToPrevious bool                 `json:"similar_to_previous"`
	BasedOnPreference bool                 `json:"based_on_preference"`
}

func toRecommendationEntries(candidates []recommend.Candidate) []recommendationEntry {
	entries := make([]recommendationEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, recommendationEntry{
			ID:                c.Card.ID,
			Name:              c.Card.Name,
			Goal:              c.Card.Goal,
			SimilarToPrevious: c.SimilarToPrevious,
			BasedOnPreference: c.BasedOnPreference,
		})
	}
	return entries
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	practiceID, err := parsePracticeID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var sessionID types.SessionID
	if raw := r.URL.Query().Get("session_id"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			handleError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "session_id must be a positive integer",
				goerr.V("session_id", raw)))
			return
		}
		sessionID = types.SessionID(n)
	}

	result, err := s.uc.Recommend.Recommendations(r.Context(), practiceID, sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"recommendations": map[string]any{
			"message":         result.Message,
			"recommendations": toRecommendationEntries(result.Candidates),
		},
	})
}

func (s *Server) handleFollowupNeeds(w http.ResponseWriter, r *http.Request) {
	var input struct {
		InputText string `json:"input_text"`
		Level     string `json:"level"`
		Terrain   string `json:"terrain"`
		Style     string `json:"style"`
	}
	if err := decodeJSON(r, &input); err != nil {
		handleError(w, r, err)
		return
	}

	candidates, err := s.uc.Recommend.FollowupCards(r.Context(), input.Level, input.Terrain)
	if err != nil {
		handleError(w, r, err)
		return
	}

	cards := make([]recommendationEntry, 0, len(candidates))
	for _, c := range candidates {
		cards = append(cards, recommendationEntry{
			ID:   c.Card.ID,
			Name: c.Card.Name,
			Goal: c.Card.Goal,
		})
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"recommended_cards": cards,
	})
}
