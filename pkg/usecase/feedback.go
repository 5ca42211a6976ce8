package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/service/recommend"
	"github.com/James3014/TurnFix-qwen/pkg/service/stats"
	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
)

// FeedbackUseCase records user feedback and serves aggregated analytics
type FeedbackUseCase struct {
	repo    interfaces.Repository
	matcher *recommend.Matcher
}

// NewFeedbackUseCase creates the feedback use case
func NewFeedbackUseCase(repo interfaces.Repository, matcher *recommend.Matcher) *FeedbackUseCase {
	return &FeedbackUseCase{
		repo:    repo,
		matcher: matcher,
	}
}

// SessionFeedbackInput is the payload for a session-level applicability
// rating
type SessionFeedbackInput struct {
	SessionID int64  `json:"session_id"`
	Symptom   string `json:"symptom"`
	Rating    string `json:"rating"`
	Comment   string `json:"feedback_text"`
	Timing    string `json:"feedback_type"`
}

// SubmitSessionFeedback validates and records one session-level rating.
// Invalid input is rejected before anything is stored.
func (uc *FeedbackUseCase) SubmitSessionFeedback(ctx context.Context, input SessionFeedbackInput) (*model.SessionFeedback, error) {
	rating, err := types.ParseSessionRating(input.Rating)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "unknown session rating",
			goerr.V("rating", input.Rating))
	}

	timing := types.FeedbackTiming(input.Timing).Normalize()
	if !timing.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "unknown feedback timing",
			goerr.V("timing", input.Timing))
	}

	feedback := &model.SessionFeedback{
		SessionID: types.SessionID(input.SessionID),
		Symptom:   input.Symptom,
		Rating:    rating,
		Comment:   input.Comment,
		Timing:    timing,
	}
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid session feedback",
			goerr.V("cause", err.Error()))
	}

	created, err := uc.repo.SessionFeedback().Create(ctx, feedback)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("session feedback recorded",
		"session_id", created.SessionID, "rating", created.Rating)
	return created, nil
}

// CardFeedbackInput is the payload for a per-card star rating
type CardFeedbackInput struct {
	SessionID  int64  `json:"session_id"`
	PracticeID int64  `json:"practice_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"feedback_text"`
	IsFavorite bool   `json:"is_favorite"`
}

// SubmitCardFeedback validates and records one per-card rating. A repeat
// submission for the same session and card supersedes the earlier one.
func (uc *FeedbackUseCase) SubmitCardFeedback(ctx context.Context, input CardFeedbackInput) (*model.CardFeedback, error) {
	practiceID := types.PracticeCardID(input.PracticeID)
	if _, ok := uc.matcher.Card(practiceID); !ok && len(uc.matcher.Catalog()) > 0 {
		return nil, goerr.Wrap(model.ErrCardNotFound, "practice card not in catalog",
			goerr.V("practice_id", practiceID))
	}

	feedback := &model.CardFeedback{
		SessionID:  types.SessionID(input.SessionID),
		PracticeID: practiceID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		IsFavorite: input.IsFavorite,
	}
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid card feedback",
			goerr.V("cause", err.Error()))
	}

	saved, err := uc.repo.CardFeedback().Upsert(ctx, feedback)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Info("card feedback recorded",
		"session_id", saved.SessionID, "practice_id", saved.PracticeID,
		"rating", saved.Rating)
	return saved, nil
}

// SetFavorite toggles the favorite flag of an existing card feedback
// record. Missing records start from a zero rating record only if a
// rating was already given; otherwise the flag has nothing to attach to.
func (uc *FeedbackUseCase) SetFavorite(ctx context.Context, sessionID types.SessionID, practiceID types.PracticeCardID, favorite bool) (*model.CardFeedback, error) {
	existing, err := uc.repo.CardFeedback().Get(ctx, sessionID, practiceID)
	if err != nil {
		if errors.Is(err, model.ErrCardFeedbackNotFound) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to load card feedback",
			goerr.V("session_id", sessionID), goerr.V("practice_id", practiceID))
	}

	existing.IsFavorite = favorite
	return uc.repo.CardFeedback().Upsert(ctx, existing)
}

// AnalyticsSummary builds the product-wide feedback analytics. The total
// session count comes from the caller because sessions live in the
// upstream product, not here.
func (uc *FeedbackUseCase) AnalyticsSummary(ctx context.Context, totalSessions int) (*stats.Summary, error) {
	sessions, err := uc.repo.SessionFeedback().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load session feedback")
	}
	cards, err := uc.repo.CardFeedback().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load card feedback")
	}

	summary := stats.Summarize(sessions, cards, totalSessions)
	return &summary, nil
}

// CardAnalytics aggregates the feedback of one practice card
func (uc *FeedbackUseCase) CardAnalytics(ctx context.Context, practiceID types.PracticeCardID) (*stats.CardStats, error) {
	if _, ok := uc.matcher.Card(practiceID); !ok && len(uc.matcher.Catalog()) > 0 {
		return nil, goerr.Wrap(model.ErrCardNotFound, "practice card not in catalog",
			goerr.V("practice_id", practiceID))
	}

	records, err := uc.repo.CardFeedback().ListByPractice(ctx, practiceID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load card feedback",
			goerr.V("practice_id", practiceID))
	}

	cardStats := stats.PerCardStats(practiceID, records)
	return &cardStats, nil
}

// SymptomApplicability is the applicability rate of session feedback for
// one symptom
func (uc *FeedbackUseCase) SymptomApplicability(ctx context.Context, symptom string) (float64, int, error) {
	if symptom == "" {
		return 0, 0, goerr.Wrap(ErrInvalidInput, "symptom is required")
	}

	records, err := uc.repo.SessionFeedback().ListBySymptom(ctx, symptom)
	if err != nil {
		return 0, 0, goerr.Wrap(err, "failed to load session feedback",
			goerr.V("symptom", symptom))
	}

	return stats.PerSymptomApplicabilityRate(records), len(records), nil
}
