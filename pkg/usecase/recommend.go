package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/service/recommend"
	"github.com/James3014/TurnFix-qwen/pkg/service/stats"
)

// RecommendUseCase serves personalized practice card recommendations
type RecommendUseCase struct {
	repo    interfaces.Repository
	matcher *recommend.Matcher
}

// NewRecommendUseCase creates the recommendation use case
func NewRecommendUseCase(repo interfaces.Repository, matcher *recommend.Matcher) *RecommendUseCase {
	return &RecommendUseCase{
		repo:    repo,
		matcher: matcher,
	}
}

// cardStatsIndex aggregates all card feedback into per-card stats for the
// ranking comparators
func (uc *RecommendUseCase) cardStatsIndex(ctx context.Context) (map[types.PracticeCardID]stats.CardStats, error) {
	all, err := uc.repo.CardFeedback().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load card feedback")
	}

	grouped := make(map[types.PracticeCardID][]*model.CardFeedback)
	for _, f := range all {
		grouped[f.PracticeID] = append(grouped[f.PracticeID], f)
	}

	index := make(map[types.PracticeCardID]stats.CardStats, len(grouped))
	for id, records := range grouped {
		index[id] = stats.PerCardStats(id, records)
	}
	return index, nil
}

// Recommendations ranks the catalog against the target card, personalized
// by the session's feedback history. An empty result with a message is a
// normal outcome.
func (uc *RecommendUseCase) Recommendations(ctx context.Context, targetID types.PracticeCardID, sessionID types.SessionID) (*recommend.Result, error) {
	var history []*model.CardFeedback
	if sessionID > 0 {
		var err error
		history, err = uc.repo.CardFeedback().ListBySession(ctx, sessionID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load feedback history",
				goerr.V("session_id", sessionID))
		}
	}

	index, err := uc.cardStatsIndex(ctx)
	if err != nil {
		return nil, err
	}

	return uc.matcher.Recommend(targetID, history, index)
}

// FollowupCards ranks catalog cards matching the user's level and terrain
// by their global average rating
func (uc *RecommendUseCase) FollowupCards(ctx context.Context, level, terrain string) ([]recommend.Candidate, error) {
	index, err := uc.cardStatsIndex(ctx)
	if err != nil {
		return nil, err
	}
	return uc.matcher.Followup(level, terrain, index), nil
}
