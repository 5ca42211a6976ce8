package stats_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/service/stats"
)

func sessionRecords(ratings ...types.SessionRating) []*model.SessionFeedback {
	records := make([]*model.SessionFeedback, len(ratings))
	for i, r := range ratings {
		records[i] = &model.SessionFeedback{
			SessionID: types.SessionID(i + 1),
			Symptom:   "後座",
			Rating:    r,
		}
	}
	return records
}

func cardRecords(stars ...int) []*model.CardFeedback {
	records := make([]*model.CardFeedback, len(stars))
	for i, s := range stars {
		records[i] = &model.CardFeedback{
			SessionID:  types.SessionID(i + 1),
			PracticeID: 101,
			Rating:     s,
		}
	}
	return records
}

func TestSessionDistribution(t *testing.T) {
	records := sessionRecords(
		types.SessionRatingApplicable,
		types.SessionRatingApplicable,
		types.SessionRatingPartiallyApplicable,
		types.SessionRatingNotApplicable,
	)

	dist := stats.SessionDistribution(records)
	gt.Value(t, dist[types.SessionRatingApplicable]).Equal(2)
	gt.Value(t, dist[types.SessionRatingPartiallyApplicable]).Equal(1)
	gt.Value(t, dist[types.SessionRatingNotApplicable]).Equal(1)

	// All rating keys present and counts sum to the record count
	gt.Value(t, len(dist)).Equal(len(types.AllSessionRatings()))
	total := 0
	for _, n := range dist {
		total += n
	}
	gt.Value(t, total).Equal(len(records))
}

func TestSessionDistributionEmpty(t *testing.T) {
	dist := stats.SessionDistribution(nil)
	gt.Value(t, len(dist)).Equal(len(types.AllSessionRatings()))
	for _, n := range dist {
		gt.Value(t, n).Equal(0)
	}
}

func TestTimingSplit(t *testing.T) {
	records := []*model.SessionFeedback{
		{SessionID: 1, Rating: types.SessionRatingApplicable, Timing: types.FeedbackTimingImmediate},
		{SessionID: 2, Rating: types.SessionRatingApplicable, Timing: types.FeedbackTimingDelayed},
		{SessionID: 3, Rating: types.SessionRatingApplicable}, // empty timing counts as immediate
	}

	split := stats.TimingSplit(records)
	gt.Value(t, split[types.FeedbackTimingImmediate]).Equal(2)
	gt.Value(t, split[types.FeedbackTimingDelayed]).Equal(1)
}

func TestCompletionRate(t *testing.T) {
	gt.Value(t, stats.CompletionRate(3, 4)).Equal(0.75)
	gt.Value(t, stats.CompletionRate(1, 2)).Equal(0.5)
	gt.Value(t, stats.CompletionRate(1, 3)).Equal(0.33)
	gt.Value(t, stats.CompletionRate(0, 10)).Equal(0.0)
	// Zero sessions is a defined result, not a division error
	gt.Value(t, stats.CompletionRate(5, 0)).Equal(0.0)
}

func TestStarHistogram(t *testing.T) {
	hist := stats.StarHistogram(cardRecords(5, 4, 3, 4, 5))
	gt.Value(t, hist).Equal(map[int]int{1: 0, 2: 0, 3: 1, 4: 2, 5: 2})
}

func TestAverageRating(t *testing.T) {
	gt.Value(t, stats.AverageRating(cardRecords(5, 4, 3, 4, 5))).Equal(4.2)
	gt.Value(t, stats.AverageRating(cardRecords(1))).Equal(1.0)
	gt.Value(t, stats.AverageRating(nil)).Equal(0.0)
}

func TestFavoriteRate(t *testing.T) {
	records := cardRecords(5, 4, 3, 2)
	records[0].IsFavorite = true
	records[1].IsFavorite = true

	gt.Value(t, stats.FavoriteCount(records)).Equal(2)
	gt.Value(t, stats.FavoriteRate(records)).Equal(0.5)
	gt.Value(t, stats.FavoriteRate(nil)).Equal(0.0)
}

func TestPerCardStats(t *testing.T) {
	records := cardRecords(5, 3)
	records[0].Comment = "很有感"
	records[0].IsFavorite = true

	cs := stats.PerCardStats(101, records)
	gt.Value(t, cs.PracticeID).Equal(types.PracticeCardID(101))
	gt.Value(t, cs.TotalRatings).Equal(2)
	gt.Value(t, cs.AverageRating).Equal(4.0)
	gt.Value(t, cs.FavoriteCount).Equal(1)
	gt.Value(t, cs.FavoriteRate).Equal(0.5)
	gt.Value(t, cs.FavoriteRate).Equal(float64(cs.FavoriteCount) / float64(cs.TotalRatings))
	gt.Array(t, cs.Comments).Equal([]string{"很有感"})
}

func TestPerSymptomApplicabilityRate(t *testing.T) {
	records := sessionRecords(
		types.SessionRatingApplicable,
		types.SessionRatingPartiallyApplicable,
		types.SessionRatingNotApplicable,
	)

	// only fully applicable feedback counts toward the numerator
	gt.Value(t, stats.PerSymptomApplicabilityRate(records)).Equal(0.33)
	gt.Value(t, stats.PerSymptomApplicabilityRate(nil)).Equal(0.0)
}

func TestSummarize(t *testing.T) {
	sessions := sessionRecords(
		types.SessionRatingApplicable,
		types.SessionRatingNotApplicable,
	)
	cards := cardRecords(5, 4)

	summary := stats.Summarize(sessions, cards, 4)
	gt.Value(t, summary.TotalSessionFeedback).Equal(2)
	gt.Value(t, summary.TotalCardRatings).Equal(2)
	gt.Value(t, summary.AverageCardRating).Equal(4.5)
	gt.Value(t, summary.CompletionRate).Equal(0.5)
}
