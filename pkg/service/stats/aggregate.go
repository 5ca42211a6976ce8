package stats

import (
	"math"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// SessionDistribution counts session feedback per applicability rating.
// Every rating value is present in the result, zero when unseen, so the
// counts always sum to len(records).
func SessionDistribution(records []*model.SessionFeedback) map[types.SessionRating]int {
	ratings := types.AllSessionRatings()
	dist := make(map[types.SessionRating]int, len(ratings))
	for _, r := range ratings {
		dist[r] = 0
	}
	for _, f := range records {
		dist[f.Rating]++
	}
	return dist
}

// TimingSplit counts session feedback per submission timing
func TimingSplit(records []*model.SessionFeedback) map[types.FeedbackTiming]int {
	timings := types.AllFeedbackTimings()
	split := make(map[types.FeedbackTiming]int, len(timings))
	for _, t := range timings {
		split[t] = 0
	}
	for _, f := range records {
		split[f.Timing.Normalize()]++
	}
	return split
}

// CompletionRate is the fraction of sessions with feedback, rounded to
// two decimals. Zero total sessions yields 0, not an error.
func CompletionRate(withFeedback, totalSessions int) float64 {
	if totalSessions <= 0 {
		return 0
	}
	return round2(float64(withFeedback) / float64(totalSessions))
}

// StarHistogram counts card feedback per star value. Keys 1 through 5 are
// always present.
func StarHistogram(records []*model.CardFeedback) map[int]int {
	hist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, f := range records {
		if f.Rating >= 1 && f.Rating <= 5 {
			hist[f.Rating]++
		}
	}
	return hist
}

// AverageRating is the mean star rating rounded to one decimal, 0 for an
// empty set
func AverageRating(records []*model.CardFeedback) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum int
	for _, f := range records {
		sum += f.Rating
	}
	return round1(float64(sum) / float64(len(records)))
}

// FavoriteCount counts card feedback marked favorite
func FavoriteCount(records []*model.CardFeedback) int {
	var favorites int
	for _, f := range records {
		if f.IsFavorite {
			favorites++
		}
	}
	return favorites
}

// FavoriteRate is the fraction of card feedback marked favorite, rounded
// to two decimals
func FavoriteRate(records []*model.CardFeedback) float64 {
	if len(records) == 0 {
		return 0
	}
	return round2(float64(FavoriteCount(records)) / float64(len(records)))
}

// CardStats is the aggregate view of one practice card's feedback
type CardStats struct {
	PracticeID    types.PracticeCardID `json:"practice_id"`
	TotalRatings  int                  `json:"total_ratings"`
	AverageRating float64              `json:"average_rating"`
	Histogram     map[int]int          `json:"rating_distribution"`
	FavoriteCount int                  `json:"favorite_count"`
	FavoriteRate  float64              `json:"favorite_rate"`
	Comments      []string             `json:"comments"`
}

// PerCardStats aggregates the card feedback records of a single practice
// card. The caller passes records already scoped to practiceID.
func PerCardStats(practiceID types.PracticeCardID, records []*model.CardFeedback) CardStats {
	stats := CardStats{
		PracticeID:    practiceID,
		TotalRatings:  len(records),
		AverageRating: AverageRating(records),
		Histogram:     StarHistogram(records),
		FavoriteCount: FavoriteCount(records),
		FavoriteRate:  FavoriteRate(records),
	}
	for _, f := range records {
		if f.Comment != "" {
			stats.Comments = append(stats.Comments, f.Comment)
		}
	}
	return stats
}

// PerSymptomApplicabilityRate is the fraction of session feedback for one
// symptom rated applicable, rounded to two decimals. Partial
// applicability does not count toward the numerator.
func PerSymptomApplicabilityRate(records []*model.SessionFeedback) float64 {
	if len(records) == 0 {
		return 0
	}
	var applicable int
	for _, f := range records {
		if f.Rating == types.SessionRatingApplicable {
			applicable++
		}
	}
	return round2(float64(applicable) / float64(len(records)))
}

// Summary is the product-wide analytics view
type Summary struct {
	TotalSessionFeedback int                         `json:"total_session_feedback"`
	RatingDistribution   map[types.SessionRating]int `json:"rating_distribution"`
	TimingSplit          map[types.FeedbackTiming]int `json:"timing_split"`
	CompletionRate       float64                     `json:"completion_rate"`
	TotalCardRatings     int                         `json:"total_card_ratings"`
	AverageCardRating    float64                     `json:"average_card_rating"`
	CardHistogram        map[int]int                 `json:"card_rating_distribution"`
	FavoriteRate         float64                     `json:"favorite_rate"`
}

// Summarize builds the product-wide analytics summary. totalSessions comes
// from the caller; sessions themselves live outside this system.
func Summarize(sessions []*model.SessionFeedback, cards []*model.CardFeedback, totalSessions int) Summary {
	withFeedback := make(map[types.SessionID]struct{})
	for _, f := range sessions {
		withFeedback[f.SessionID] = struct{}{}
	}

	return Summary{
		TotalSessionFeedback: len(sessions),
		RatingDistribution:   SessionDistribution(sessions),
		TimingSplit:          TimingSplit(sessions),
		CompletionRate:       CompletionRate(len(withFeedback), totalSessions),
		TotalCardRatings:     len(cards),
		AverageCardRating:    AverageRating(cards),
		CardHistogram:        StarHistogram(cards),
		FavoriteRate:         FavoriteRate(cards),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
