package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

func TestSessionRating_IsValid(t *testing.T) {
	for _, rating := range types.AllSessionRatings() {
		gt.B(t, rating.IsValid()).True()
	}
	gt.B(t, types.SessionRating("great").IsValid()).False()
	gt.B(t, types.SessionRating("").IsValid()).False()
}

func TestParseSessionRating(t *testing.T) {
	rating, err := types.ParseSessionRating("partially_applicable")
	gt.NoError(t, err).Required()
	gt.Value(t, rating).Equal(types.SessionRatingPartiallyApplicable)

	_, err = types.ParseSessionRating("great")
	gt.Value(t, err).NotNil()
}

func TestFeedbackTiming_Normalize(t *testing.T) {
	gt.Value(t, types.FeedbackTiming("").Normalize()).Equal(types.FeedbackTimingImmediate)
	gt.Value(t, types.FeedbackTimingDelayed.Normalize()).Equal(types.FeedbackTimingDelayed)
}

func TestParseFeedbackTiming(t *testing.T) {
	timing, err := types.ParseFeedbackTiming("delayed")
	gt.NoError(t, err).Required()
	gt.Value(t, timing).Equal(types.FeedbackTimingDelayed)

	_, err = types.ParseFeedbackTiming("later")
	gt.Value(t, err).NotNil()
}
