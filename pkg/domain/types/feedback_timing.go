package types

import "fmt"

// FeedbackTiming distinguishes feedback given right after a session from
// feedback given later.
type FeedbackTiming string

const (
	FeedbackTimingImmediate FeedbackTiming = "immediate"
	FeedbackTimingDelayed   FeedbackTiming = "delayed"
)

// AllFeedbackTimings returns all valid feedback timings
func AllFeedbackTimings() []FeedbackTiming {
	return []FeedbackTiming{
		FeedbackTimingImmediate,
		FeedbackTimingDelayed,
	}
}

// IsValid checks if the feedback timing is valid
func (t FeedbackTiming) IsValid() bool {
	switch t {
	case FeedbackTimingImmediate,
		FeedbackTimingDelayed:
		return true
	default:
		return false
	}
}

// Normalize returns the timing, treating empty as FeedbackTimingImmediate.
func (t FeedbackTiming) Normalize() FeedbackTiming {
	if t == "" {
		return FeedbackTimingImmediate
	}
	return t
}

// String returns the string representation of the feedback timing
func (t FeedbackTiming) String() string {
	return string(t)
}

// ParseFeedbackTiming parses a string into a FeedbackTiming
func ParseFeedbackTiming(s string) (FeedbackTiming, error) {
	timing := FeedbackTiming(s)
	if !timing.IsValid() {
		return "", fmt.Errorf("invalid feedback timing: %s", s)
	}
	return timing, nil
}
