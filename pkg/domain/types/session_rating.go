package types

import "fmt"

// SessionRating represents the applicability rating a user gives to the
// whole recommendation batch of a session.
type SessionRating string

const (
	SessionRatingNotApplicable       SessionRating = "not_applicable"
	SessionRatingPartiallyApplicable SessionRating = "partially_applicable"
	SessionRatingApplicable          SessionRating = "applicable"
)

// AllSessionRatings returns all valid session ratings
func AllSessionRatings() []SessionRating {
	return []SessionRating{
		SessionRatingNotApplicable,
		SessionRatingPartiallyApplicable,
		SessionRatingApplicable,
	}
}

// IsValid checks if the session rating is valid
func (r SessionRating) IsValid() bool {
	switch r {
	case SessionRatingNotApplicable,
		SessionRatingPartiallyApplicable,
		SessionRatingApplicable:
		return true
	default:
		return false
	}
}

// String returns the string representation of the session rating
func (r SessionRating) String() string {
	return string(r)
}

// ParseSessionRating parses a string into a SessionRating
func ParseSessionRating(s string) (SessionRating, error) {
	rating := SessionRating(s)
	if !rating.IsValid() {
		return "", fmt.Errorf("invalid session rating: %s", s)
	}
	return rating, nil
}
