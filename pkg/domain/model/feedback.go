package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// SessionFeedbackID is a UUID-based identifier for SessionFeedback
type SessionFeedbackID string

// NewSessionFeedbackID generates a new UUID v4 SessionFeedbackID
func NewSessionFeedbackID() SessionFeedbackID {
	return SessionFeedbackID(uuid.New().String())
}

// SessionFeedback is one applicability rating for the whole recommendation
// batch of a session. Records are append-only facts: created once, never
// updated.
type SessionFeedback struct {
	ID        SessionFeedbackID
	SessionID types.SessionID
	Symptom   string // diagnosed symptom, denormalized from the session
	Rating    types.SessionRating
	Comment   string `masq:"secret"` // free text, redacted in logs
	Timing    types.FeedbackTiming
	CreatedAt time.Time
}

// Validate checks session feedback invariants before it is recorded
func (f *SessionFeedback) Validate() error {
	if f.SessionID <= 0 {
		return goerr.Wrap(ErrMissingField, "session_id is required",
			goerr.V("session_id", f.SessionID))
	}
	if !f.Rating.IsValid() {
		return goerr.Wrap(ErrInvalidRating, "unknown session rating",
			goerr.V("rating", f.Rating))
	}
	if !f.Timing.Normalize().IsValid() {
		return goerr.Wrap(ErrMissingField, "unknown feedback timing",
			goerr.V("timing", f.Timing))
	}
	return nil
}

// Clone creates a copy of the session feedback record
func (f *SessionFeedback) Clone() *SessionFeedback {
	copied := *f
	return &copied
}

// CardFeedback is the star rating and favorite flag a user gave one
// practice card in one session. A later submission for the same
// (SessionID, PracticeID) pair supersedes the prior record.
type CardFeedback struct {
	SessionID  types.SessionID
	PracticeID types.PracticeCardID
	Rating     int    // 1..5 stars
	Comment    string `masq:"secret"` // free text, redacted in logs
	IsFavorite bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks card feedback invariants before it is recorded
func (f *CardFeedback) Validate() error {
	if f.SessionID <= 0 {
		return goerr.Wrap(ErrMissingField, "session_id is required",
			goerr.V("session_id", f.SessionID))
	}
	if f.PracticeID <= 0 {
		return goerr.Wrap(ErrMissingField, "practice_id is required",
			goerr.V("practice_id", f.PracticeID))
	}
	if f.Rating < 1 || f.Rating > 5 {
		return goerr.Wrap(ErrInvalidRating, "star rating must be within 1..5",
			goerr.V("rating", f.Rating))
	}
	return nil
}

// Clone creates a copy of the card feedback record
func (f *CardFeedback) Clone() *CardFeedback {
	copied := *f
	return &copied
}
