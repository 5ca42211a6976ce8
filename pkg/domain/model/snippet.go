package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// SnippetID is a UUID-based identifier for Snippet
type SnippetID string

// NewSnippetID generates a new UUID v4 SnippetID
func NewSnippetID() SnippetID {
	return SnippetID(uuid.New().String())
}

// Snippet is an auto-extracted coaching fact awaiting human review. It is
// created by the upstream extraction tool and mutated only through review
// status changes; snippets are never deleted by this engine.
type Snippet struct {
	ID            SnippetID
	Symptom       string   // symptom name the tips address
	PracticeTips  []string // ordered practice tips
	Pitfalls      []string // ordered common mistakes to avoid
	Dosage        string   // free-text repetition/duration advice
	SourceExcerpt string   // excerpt of the source the snippet was extracted from
	OriginalText  string   // original text the extractor saw
	SourceFile    string   // file the extraction tool read
	Confidence    float64  // extractor confidence, 0.0..1.0
	ReviewStatus  types.ReviewStatus
	Revision      int64 // bumped on every status change, used for CAS updates
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks snippet invariants before it enters the store
func (s *Snippet) Validate() error {
	if s.Symptom == "" {
		return goerr.Wrap(ErrMissingField, "symptom is required")
	}
	if s.Confidence < 0.0 || s.Confidence > 1.0 {
		return goerr.Wrap(ErrInvalidConfidence, "confidence must be within 0.0..1.0",
			goerr.V("confidence", s.Confidence))
	}
	if !s.ReviewStatus.Normalize().IsValid() {
		return goerr.Wrap(ErrInvalidStatus, "unknown review status",
			goerr.V("status", s.ReviewStatus))
	}
	return nil
}

// Clone creates a deep copy of the snippet
func (s *Snippet) Clone() *Snippet {
	copied := *s
	if s.PracticeTips != nil {
		copied.PracticeTips = make([]string, len(s.PracticeTips))
		copy(copied.PracticeTips, s.PracticeTips)
	}
	if s.Pitfalls != nil {
		copied.Pitfalls = make([]string, len(s.Pitfalls))
		copy(copied.Pitfalls, s.Pitfalls)
	}
	return &copied
}
