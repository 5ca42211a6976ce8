package interfaces

import (
	"context"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// SessionFeedbackRepository persists session-level feedback records.
// Records are append-only; there is no update or delete path.
type SessionFeedbackRepository interface {
	// Create stores a new session feedback record
	Create(ctx context.Context, feedback *model.SessionFeedback) (*model.SessionFeedback, error)

	// List retrieves all session feedback records
	List(ctx context.Context) ([]*model.SessionFeedback, error)

	// ListBySymptom retrieves session feedback for sessions tied to the symptom
	ListBySymptom(ctx context.Context, symptom string) ([]*model.SessionFeedback, error)
}

// CardFeedbackRepository persists per-card feedback records keyed by
// (SessionID, PracticeID); a later Upsert for the same pair supersedes the
// prior record.
type CardFeedbackRepository interface {
	// Upsert creates or replaces the record for (SessionID, PracticeID)
	Upsert(ctx context.Context, feedback *model.CardFeedback) (*model.CardFeedback, error)

	// Get retrieves the record for (sessionID, practiceID). Returns
	// model.ErrCardFeedbackNotFound if absent.
	Get(ctx context.Context, sessionID types.SessionID, practiceID types.PracticeCardID) (*model.CardFeedback, error)

	// ListBySession retrieves all card feedback from one session
	ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.CardFeedback, error)

	// ListByPractice retrieves all card feedback for one practice card
	ListByPractice(ctx context.Context, practiceID types.PracticeCardID) ([]*model.CardFeedback, error)

	// List retrieves all card feedback records
	List(ctx context.Context) ([]*model.CardFeedback, error)
}
