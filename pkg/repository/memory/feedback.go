package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

type sessionFeedbackRepository struct {
	mu      sync.RWMutex
	records map[model.SessionFeedbackID]*model.SessionFeedback
}

func newSessionFeedbackRepository() *sessionFeedbackRepository {
	return &sessionFeedbackRepository{
		records: make(map[model.SessionFeedbackID]*model.SessionFeedback),
	}
}

func (r *sessionFeedbackRepository) Create(ctx context.Context, feedback *model.SessionFeedback) (*model.SessionFeedback, error) {
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session feedback")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := feedback.Clone()
	if created.ID == "" {
		created.ID = model.NewSessionFeedbackID()
	}
	created.Timing = created.Timing.Normalize()
	created.CreatedAt = time.Now().UTC()

	r.records[created.ID] = created
	return created.Clone(), nil
}

func (r *sessionFeedbackRepository) List(ctx context.Context) ([]*model.SessionFeedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.SessionFeedback, 0, len(r.records))
	for _, f := range r.records {
		all = append(all, f.Clone())
	}

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	return all, nil
}

func (r *sessionFeedbackRepository) ListBySymptom(ctx context.Context, symptom string) ([]*model.SessionFeedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.SessionFeedback
	for _, f := range r.records {
		if f.Symptom == symptom {
			result = append(result, f.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// cardFeedbackKey is the supersede key for card feedback records
type cardFeedbackKey struct {
	sessionID  types.SessionID
	practiceID types.PracticeCardID
}

type cardFeedbackRepository struct {
	mu      sync.RWMutex
	records map[cardFeedbackKey]*model.CardFeedback
}

func newCardFeedbackRepository() *cardFeedbackRepository {
	return &cardFeedbackRepository{
		records: make(map[cardFeedbackKey]*model.CardFeedback),
	}
}

func (r *cardFeedbackRepository) Upsert(ctx context.Context, feedback *model.CardFeedback) (*model.CardFeedback, error) {
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid card feedback")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := cardFeedbackKey{sessionID: feedback.SessionID, practiceID: feedback.PracticeID}

	saved := feedback.Clone()
	if existing, exists := r.records[key]; exists {
		saved.CreatedAt = existing.CreatedAt
	} else {
		saved.CreatedAt = now
	}
	saved.UpdatedAt = now

	r.records[key] = saved
	return saved.Clone(), nil
}

func (r *cardFeedbackRepository) Get(ctx context.Context, sessionID types.SessionID, practiceID types.PracticeCardID) (*model.CardFeedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := cardFeedbackKey{sessionID: sessionID, practiceID: practiceID}
	feedback, exists := r.records[key]
	if !exists {
		return nil, goerr.Wrap(model.ErrCardFeedbackNotFound, "card feedback not found",
			goerr.V("session_id", sessionID), goerr.V("practice_id", practiceID))
	}

	return feedback.Clone(), nil
}

func (r *cardFeedbackRepository) ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.CardFeedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.CardFeedback
	for key, f := range r.records {
		if key.sessionID == sessionID {
			result = append(result, f.Clone())
		}
	}

	sortCardFeedback(result)
	return result, nil
}

func (r *cardFeedbackRepository) ListByPractice(ctx context.Context, practiceID types.PracticeCardID) ([]*model.CardFeedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*model.CardFeedback
	for key, f := range r.records {
		if key.practiceID == practiceID {
			result = append(result, f.Clone())
		}
	}

	sortCardFeedback(result)
	return result, nil
}

func (r *cardFeedbackRepository) List(ctx context.Context) ([]*model.CardFeedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.CardFeedback, 0, len(r.records))
	for _, f := range r.records {
		result = append(result, f.Clone())
	}

	sortCardFeedback(result)
	return result, nil
}

func sortCardFeedback(records []*model.CardFeedback) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].SessionID != records[j].SessionID {
			return records[i].SessionID < records[j].SessionID
		}
		return records[i].PracticeID < records[j].PracticeID
	})
}
