package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// sessionFeedbackDoc is the Firestore document representation of
// model.SessionFeedback
type sessionFeedbackDoc struct {
	ID        model.SessionFeedbackID `firestore:"ID"`
	SessionID types.SessionID         `firestore:"SessionID"`
	Symptom   string                  `firestore:"Symptom"`
	Rating    types.SessionRating     `firestore:"Rating"`
	Comment   string                  `firestore:"Comment"`
	Timing    types.FeedbackTiming    `firestore:"Timing"`
	CreatedAt time.Time               `firestore:"CreatedAt"`
}

func toSessionFeedbackDoc(f *model.SessionFeedback) *sessionFeedbackDoc {
	return &sessionFeedbackDoc{
		ID:        f.ID,
		SessionID: f.SessionID,
		Symptom:   f.Symptom,
		Rating:    f.Rating,
		Comment:   f.Comment,
		Timing:    f.Timing,
		CreatedAt: f.CreatedAt,
	}
}

func fromSessionFeedbackDoc(d *sessionFeedbackDoc) *model.SessionFeedback {
	return &model.SessionFeedback{
		ID:        d.ID,
		SessionID: d.SessionID,
		Symptom:   d.Symptom,
		Rating:    d.Rating,
		Comment:   d.Comment,
		Timing:    d.Timing,
		CreatedAt: d.CreatedAt,
	}
}

type sessionFeedbackRepository struct {
	client *firestore.Client
}

func newSessionFeedbackRepository(client *firestore.Client) *sessionFeedbackRepository {
	return &sessionFeedbackRepository{
		client: client,
	}
}

func (r *sessionFeedbackRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(sessionFeedbackCollection)
}

func (r *sessionFeedbackRepository) Create(ctx context.Context, feedback *model.SessionFeedback) (*model.SessionFeedback, error) {
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid session feedback")
	}

	created := feedback.Clone()
	if created.ID == "" {
		created.ID = model.NewSessionFeedbackID()
	}
	created.Timing = created.Timing.Normalize()
	created.CreatedAt = time.Now().UTC()

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toSessionFeedbackDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create session feedback", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *sessionFeedbackRepository) List(ctx context.Context) ([]*model.SessionFeedback, error) {
	return r.query(ctx, r.collection().OrderBy("CreatedAt", firestore.Asc))
}

func (r *sessionFeedbackRepository) ListBySymptom(ctx context.Context, symptom string) ([]*model.SessionFeedback, error) {
	return r.query(ctx, r.collection().Where("Symptom", "==", symptom))
}

func (r *sessionFeedbackRepository) query(ctx context.Context, q firestore.Query) ([]*model.SessionFeedback, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []*model.SessionFeedback
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate session feedback")
		}

		var d sessionFeedbackDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode session feedback", goerr.V("doc", doc.Ref.ID))
		}
		result = append(result, fromSessionFeedbackDoc(&d))
	}

	return result, nil
}

// cardFeedbackDoc is the Firestore document representation of
// model.CardFeedback. The document ID is "<sessionID>:<practiceID>" so a
// later submission for the same pair naturally supersedes the prior one.
type cardFeedbackDoc struct {
	SessionID  types.SessionID      `firestore:"SessionID"`
	PracticeID types.PracticeCardID `firestore:"PracticeID"`
	Rating     int                  `firestore:"Rating"`
	Comment    string               `firestore:"Comment"`
	IsFavorite bool                 `firestore:"IsFavorite"`
	CreatedAt  time.Time            `firestore:"CreatedAt"`
	UpdatedAt  time.Time            `firestore:"UpdatedAt"`
}

func toCardFeedbackDoc(f *model.CardFeedback) *cardFeedbackDoc {
	return &cardFeedbackDoc{
		SessionID:  f.SessionID,
		PracticeID: f.PracticeID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		IsFavorite: f.IsFavorite,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}

func fromCardFeedbackDoc(d *cardFeedbackDoc) *model.CardFeedback {
	return &model.CardFeedback{
		SessionID:  d.SessionID,
		PracticeID: d.PracticeID,
		Rating:     d.Rating,
		Comment:    d.Comment,
		IsFavorite: d.IsFavorite,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func cardFeedbackDocID(sessionID types.SessionID, practiceID types.PracticeCardID) string {
	return fmt.Sprintf("%d:%d", sessionID, practiceID)
}

type cardFeedbackRepository struct {
	client *firestore.Client
}

func newCardFeedbackRepository(client *firestore.Client) *cardFeedbackRepository {
	return &cardFeedbackRepository{
		client: client,
	}
}

func (r *cardFeedbackRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(cardFeedbackCollection)
}

// Upsert replaces the record for (SessionID, PracticeID) inside a
// transaction so that CreatedAt of the first submission survives.
func (r *cardFeedbackRepository) Upsert(ctx context.Context, feedback *model.CardFeedback) (*model.CardFeedback, error) {
	if err := feedback.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid card feedback")
	}

	docRef := r.collection().Doc(cardFeedbackDocID(feedback.SessionID, feedback.PracticeID))
	saved := feedback.Clone()
	now := time.Now().UTC()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		switch {
		case err == nil:
			var existing cardFeedbackDoc
			if err := doc.DataTo(&existing); err != nil {
				return goerr.Wrap(err, "failed to decode card feedback", goerr.V("doc", docRef.ID))
			}
			saved.CreatedAt = existing.CreatedAt
		case status.Code(err) == codes.NotFound:
			saved.CreatedAt = now
		default:
			return goerr.Wrap(err, "failed to get card feedback in transaction", goerr.V("doc", docRef.ID))
		}

		saved.UpdatedAt = now
		return tx.Set(docRef, toCardFeedbackDoc(saved))
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *cardFeedbackRepository) Get(ctx context.Context, sessionID types.SessionID, practiceID types.PracticeCardID) (*model.CardFeedback, error) {
	doc, err := r.collection().Doc(cardFeedbackDocID(sessionID, practiceID)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrCardFeedbackNotFound, "card feedback not found",
				goerr.V("session_id", sessionID), goerr.V("practice_id", practiceID))
		}
		return nil, goerr.Wrap(err, "failed to get card feedback",
			goerr.V("session_id", sessionID), goerr.V("practice_id", practiceID))
	}

	var d cardFeedbackDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to decode card feedback", goerr.V("doc", doc.Ref.ID))
	}

	return fromCardFeedbackDoc(&d), nil
}

func (r *cardFeedbackRepository) ListBySession(ctx context.Context, sessionID types.SessionID) ([]*model.CardFeedback, error) {
	return r.query(ctx, r.collection().Where("SessionID", "==", sessionID))
}

func (r *cardFeedbackRepository) ListByPractice(ctx context.Context, practiceID types.PracticeCardID) ([]*model.CardFeedback, error) {
	return r.query(ctx, r.collection().Where("PracticeID", "==", practiceID))
}

func (r *cardFeedbackRepository) List(ctx context.Context) ([]*model.CardFeedback, error) {
	return r.query(ctx, r.collection().Query)
}

func (r *cardFeedbackRepository) query(ctx context.Context, q firestore.Query) ([]*model.CardFeedback, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var result []*model.CardFeedback
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate card feedback")
		}

		var d cardFeedbackDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to decode card feedback", goerr.V("doc", doc.Ref.ID))
		}
		result = append(result, fromCardFeedbackDoc(&d))
	}

	return result, nil
}
