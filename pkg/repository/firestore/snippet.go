package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// saveAllConcurrency bounds the fan-out of SaveAll document writes
const saveAllConcurrency = 8

// snippetDoc is the Firestore document representation of model.Snippet
type snippetDoc struct {
	ID            model.SnippetID    `firestore:"ID"`
	Symptom       string             `firestore:"Symptom"`
	PracticeTips  []string           `firestore:"PracticeTips"`
	Pitfalls      []string           `firestore:"Pitfalls"`
	Dosage        string             `firestore:"Dosage"`
	SourceExcerpt string             `firestore:"SourceExcerpt"`
	OriginalText  string             `firestore:"OriginalText"`
	SourceFile    string             `firestore:"SourceFile"`
	Confidence    float64            `firestore:"Confidence"`
	ReviewStatus  types.ReviewStatus `firestore:"ReviewStatus"`
	Revision      int64              `firestore:"Revision"`
	CreatedAt     time.Time          `firestore:"CreatedAt"`
	UpdatedAt     time.Time          `firestore:"UpdatedAt"`
}

func toSnippetDoc(s *model.Snippet) *snippetDoc {
	return &snippetDoc{
		ID:            s.ID,
		Symptom:       s.Symptom,
		PracticeTips:  s.PracticeTips,
		Pitfalls:      s.Pitfalls,
		Dosage:        s.Dosage,
		SourceExcerpt: s.SourceExcerpt,
		OriginalText:  s.OriginalText,
		SourceFile:    s.SourceFile,
		Confidence:    s.Confidence,
		ReviewStatus:  s.ReviewStatus,
		Revision:      s.Revision,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func fromSnippetDoc(d *snippetDoc) *model.Snippet {
	return &model.Snippet{
		ID:            d.ID,
		Symptom:       d.Symptom,
		PracticeTips:  d.PracticeTips,
		Pitfalls:      d.Pitfalls,
		Dosage:        d.Dosage,
		SourceExcerpt: d.SourceExcerpt,
		OriginalText:  d.OriginalText,
		SourceFile:    d.SourceFile,
		Confidence:    d.Confidence,
		ReviewStatus:  d.ReviewStatus,
		Revision:      d.Revision,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func docToSnippet(doc *firestore.DocumentSnapshot) (*model.Snippet, error) {
	var d snippetDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromSnippetDoc(&d), nil
}

type snippetRepository struct {
	client *firestore.Client
}

func newSnippetRepository(client *firestore.Client) *snippetRepository {
	return &snippetRepository{
		client: client,
	}
}

func (r *snippetRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(snippetCollection)
}

func (r *snippetRepository) Create(ctx context.Context, snippet *model.Snippet) (*model.Snippet, error) {
	if err := snippet.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid snippet")
	}

	now := time.Now().UTC()
	created := snippet.Clone()
	if created.ID == "" {
		created.ID = model.NewSnippetID()
	}
	created.ReviewStatus = created.ReviewStatus.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	docRef := r.collection().Doc(string(created.ID))
	if _, err := docRef.Set(ctx, toSnippetDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create snippet", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *snippetRepository) Get(ctx context.Context, id model.SnippetID) (*model.Snippet, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSnippetNotFound, "snippet not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get snippet", goerr.V("id", id))
	}

	snippet, err := docToSnippet(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode snippet", goerr.V("id", id))
	}

	return snippet, nil
}

func (r *snippetRepository) List(ctx context.Context) ([]*model.Snippet, error) {
	iter := r.collection().OrderBy("CreatedAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var result []*model.Snippet
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate snippets")
		}

		snippet, err := docToSnippet(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode snippet", goerr.V("doc", doc.Ref.ID))
		}
		result = append(result, snippet)
	}

	return result, nil
}

// SetStatus updates the review status inside a transaction so that
// concurrent writers to the same snippet cannot lose an update.
func (r *snippetRepository) SetStatus(ctx context.Context, id model.SnippetID, reviewStatus types.ReviewStatus) (*model.Snippet, error) {
	if !reviewStatus.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidStatus, "unknown review status", goerr.V("status", reviewStatus))
	}

	docRef := r.collection().Doc(string(id))
	var updated *model.Snippet

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrSnippetNotFound, "snippet not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get snippet in transaction", goerr.V("id", id))
		}

		snippet, err := docToSnippet(doc)
		if err != nil {
			return goerr.Wrap(err, "failed to decode snippet", goerr.V("id", id))
		}

		snippet.ReviewStatus = reviewStatus
		snippet.Revision++
		snippet.UpdatedAt = time.Now().UTC()
		updated = snippet

		return tx.Set(docRef, toSnippetDoc(snippet))
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *snippetRepository) SaveAll(ctx context.Context, snippets []*model.Snippet) error {
	for _, s := range snippets {
		if err := s.Validate(); err != nil {
			return goerr.Wrap(err, "invalid snippet in save set", goerr.V("id", s.ID))
		}
	}

	now := time.Now().UTC()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(saveAllConcurrency)

	for _, s := range snippets {
		saved := s.Clone()
		if saved.ID == "" {
			saved.ID = model.NewSnippetID()
		}
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}
		saved.UpdatedAt = now

		eg.Go(func() error {
			if _, err := r.collection().Doc(string(saved.ID)).Set(ctx, toSnippetDoc(saved)); err != nil {
				return goerr.Wrap(err, "failed to save snippet", goerr.V("id", saved.ID))
			}
			return nil
		})
	}

	return eg.Wait()
}
