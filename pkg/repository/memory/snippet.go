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

type snippetRepository struct {
	mu       sync.RWMutex
	snippets map[model.SnippetID]*model.Snippet
}

func newSnippetRepository() *snippetRepository {
	return &snippetRepository{
		snippets: make(map[model.SnippetID]*model.Snippet),
	}
}

func (r *snippetRepository) Create(ctx context.Context, snippet *model.Snippet) (*model.Snippet, error) {
	if err := snippet.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid snippet")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := snippet.Clone()
	if created.ID == "" {
		created.ID = model.NewSnippetID()
	}
	created.ReviewStatus = created.ReviewStatus.Normalize()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.snippets[created.ID] = created
	return created.Clone(), nil
}

func (r *snippetRepository) Get(ctx context.Context, id model.SnippetID) (*model.Snippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snippet, exists := r.snippets[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSnippetNotFound, "snippet not found", goerr.V("id", id))
	}

	return snippet.Clone(), nil
}

func (r *snippetRepository) List(ctx context.Context) ([]*model.Snippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.Snippet, 0, len(r.snippets))
	for _, s := range r.snippets {
		all = append(all, s.Clone())
	}

	// Oldest first so the review queue order is stable across reloads
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	return all, nil
}

func (r *snippetRepository) SetStatus(ctx context.Context, id model.SnippetID, status types.ReviewStatus) (*model.Snippet, error) {
	if !status.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidStatus, "unknown review status", goerr.V("status", status))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snippet, exists := r.snippets[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSnippetNotFound, "snippet not found", goerr.V("id", id))
	}

	snippet.ReviewStatus = status
	snippet.Revision++
	snippet.UpdatedAt = time.Now().UTC()

	return snippet.Clone(), nil
}

func (r *snippetRepository) SaveAll(ctx context.Context, snippets []*model.Snippet) error {
	for _, s := range snippets {
		if err := s.Validate(); err != nil {
			return goerr.Wrap(err, "invalid snippet in save set", goerr.V("id", s.ID))
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, s := range snippets {
		saved := s.Clone()
		if saved.ID == "" {
			saved.ID = model.NewSnippetID()
		}
		if existing, exists := r.snippets[saved.ID]; exists {
			saved.CreatedAt = existing.CreatedAt
		} else if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}
		saved.UpdatedAt = now
		r.snippets[saved.ID] = saved
	}

	return nil
}
