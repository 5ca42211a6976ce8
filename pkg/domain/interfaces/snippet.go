package interfaces

import (
	"context"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// SnippetRepository defines the interface for Snippet data persistence
type SnippetRepository interface {
	// Create stores a new snippet
	Create(ctx context.Context, snippet *model.Snippet) (*model.Snippet, error)

	// Get retrieves a snippet by ID
	Get(ctx context.Context, id model.SnippetID) (*model.Snippet, error)

	// List retrieves all snippets ordered by creation time, oldest first
	List(ctx context.Context) ([]*model.Snippet, error)

	// SetStatus sets the review status of one snippet. The update is
	// linearizable per snippet: concurrent writers to the same ID produce
	// one consistent final state. Returns model.ErrSnippetNotFound if the
	// ID is absent.
	SetStatus(ctx context.Context, id model.SnippetID, status types.ReviewStatus) (*model.Snippet, error)

	// SaveAll upserts the given snippet set. Used by the review workflow's
	// save boundary; per-snippet writes, no cross-snippet transaction.
	SaveAll(ctx context.Context, snippets []*model.Snippet) error
}
