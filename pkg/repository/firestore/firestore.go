package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
)

const (
	snippetCollection         = "snippets"
	sessionFeedbackCollection = "session_feedback"
	cardFeedbackCollection    = "card_feedback"
)

// Firestore is the production repository backend
type Firestore struct {
	client          *firestore.Client
	snippet         *snippetRepository
	sessionFeedback *sessionFeedbackRepository
	cardFeedback    *cardFeedbackRepository
}

var _ interfaces.Repository = &Firestore{}

// New creates a Firestore repository. databaseID may be empty to use the
// default database of the project.
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	return &Firestore{
		client:          client,
		snippet:         newSnippetRepository(client),
		sessionFeedback: newSessionFeedbackRepository(client),
		cardFeedback:    newCardFeedbackRepository(client),
	}, nil
}

func (f *Firestore) Snippet() interfaces.SnippetRepository {
	return f.snippet
}

func (f *Firestore) SessionFeedback() interfaces.SessionFeedbackRepository {
	return f.sessionFeedback
}

func (f *Firestore) CardFeedback() interfaces.CardFeedbackRepository {
	return f.cardFeedback
}

func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
