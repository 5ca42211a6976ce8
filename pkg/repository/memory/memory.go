package memory

import (
	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
)

// Memory is an in-memory repository for development and tests
type Memory struct {
	snippet         *snippetRepository
	sessionFeedback *sessionFeedbackRepository
	cardFeedback    *cardFeedbackRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		snippet:         newSnippetRepository(),
		sessionFeedback: newSessionFeedbackRepository(),
		cardFeedback:    newCardFeedbackRepository(),
	}
}

func (m *Memory) Snippet() interfaces.SnippetRepository {
	return m.snippet
}

func (m *Memory) SessionFeedback() interfaces.SessionFeedbackRepository {
	return m.sessionFeedback
}

func (m *Memory) CardFeedback() interfaces.CardFeedbackRepository {
	return m.cardFeedback
}

func (m *Memory) Close() error {
	return nil
}
