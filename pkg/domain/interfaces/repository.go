package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Snippet() SnippetRepository
	SessionFeedback() SessionFeedbackRepository
	CardFeedback() CardFeedbackRepository

	// Close releases backend resources
	Close() error
}
