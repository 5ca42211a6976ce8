package usecase

import (
	"github.com/James3014/TurnFix-qwen/pkg/domain/interfaces"
	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/service/recommend"
)

// UseCases aggregates all use cases of the application
type UseCases struct {
	Review    *ReviewUseCase
	Feedback  *FeedbackUseCase
	Recommend *RecommendUseCase
}

// Option configures UseCases
type Option func(*options)

type options struct {
	catalog []*model.PracticeCard
	maxRecs int
}

// WithCatalog sets the practice card catalog used for recommendations
func WithCatalog(catalog []*model.PracticeCard) Option {
	return func(o *options) {
		o.catalog = catalog
	}
}

// WithMaxRecommendations caps the recommendation list length
func WithMaxRecommendations(max int) Option {
	return func(o *options) {
		o.maxRecs = max
	}
}

// New creates the use case aggregate over a repository
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	o := &options{
		maxRecs: recommend.DefaultMaxRecommendations,
	}
	for _, opt := range opts {
		opt(o)
	}

	matcher := recommend.NewMatcher(o.catalog, recommend.WithMaxCandidates(o.maxRecs))

	return &UseCases{
		Review:    NewReviewUseCase(repo),
		Feedback:  NewFeedbackUseCase(repo, matcher),
		Recommend: NewRecommendUseCase(repo, matcher),
	}
}
