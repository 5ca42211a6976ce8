package recommend

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/service/stats"
)

// DefaultMaxRecommendations caps a recommendation response unless overridden
const DefaultMaxRecommendations = 5

// NoCandidateMessage is returned when the catalog has nothing to suggest.
// An empty candidate list is a normal outcome, not an error.
const NoCandidateMessage = "no related practice cards found for this drill"

// Candidate is one ranked recommendation with its personalization tags
type Candidate struct {
	Card              *model.PracticeCard `json:"card"`
	SimilarToPrevious bool                `json:"similar_to_previous"`
	BasedOnPreference bool                `json:"based_on_preference"`
}

// Result is a full recommendation response
type Result struct {
	Message    string      `json:"message,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// Option configures a Matcher
type Option func(*Matcher)

// WithMaxCandidates overrides the recommendation cap
func WithMaxCandidates(max int) Option {
	return func(m *Matcher) {
		if max > 0 {
			m.max = max
		}
	}
}

// Matcher ranks practice cards from the catalog against a user's feedback
// history. The catalog is immutable after construction.
type Matcher struct {
	catalog []*model.PracticeCard
	byID    map[types.PracticeCardID]*model.PracticeCard
	max     int
}

// NewMatcher builds a matcher over the given catalog
func NewMatcher(catalog []*model.PracticeCard, options ...Option) *Matcher {
	m := &Matcher{
		catalog: catalog,
		byID:    make(map[types.PracticeCardID]*model.PracticeCard, len(catalog)),
		max:     DefaultMaxRecommendations,
	}
	for _, c := range catalog {
		m.byID[c.ID] = c
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Card looks up one catalog card
func (m *Matcher) Card(id types.PracticeCardID) (*model.PracticeCard, bool) {
	c, ok := m.byID[id]
	return c, ok
}

// Catalog returns the full card catalog
func (m *Matcher) Catalog() []*model.PracticeCard {
	return m.catalog
}

// Recommend ranks every catalog card except the target, personalized by the
// user's card feedback history. A candidate is tagged similar_to_previous
// when it shares a card type or symptom with a card in the history, and
// based_on_preference when its type is the user's top-rated one. When no
// candidate earns either tag the result is an empty list with a neutral
// message. Tagged candidates rank first; within a group, higher average
// rating wins, then the lower card ID.
func (m *Matcher) Recommend(targetID types.PracticeCardID, history []*model.CardFeedback, cardStats map[types.PracticeCardID]stats.CardStats) (*Result, error) {
	if _, ok := m.byID[targetID]; !ok {
		return nil, goerr.Wrap(model.ErrCardNotFound, "practice card not in catalog",
			goerr.V("practice_id", targetID))
	}

	historyTypes := make(map[string]struct{})
	historySymptoms := make(map[string]struct{})
	for _, f := range history {
		card, ok := m.byID[f.PracticeID]
		if !ok {
			continue
		}
		if card.CardType != "" {
			historyTypes[card.CardType] = struct{}{}
		}
		for _, symptom := range card.Symptoms {
			historySymptoms[symptom] = struct{}{}
		}
	}
	preferredType := preferredCardType(m.byID, history)

	var candidates []Candidate
	var anyTagged bool
	for _, card := range m.catalog {
		if card.ID == targetID {
			continue
		}

		c := Candidate{Card: card}
		if card.CardType != "" {
			if _, ok := historyTypes[card.CardType]; ok {
				c.SimilarToPrevious = true
			}
		}
		if !c.SimilarToPrevious {
			for _, symptom := range card.Symptoms {
				if _, ok := historySymptoms[symptom]; ok {
					c.SimilarToPrevious = true
					break
				}
			}
		}
		if preferredType != "" && card.CardType == preferredType {
			c.BasedOnPreference = true
		}
		if tagged(c) {
			anyTagged = true
		}
		candidates = append(candidates, c)
	}

	if !anyTagged {
		return &Result{Message: NoCandidateMessage}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ti, tj := tagged(candidates[i]), tagged(candidates[j])
		if ti != tj {
			return ti
		}
		ai := cardStats[candidates[i].Card.ID].AverageRating
		aj := cardStats[candidates[j].Card.ID].AverageRating
		if ai != aj {
			return ai > aj
		}
		return candidates[i].Card.ID < candidates[j].Card.ID
	})

	if len(candidates) > m.max {
		candidates = candidates[:m.max]
	}

	return &Result{Candidates: candidates}, nil
}

// Followup ranks catalog cards matching the user's level and terrain by
// their global average rating. Used when the user asks for more drills
// after a session.
func (m *Matcher) Followup(level, terrain string, cardStats map[types.PracticeCardID]stats.CardStats) []Candidate {
	var candidates []Candidate
	for _, card := range m.catalog {
		if !card.MatchesLevel(level) || !card.MatchesTerrain(terrain) {
			continue
		}
		candidates = append(candidates, Candidate{Card: card})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ai := cardStats[candidates[i].Card.ID].AverageRating
		aj := cardStats[candidates[j].Card.ID].AverageRating
		if ai != aj {
			return ai > aj
		}
		return candidates[i].Card.ID < candidates[j].Card.ID
	})

	if len(candidates) > m.max {
		candidates = candidates[:m.max]
	}
	return candidates
}

func tagged(c Candidate) bool {
	return c.SimilarToPrevious || c.BasedOnPreference
}

// preferredCardType finds the card type the user rates highest across
// their history. Ties go to the type with more ratings, then the
// lexicographically smaller type name.
func preferredCardType(byID map[types.PracticeCardID]*model.PracticeCard, history []*model.CardFeedback) string {
	type acc struct {
		sum   int
		count int
	}
	byType := make(map[string]*acc)
	for _, f := range history {
		card, ok := byID[f.PracticeID]
		if !ok || card.CardType == "" {
			continue
		}
		a := byType[card.CardType]
		if a == nil {
			a = &acc{}
			byType[card.CardType] = a
		}
		a.sum += f.Rating
		a.count++
	}

	var best string
	var bestAvg float64
	var bestCount int
	for cardType, a := range byType {
		avg := float64(a.sum) / float64(a.count)
		switch {
		case best == "",
			avg > bestAvg,
			avg == bestAvg && a.count > bestCount,
			avg == bestAvg && a.count == bestCount && cardType < best:
			best = cardType
			bestAvg = avg
			bestCount = a.count
		}
	}
	return best
}
