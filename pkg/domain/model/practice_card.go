package model

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
)

// PracticeCard is a structured exercise recommendation from the catalog.
// List-valued fields are first-class ordered string lists, validated at the
// catalog loading boundary.
type PracticeCard struct {
	ID        types.PracticeCardID
	Name      string
	Goal      string
	CardType  string   // card category, drives personalization matching
	Tips      []string // up to 3 key points
	Pitfalls  string   // common mistake correction, single text
	Dosage    string   // suggested reps/duration, free text
	Level     []string // applicable skill levels, open vocabulary
	Terrain   []string // applicable terrain, open vocabulary
	SelfCheck []string // up to 3 self-check points
	Symptoms  []string // symptom names this card addresses
}

// Validate checks catalog invariants for one card
func (c *PracticeCard) Validate() error {
	if c.ID <= 0 {
		return goerr.Wrap(ErrMissingField, "practice card ID must be positive",
			goerr.V("id", c.ID))
	}
	if c.Name == "" {
		return goerr.Wrap(ErrMissingField, "practice card name is required",
			goerr.V("id", c.ID))
	}
	if c.Goal == "" {
		return goerr.Wrap(ErrMissingField, "practice card goal is required",
			goerr.V("id", c.ID))
	}
	return nil
}

// MatchesLevel reports whether the card applies to the given skill level.
// An empty level scope matches everything.
func (c *PracticeCard) MatchesLevel(level string) bool {
	if level == "" || len(c.Level) == 0 {
		return true
	}
	return slices.Contains(c.Level, level)
}

// MatchesTerrain reports whether the card applies to the given terrain.
// An empty terrain scope matches everything.
func (c *PracticeCard) MatchesTerrain(terrain string) bool {
	if terrain == "" || len(c.Terrain) == 0 {
		return true
	}
	return slices.Contains(c.Terrain, terrain)
}

// TargetsSymptom reports whether the card addresses the given symptom
func (c *PracticeCard) TargetsSymptom(symptom string) bool {
	return symptom != "" && slices.Contains(c.Symptoms, symptom)
}
