package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/James3014/TurnFix-qwen/pkg/domain/model"
	"github.com/James3014/TurnFix-qwen/pkg/domain/types"
	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
)

// Catalog holds CLI flags for the practice card catalog
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the practice card catalog TOML file",
			Sources:     cli.EnvVars("TURNFIX_CATALOG"),
			Destination: &c.path,
		},
	}
}

// catalogFile is the TOML document shape of the practice card catalog
type catalogFile struct {
	Cards []catalogCard `toml:"card"`
}

// catalogCard is one practice card entry in the catalog file
type catalogCard struct {
	ID        int64    `toml:"id"`
	Name      string   `toml:"name"`
	Goal      string   `toml:"goal"`
	CardType  string   `toml:"card_type"`
	Tips      []string `toml:"tips"`
	Pitfalls  string   `toml:"pitfalls"`
	Dosage    string   `toml:"dosage"`
	Level     []string `toml:"level"`
	Terrain   []string `toml:"terrain"`
	SelfCheck []string `toml:"self_check"`
	Symptoms  []string `toml:"symptoms"`
}

// Configure loads and validates the catalog. An unset path yields an empty
// catalog; recommendation endpoints then serve empty results.
func (c *Catalog) Configure() ([]*model.PracticeCard, error) {
	if c.path == "" {
		logging.Default().Warn("No practice card catalog configured, recommendations will be empty")
		return nil, nil
	}

	cards, err := LoadCatalog(c.path)
	if err != nil {
		return nil, err
	}

	logging.Default().Info("Practice card catalog loaded",
		"path", c.path, "cards", len(cards))
	return cards, nil
}

// LoadCatalog loads the practice card catalog from a TOML file
func LoadCatalog(path string) ([]*model.PracticeCard, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse catalog TOML", goerr.V("path", path))
	}

	seen := make(map[int64]bool, len(file.Cards))
	cards := make([]*model.PracticeCard, 0, len(file.Cards))
	for _, in := range file.Cards {
		card := &model.PracticeCard{
			ID:        types.PracticeCardID(in.ID),
			Name:      in.Name,
			Goal:      in.Goal,
			CardType:  in.CardType,
			Tips:      in.Tips,
			Pitfalls:  in.Pitfalls,
			Dosage:    in.Dosage,
			Level:     in.Level,
			Terrain:   in.Terrain,
			SelfCheck: in.SelfCheck,
			Symptoms:  in.Symptoms,
		}
		if err := card.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid practice card in catalog", goerr.V("path", path))
		}
		if seen[in.ID] {
			return nil, goerr.Wrap(ErrInvalidCatalogConfig, "duplicate practice card ID",
				goerr.V("id", in.ID), goerr.V("path", path))
		}
		seen[in.ID] = true
		cards = append(cards, card)
	}

	return cards, nil
}
