package cli

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/James3014/TurnFix-qwen/pkg/cli/config"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
	"github.com/James3014/TurnFix-qwen/pkg/utils/safe"
)

func cmdImport() *cli.Command {
	var input string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the extraction payload JSON file",
			Required:    true,
			Sources:     cli.EnvVars("TURNFIX_IMPORT_INPUT"),
			Destination: &input,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import extracted knowledge snippets into the review queue",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			// #nosec G304 - path is expected to be provided by CLI argument
			raw, err := os.ReadFile(input)
			if err != nil {
				return goerr.Wrap(err, "failed to read import file", goerr.V("path", input))
			}

			uc := usecase.New(repo)
			count, err := uc.Review.Import(ctx, raw)
			if err != nil {
				return goerr.Wrap(err, "import failed", goerr.V("path", input))
			}

			color.Green("✓ Imported %d snippets from %s", count, input)
			color.Yellow("  All imported snippets are pending review")
			return nil
		},
	}
}
