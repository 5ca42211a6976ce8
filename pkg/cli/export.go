package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/James3014/TurnFix-qwen/pkg/cli/config"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
	"github.com/James3014/TurnFix-qwen/pkg/utils/safe"
)

func cmdExport() *cli.Command {
	var output string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Path for the export JSON file (stdout when omitted)",
			Sources:     cli.EnvVars("TURNFIX_EXPORT_OUTPUT"),
			Destination: &output,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export approved knowledge snippets for the downstream knowledge base",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo)
			payload, err := uc.Review.ExportApproved(ctx)
			if err != nil {
				return goerr.Wrap(err, "export failed")
			}

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to encode export payload")
			}
			data = append(data, '\n')

			if output == "" {
				safe.Write(ctx, os.Stdout, data)
			} else {
				if err := os.WriteFile(output, data, 0600); err != nil {
					return goerr.Wrap(err, "failed to write export file", goerr.V("path", output))
				}
				color.Green("✓ Exported %d approved snippets to %s", len(payload.Snippets), output)
			}
			return nil
		},
	}
}
