package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/James3014/TurnFix-qwen/pkg/cli/config"
	"github.com/James3014/TurnFix-qwen/pkg/utils/errutil"
	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "turnfix",
		Usage:   "TurnFix knowledge curation and feedback aggregation engine",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting turnfix", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdImport(),
			cmdExport(),
		},
	}

	return errutil.Handle(ctx, app.Run(ctx, args), "failed to run app")
}
