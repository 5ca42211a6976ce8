package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/James3014/TurnFix-qwen/pkg/cli/config"
	httpctrl "github.com/James3014/TurnFix-qwen/pkg/controller/http"
	"github.com/James3014/TurnFix-qwen/pkg/usecase"
	"github.com/James3014/TurnFix-qwen/pkg/utils/logging"
	"github.com/James3014/TurnFix-qwen/pkg/utils/safe"
)

const shutdownTimeout = 10 * time.Second

func cmdServe() *cli.Command {
	var addr string
	var maxRecs int
	var repoCfg config.Repository
	var catalogCfg config.Catalog

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TURNFIX_ADDR"),
			Destination: &addr,
		},
		&cli.IntFlag{
			Name:        "max-recommendations",
			Usage:       "Maximum number of practice cards per recommendation response",
			Value:       5,
			Sources:     cli.EnvVars("TURNFIX_MAX_RECOMMENDATIONS"),
			Destination: &maxRecs,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, catalogCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			catalog, err := catalogCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load practice card catalog")
			}

			uc := usecase.New(repo,
				usecase.WithCatalog(catalog),
				usecase.WithMaxRecommendations(int(maxRecs)),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("HTTP server starting", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "HTTP server failed")
					return
				}
				errCh <- nil
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Shutting down", "signal", sig.String())
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shut down HTTP server")
			}

			return <-errCh
		},
	}
}
