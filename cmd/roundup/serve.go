package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/abelbrown/roundup/internal/api"
	"github.com/abelbrown/roundup/internal/logging"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the aggregation API over HTTP",
		Description: `Starts the HTTP server.

GET /api/feeds?category=tech&keywords=ai,chips&limit=20&sortBy=date
GET /api/categories
GET /healthz
GET /metrics`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Listen address",
				EnvVars: []string{"ROUNDUP_ADDR"},
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx, nil)
			if err != nil {
				return err
			}
			if ctx.IsSet("addr") {
				cfg.Server.Addr = ctx.String("addr")
			}

			server := api.NewServer(newAggregator(cfg), cfg.Catalog(), api.Options{
				DefaultLimit: cfg.Aggregate.DefaultLimit,
			})

			sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(cfg.Server.Addr)
			}()

			select {
			case err := <-errCh:
				return err
			case <-sigCtx.Done():
			}

			logging.Info("Gracefully shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return <-errCh
		},
	}
}
