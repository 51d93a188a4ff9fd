package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/abelbrown/roundup/internal/aggregate"
	"github.com/abelbrown/roundup/internal/config"
	"github.com/abelbrown/roundup/internal/fetch"
	"github.com/abelbrown/roundup/internal/logging"
)

func RootApp() *cli.App {
	return &cli.App{
		Name:  "roundup",
		Usage: "Aggregate RSS and Atom feeds by category",
		Description: `Roundup fetches every feed configured for a category in parallel,
merges the entries into one list, filters it by keywords and returns the
newest (or alphabetically first) articles.

A failing feed never fails the request; it is reported next to the
articles that did arrive.

Flags can generally be set via environment variables, e.g.:

--config => ROUNDUP_CONFIG=~/.roundup/config.toml
--addr => ROUNDUP_ADDR=:8080
`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the TOML config file",
				Value:   config.ConfigPath(),
				EnvVars: []string{"ROUNDUP_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCmd(),
			fetchCmd(),
			browseCmd(),
			categoriesCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return cli.ShowAppHelp(ctx)
		},
	}
}

// loadConfig reads the config file, applies environment overrides and
// initializes logging to logOut.
func loadConfig(ctx *cli.Context, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	if err := logging.Init(logging.Options{Level: cfg.Log.Level, Writer: logOut}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAggregator(cfg *config.Config) *aggregate.Aggregator {
	fetcher := fetch.NewFetcher(cfg.Fetch.Timeout.Duration,
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithMaxBodyBytes(cfg.Fetch.MaxBodyBytes),
	)
	return aggregate.New(cfg.Catalog(), fetcher, aggregate.Config{
		Concurrency:  cfg.Aggregate.Concurrency,
		FetchTimeout: cfg.Fetch.Timeout.Duration,
	})
}
