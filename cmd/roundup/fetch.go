package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/abelbrown/roundup/internal/catalog"
	"github.com/abelbrown/roundup/internal/config"
	"github.com/abelbrown/roundup/internal/envelope"
	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/filter"
	"github.com/abelbrown/roundup/internal/view"
)

func requestFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "category",
			Usage:   "Category to aggregate",
			Value:   "tech",
			EnvVars: []string{"ROUNDUP_CATEGORY"},
		},
		&cli.StringFlag{
			Name:    "keywords",
			Usage:   "Comma-separated keywords; any match keeps an article",
			EnvVars: []string{"ROUNDUP_KEYWORDS"},
		},
		&cli.IntFlag{
			Name:    "limit",
			Usage:   "Maximum number of articles (default from config)",
			EnvVars: []string{"ROUNDUP_LIMIT"},
		},
		&cli.StringFlag{
			Name:    "sort",
			Usage:   "Sort order: date or title",
			Value:   string(feeds.SortByDate),
			EnvVars: []string{"ROUNDUP_SORT"},
		},
	}
}

func requestFromFlags(ctx *cli.Context, cfg *config.Config) (feeds.Request, error) {
	req := feeds.Request{
		Category: ctx.String("category"),
		Keywords: filter.ParseKeywords(ctx.String("keywords")),
		Limit:    cfg.Aggregate.DefaultLimit,
		SortBy:   feeds.ParseSortOrder(ctx.String("sort")),
	}
	if ctx.IsSet("limit") {
		req.Limit = ctx.Int("limit")
	}
	if req.Limit < 0 {
		return req, fmt.Errorf("limit must be a non-negative integer, got %d", req.Limit)
	}
	return req, nil
}

// exitError turns an unknown category into a usage error listing the valid ones.
func exitError(err error) error {
	var invalid *catalog.InvalidCategoryError
	if errors.As(err, &invalid) {
		return cli.Exit(invalid.Error(), 2)
	}
	return err
}

func fetchCmd() *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Aggregate a category once and print the result",
		Flags: append(requestFlags(), &cli.BoolFlag{
			Name:  "json",
			Usage: "Print the JSON envelope instead of the listing",
		}),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx, nil)
			if err != nil {
				return err
			}
			req, err := requestFromFlags(ctx, cfg)
			if err != nil {
				return err
			}

			result, err := newAggregator(cfg).Aggregate(ctx.Context, req)
			if err != nil {
				return exitError(err)
			}

			if ctx.Bool("json") {
				enc := json.NewEncoder(ctx.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(envelope.Build(result))
			}
			return view.Render(ctx.App.Writer, result, time.Now())
		},
	}
}

func browseCmd() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse a category interactively",
		Flags: requestFlags(),
		Action: func(ctx *cli.Context) error {
			// Log lines would draw over the UI.
			cfg, err := loadConfig(ctx, io.Discard)
			if err != nil {
				return err
			}
			req, err := requestFromFlags(ctx, cfg)
			if err != nil {
				return err
			}
			if _, err := cfg.Catalog().Resolve(req.Category); err != nil {
				return exitError(err)
			}

			p := tea.NewProgram(view.New(newAggregator(cfg), req), tea.WithAltScreen(), tea.WithContext(ctx.Context))
			_, err = p.Run()
			return err
		},
	}
}

func categoriesCmd() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List configured categories",
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx, nil)
			if err != nil {
				return err
			}
			for _, c := range cfg.Catalog().All() {
				fmt.Fprintf(ctx.App.Writer, "%-12s %-20s %d feeds\n", c.Name, c.Label, len(c.Feeds))
			}
			return nil
		},
	}
}
