// Package aggregate fans a category out to its feed endpoints and merges the
// results into a single ranked response.
package aggregate

//go:generate mockgen -source=aggregator.go -destination=../mocks/mock_aggregate.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/filter"
	"github.com/abelbrown/roundup/internal/logging"
	"github.com/abelbrown/roundup/internal/metrics"
	"github.com/abelbrown/roundup/internal/ranking"
)

// DefaultConcurrency limits parallel fetches within one aggregation.
const DefaultConcurrency = 8

// DefaultFetchTimeout bounds each individual fetch.
const DefaultFetchTimeout = 15 * time.Second

// Fetcher retrieves and normalizes a single endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) ([]feeds.Article, error)
}

// Resolver maps a category name to its endpoints.
type Resolver interface {
	Resolve(category string) ([]string, error)
}

// Config tunes an Aggregator. Zero values select the defaults;
// a negative Concurrency removes the cap.
type Config struct {
	Concurrency  int
	FetchTimeout time.Duration
}

// Aggregator runs request-scoped aggregations. It holds no state between
// calls and is safe for concurrent use.
type Aggregator struct {
	resolver     Resolver
	fetcher      Fetcher
	concurrency  int
	fetchTimeout time.Duration
}

// New creates an Aggregator over an immutable endpoint set.
func New(resolver Resolver, fetcher Fetcher, cfg Config) *Aggregator {
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &Aggregator{
		resolver:     resolver,
		fetcher:      fetcher,
		concurrency:  cfg.Concurrency,
		fetchTimeout: cfg.FetchTimeout,
	}
}

// outcome is what one fetch task leaves in its slot.
type outcome struct {
	articles []feeds.Article
	err      *feeds.SourceError
}

// Aggregate resolves req.Category, fetches every endpoint concurrently and
// builds the result. The only error it returns is the resolver's (an invalid
// category); per-source failures end up in Result.Errors.
func (a *Aggregator) Aggregate(ctx context.Context, req feeds.Request) (*feeds.Result, error) {
	start := time.Now()

	endpoints, err := a.resolver.Resolve(req.Category)
	if err != nil {
		metrics.RecordInvalidCategory()
		logging.Warn("Rejected aggregation", "category", req.Category, "error", err)
		return nil, err
	}

	outcomes := a.fetchAll(ctx, req.Category, endpoints)

	merged, sourceErrors := merge(outcomes)
	filtered := filter.ByKeywords(merged, req.Keywords)
	page := ranking.Truncate(ranking.Sort(filtered, req.SortBy), req.Limit)

	result := &feeds.Result{
		Category:         req.Category,
		TotalFetched:     len(merged),
		TotalAfterFilter: len(filtered),
		Returned:         len(page),
		Articles:         page,
		Errors:           sourceErrors,
	}

	metrics.RecordAggregate(metrics.Outcome(len(endpoints), len(sourceErrors)), result.Returned)
	logging.Info("Aggregation complete",
		"category", req.Category,
		"sources", len(endpoints),
		"failed", len(sourceErrors),
		"fetched", result.TotalFetched,
		"filtered", result.TotalAfterFilter,
		"returned", result.Returned,
		"duration", time.Since(start))

	return result, nil
}

// fetchAll fetches all endpoints in parallel and waits for every one of them.
// Each task writes only its own slot, so no locking is needed.
func (a *Aggregator) fetchAll(ctx context.Context, category string, endpoints []string) []outcome {
	outcomes := make([]outcome, len(endpoints))

	var g errgroup.Group
	g.SetLimit(a.concurrency)

	for i, endpoint := range endpoints {
		g.Go(func() error {
			outcomes[i] = a.fetchOne(ctx, category, endpoint)
			return nil // never fail the group - errors reported per-source
		})
	}

	_ = g.Wait()
	return outcomes
}

// fetchOne fetches a single endpoint with timeout. A panicking fetcher is
// turned into a SourceError for this endpoint only.
func (a *Aggregator) fetchOne(ctx context.Context, category, endpoint string) (out outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = outcome{err: &feeds.SourceError{Endpoint: endpoint, Message: fmt.Sprintf("panic: %v", r)}}
		}
		metrics.RecordFetch(category, out.err == nil, time.Since(start).Seconds())
		if out.err != nil {
			logging.Warn("Fetch failed", "category", category, "endpoint", endpoint, "error", out.err.Message)
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	articles, err := a.fetcher.Fetch(fetchCtx, endpoint)
	if err != nil {
		return outcome{err: toSourceError(endpoint, err)}
	}
	logging.Debug("Fetched feed", "category", category, "endpoint", endpoint, "articles", len(articles))
	return outcome{articles: articles}
}

// merge concatenates successful results and collects failures, both in
// endpoint order.
func merge(outcomes []outcome) ([]feeds.Article, []feeds.SourceError) {
	total := 0
	for _, o := range outcomes {
		total += len(o.articles)
	}

	articles := make([]feeds.Article, 0, total)
	errs := make([]feeds.SourceError, 0)
	for _, o := range outcomes {
		if o.err != nil {
			errs = append(errs, *o.err)
			continue
		}
		articles = append(articles, o.articles...)
	}
	return articles, errs
}

func toSourceError(endpoint string, err error) *feeds.SourceError {
	var se *feeds.SourceError
	if errors.As(err, &se) {
		out := *se
		if out.Endpoint == "" {
			out.Endpoint = endpoint
		}
		return &out
	}
	return &feeds.SourceError{Endpoint: endpoint, Message: err.Error()}
}
