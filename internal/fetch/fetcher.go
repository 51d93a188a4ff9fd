// Package fetch retrieves a single feed endpoint and normalizes its entries.
//
// A Fetcher never lets a failure escape as anything other than a
// *feeds.SourceError: transport errors, bad status codes, malformed
// documents and parser panics are all contained here.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/roundup/internal/feeds"
)

// DefaultUserAgent is sent with every feed request unless overridden.
const DefaultUserAgent = "roundup/1.0 (+https://github.com/abelbrown/roundup)"

// DefaultMaxBodyBytes caps how much of a response body is handed to the parser.
const DefaultMaxBodyBytes int64 = 10 << 20

// Fetcher retrieves and normalizes one feed at a time. Safe for concurrent use.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	now          func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodyBytes overrides the response body cap. n <= 0 keeps the default.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithClock overrides the fetch-time source used for missing dates.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFetcher creates a Fetcher whose HTTP client gives up after timeout.
func NewFetcher(timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves endpoint and returns its normalized articles.
// A non-nil error is always a *feeds.SourceError. A feed with no entries
// yields an empty slice and no error.
func (f *Fetcher) Fetch(ctx context.Context, endpoint string) (articles []feeds.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			err = &feeds.SourceError{Endpoint: endpoint, Message: fmt.Sprintf("panic while reading feed: %v", r)}
		}
	}()

	if ctx.Err() != nil {
		return nil, sourceError(endpoint, ctx.Err())
	}

	feed, err := f.retrieve(ctx, endpoint)
	if err != nil {
		return nil, sourceError(endpoint, err)
	}

	fetchedAt := f.now()
	articles = make([]feeds.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		article := Normalize(FromGofeed(item), feed.Title, fetchedAt)
		article.Endpoint = endpoint
		articles = append(articles, article)
	}

	return articles, nil
}

func (f *Fetcher) retrieve(ctx context.Context, endpoint string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	parser := gofeed.NewParser()
	feed, err := parser.Parse(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return feed, nil
}

func sourceError(endpoint string, err error) *feeds.SourceError {
	return &feeds.SourceError{Endpoint: endpoint, Message: err.Error()}
}
