// Package ranking orders aggregated articles.
//
// Every ordering is a stable sort: articles that compare equal keep the
// order in which they were merged, so identical inputs always produce
// identical output.
package ranking

import (
	"slices"
	"strings"

	"github.com/abelbrown/roundup/internal/feeds"
)

// Ranker defines an ordering over articles.
type Ranker interface {
	// Name returns the sort order this ranker implements.
	Name() string

	// Compare returns a negative number when a sorts before b,
	// a positive number when after, and zero when they tie.
	Compare(a, b *feeds.Article) int
}

// DateRanker orders newest first.
type DateRanker struct{}

func (DateRanker) Name() string { return string(feeds.SortByDate) }

func (DateRanker) Compare(a, b *feeds.Article) int {
	return b.PublishedAt.Compare(a.PublishedAt)
}

// TitleRanker orders by title, ascending, comparing bytes (case-sensitive:
// "Zebra" sorts before "apple").
type TitleRanker struct{}

func (TitleRanker) Name() string { return string(feeds.SortByTitle) }

func (TitleRanker) Compare(a, b *feeds.Article) int {
	return strings.Compare(a.Title, b.Title)
}

// For returns the ranker for order. Unknown orders rank by date.
func For(order feeds.SortOrder) Ranker {
	if order == feeds.SortByTitle {
		return TitleRanker{}
	}
	return DateRanker{}
}

// Rank returns a sorted copy of articles. The input is not modified.
func Rank(articles []feeds.Article, r Ranker) []feeds.Article {
	sorted := slices.Clone(articles)
	if sorted == nil {
		sorted = []feeds.Article{}
	}
	slices.SortStableFunc(sorted, func(a, b feeds.Article) int {
		return r.Compare(&a, &b)
	})
	return sorted
}

// Sort ranks articles by the given order.
func Sort(articles []feeds.Article, order feeds.SortOrder) []feeds.Article {
	return Rank(articles, For(order))
}

// Truncate returns at most limit articles from the front. limit < 0 is treated as 0.
func Truncate(articles []feeds.Article, limit int) []feeds.Article {
	if limit < 0 {
		limit = 0
	}
	if limit >= len(articles) {
		return articles
	}
	return articles[:limit]
}

// TopN ranks articles and keeps the first n.
func TopN(articles []feeds.Article, n int, r Ranker) []feeds.Article {
	return Truncate(Rank(articles, r), n)
}
