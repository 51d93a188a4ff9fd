// Package envelope shapes aggregation results for the wire.
package envelope

import (
	"time"

	"github.com/samber/lo"

	"github.com/abelbrown/roundup/internal/catalog"
	"github.com/abelbrown/roundup/internal/feeds"
)

// Article is the JSON form of feeds.Article.
type Article struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	Source      string `json:"source"`
	Author      string `json:"author,omitempty"`
	GUID        string `json:"guid"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// SourceError is the JSON form of feeds.SourceError.
type SourceError struct {
	Endpoint string `json:"endpoint"`
	Message  string `json:"message"`
}

// Response is the success body of an aggregation.
type Response struct {
	Category         string        `json:"category"`
	TotalFetched     int           `json:"totalFetched"`
	TotalAfterFilter int           `json:"totalAfterFilter"`
	Returned         int           `json:"returned"`
	Articles         []Article     `json:"articles"`
	Errors           []SourceError `json:"errors"`
}

// ErrorResponse is the body sent when a request is rejected.
type ErrorResponse struct {
	Error               string   `json:"error"`
	Category            string   `json:"category,omitempty"`
	AvailableCategories []string `json:"availableCategories,omitempty"`
}

// Build converts r. Articles and Errors are always non-nil so they
// serialize as arrays.
func Build(r *feeds.Result) Response {
	if r == nil {
		return Response{Articles: []Article{}, Errors: []SourceError{}}
	}
	return Response{
		Category:         r.Category,
		TotalFetched:     r.TotalFetched,
		TotalAfterFilter: r.TotalAfterFilter,
		Returned:         r.Returned,
		Articles: lo.Map(r.Articles, func(a feeds.Article, _ int) Article {
			return FromArticle(a)
		}),
		Errors: lo.Map(r.Errors, func(e feeds.SourceError, _ int) SourceError {
			return SourceError{Endpoint: e.Endpoint, Message: e.Message}
		}),
	}
}

// FromArticle converts a single article. Timestamps are RFC 3339 in UTC.
func FromArticle(a feeds.Article) Article {
	return Article{
		Title:       a.Title,
		Link:        a.Link,
		Description: a.Description,
		PublishedAt: a.PublishedAt.UTC().Format(time.RFC3339),
		Source:      a.Source,
		Author:      a.Author,
		GUID:        a.GUID,
		ImageURL:    a.ImageURL,
	}
}

// Invalid builds the rejection body for an unknown category.
func Invalid(err *catalog.InvalidCategoryError) ErrorResponse {
	return ErrorResponse{
		Error:               err.Error(),
		Category:            err.Category,
		AvailableCategories: append([]string{}, err.Valid...),
	}
}

// Message builds a rejection body carrying only a message.
func Message(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Stats summarizes a result for terminal output.
type Stats struct {
	Fetched  int
	Filtered int
	Returned int
	Failed   int
	// BySource counts returned articles per feed title.
	BySource map[string]int
}

// Summarize computes Stats for r.
func Summarize(r *feeds.Result) Stats {
	if r == nil {
		return Stats{BySource: map[string]int{}}
	}
	return Stats{
		Fetched:  r.TotalFetched,
		Filtered: r.TotalAfterFilter,
		Returned: r.Returned,
		Failed:   len(r.Errors),
		BySource: lo.CountValuesBy(r.Articles, func(a feeds.Article) string { return a.Source }),
	}
}
