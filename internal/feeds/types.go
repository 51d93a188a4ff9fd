// Package feeds holds the request-scoped types that flow through an aggregation:
// raw parser entries, normalized articles, per-source errors, and the
// request/result pair.
package feeds

import (
	"fmt"
	"time"
)

// Placeholders used when a feed omits a required field.
const (
	UntitledPlaceholder = "Untitled"
	UnknownSource       = "Unknown Source"
)

// Entry is one raw item as handed over by the feed parser.
// Every field is optional; the zero value means the source did not supply it.
type Entry struct {
	Title          string
	Link           string
	ContentSnippet string // plain-text rendering of Content (or Description)
	Description    string
	Content        string // full HTML body, if any
	Published      *time.Time
	Updated        *time.Time
	Author         string
	Authors        []string
	GUID           string
	ImageURL       string
}

// Article is the canonical, normalized record.
// Title, Link, Description, PublishedAt, Source and GUID are always resolved.
type Article struct {
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
	Source      string // declared feed title
	Author      string // optional
	GUID        string
	ImageURL    string // optional
	Content     string // optional, presentation only
	Endpoint    string // feed URL the article was fetched from
}

// SourceError records one failed endpoint. It never aborts an aggregation.
type SourceError struct {
	Endpoint string
	Message  string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

// SortOrder selects the ordering of an aggregation result.
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder maps anything other than "title" to SortByDate.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortByTitle {
		return SortByTitle
	}
	return SortByDate
}

// Request describes one aggregation call.
type Request struct {
	Category string
	Keywords []string
	Limit    int
	SortBy   SortOrder
}

// Result is the outcome of one aggregation call.
type Result struct {
	Category         string
	TotalFetched     int
	TotalAfterFilter int
	Returned         int
	Articles         []Article
	Errors           []SourceError // never nil; empty means every source succeeded
}
