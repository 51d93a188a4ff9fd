package fetch

import (
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/roundup/internal/feeds"
)

// newToken generates the last-resort GUID. Replaced in tests.
var newToken = uuid.NewString

// snippetPolicy strips all markup. bluemonday policies are safe for concurrent use.
var snippetPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Normalize turns a raw entry into an Article. It never fails: every required
// field falls through an ordered list of candidates and ends on a placeholder.
//
//	Title:       title, "Untitled"
//	Link:        link, ""
//	Description: content snippet, description, ""
//	PublishedAt: published, updated, fetchedAt
//	Source:      sourceTitle, "Unknown Source"
//	Author:      author, first of authors (optional)
//	GUID:        guid, link, random token
func Normalize(e feeds.Entry, sourceTitle string, fetchedAt time.Time) feeds.Article {
	link := strings.TrimSpace(e.Link)

	author := firstNonBlank(e.Author)
	if author == "" {
		author = firstNonBlank(e.Authors...)
	}

	guid := firstNonBlank(e.GUID, link)
	if guid == "" {
		guid = newToken()
	}

	return feeds.Article{
		Title:       firstNonBlank(e.Title, feeds.UntitledPlaceholder),
		Link:        link,
		Description: firstNonBlank(e.ContentSnippet, e.Description),
		PublishedAt: firstTime(fetchedAt, e.Published, e.Updated),
		Source:      firstNonBlank(sourceTitle, feeds.UnknownSource),
		Author:      author,
		GUID:        guid,
		ImageURL:    validImageURL(e.ImageURL),
		Content:     e.Content,
	}
}

// FromGofeed converts a parsed gofeed item into a raw Entry.
func FromGofeed(item *gofeed.Item) feeds.Entry {
	e := feeds.Entry{
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		Content:     item.Content,
		Published:   item.PublishedParsed,
		Updated:     item.UpdatedParsed,
		GUID:        item.GUID,
		ImageURL:    ExtractImageURL(item),
	}

	if e.Link == "" && len(item.Links) > 0 {
		e.Link = item.Links[0]
	}

	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	e.ContentSnippet = Snippet(body)

	if item.Author != nil {
		e.Author = item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			e.Authors = append(e.Authors, a.Name)
		}
	}

	return e
}

// Snippet renders HTML as a single line of plain text.
func Snippet(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	text := html.UnescapeString(snippetPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

func firstNonBlank(candidates ...string) string {
	for _, c := range candidates {
		if t := strings.TrimSpace(c); t != "" {
			return t
		}
	}
	return ""
}

func firstTime(fallback time.Time, candidates ...*time.Time) time.Time {
	for _, c := range candidates {
		if c != nil && !c.IsZero() {
			return *c
		}
	}
	return fallback
}
