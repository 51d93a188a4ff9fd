package view

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/abelbrown/roundup/internal/envelope"
	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/view/stream"
	"github.com/abelbrown/roundup/internal/view/styles"
)

// Render writes a one-shot listing of r to w.
func Render(w io.Writer, r *feeds.Result, now time.Time) error {
	var b strings.Builder

	b.WriteString(styles.Header.Render(fmt.Sprintf("ROUNDUP │ %s", r.Category)))
	b.WriteString("\n\n")

	if len(r.Articles) == 0 {
		b.WriteString(styles.Help.Render("No articles."))
		b.WriteString("\n")
	}
	for i, a := range r.Articles {
		fmt.Fprintf(&b, "%2d. %s %s  %s\n",
			i+1,
			styles.SourceBadge.Render("["+a.Source+"]"),
			a.Title,
			styles.TimeStamp.Render(stream.FormatAge(now.Sub(a.PublishedAt))))
		if a.Link != "" {
			b.WriteString("    " + styles.Link.Render(a.Link) + "\n")
		}
		if a.Description != "" {
			b.WriteString(styles.Description.Render(styles.Truncate(a.Description, 160)) + "\n")
		}
	}

	stats := envelope.Summarize(r)
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d fetched, %d matched, %d shown", stats.Fetched, stats.Filtered, stats.Returned)
	if len(stats.BySource) > 0 {
		sources := lo.Keys(stats.BySource)
		slices.Sort(sources)
		parts := lo.Map(sources, func(s string, _ int) string {
			return fmt.Sprintf("%s %d", s, stats.BySource[s])
		})
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	b.WriteString("\n")

	for _, e := range r.Errors {
		b.WriteString(styles.Error.Render("failed: ") + e.Endpoint + ": " + e.Message + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
