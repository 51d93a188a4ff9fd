// Package filter provides pure filter functions for articles.
// All functions are simple: []Article in, []Article out. No side effects.
package filter

import (
	"strings"

	"github.com/abelbrown/roundup/internal/feeds"
)

// ParseKeywords splits a comma-separated keyword list as sent by clients.
// Blank entries survive here and are dropped by NormalizeKeywords.
func ParseKeywords(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// NormalizeKeywords trims and lower-cases keywords, dropping blank ones.
func NormalizeKeywords(keywords []string) []string {
	result := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			result = append(result, k)
		}
	}
	return result
}

// ByKeywords keeps articles whose title or description contains at least one
// keyword, case-insensitively. Content is not searched. With no usable
// keywords the input is returned unchanged.
func ByKeywords(articles []feeds.Article, keywords []string) []feeds.Article {
	needles := NormalizeKeywords(keywords)
	if len(needles) == 0 {
		return articles
	}

	result := make([]feeds.Article, 0, len(articles))
	for _, a := range articles {
		if matchesAny(searchText(a), needles) {
			result = append(result, a)
		}
	}
	return result
}

func searchText(a feeds.Article) string {
	return strings.ToLower(a.Title + " " + a.Description)
}

func matchesAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
