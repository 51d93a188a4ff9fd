// Package catalog resolves category names to the feed endpoints configured for them.
//
// A Catalog is immutable once built; New copies its input so callers cannot
// mutate the endpoint set behind an Aggregator's back.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// ErrInvalidCategory is matched by every *InvalidCategoryError via errors.Is.
var ErrInvalidCategory = errors.New("invalid category")

// InvalidCategoryError reports a category that is not configured,
// along with the categories that are.
type InvalidCategoryError struct {
	Category string
	Valid    []string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("category '%s' not found. Available: %s", e.Category, strings.Join(e.Valid, ", "))
}

func (e *InvalidCategoryError) Is(target error) bool {
	return target == ErrInvalidCategory
}

// Category is one configured category.
type Category struct {
	Name  string
	Label string
	Feeds []string
}

// Catalog is a read-only mapping from category name to feed URLs.
type Catalog struct {
	categories map[string]Category
}

// New builds a Catalog from categories. Later duplicates of a name win.
func New(categories []Category) *Catalog {
	c := &Catalog{categories: make(map[string]Category, len(categories))}
	for _, cat := range categories {
		c.categories[cat.Name] = Category{
			Name:  cat.Name,
			Label: cat.Label,
			Feeds: slices.Clone(cat.Feeds),
		}
	}
	return c
}

// FromMap builds a Catalog without labels.
func FromMap(m map[string][]string) *Catalog {
	cats := make([]Category, 0, len(m))
	for name, urls := range m {
		cats = append(cats, Category{Name: name, Feeds: urls})
	}
	return New(cats)
}

// Resolve returns the feed URLs for category.
// The returned slice is a copy.
func (c *Catalog) Resolve(category string) ([]string, error) {
	cat, ok := c.categories[category]
	if !ok {
		return nil, &InvalidCategoryError{Category: category, Valid: c.Categories()}
	}
	return slices.Clone(cat.Feeds), nil
}

// Categories returns the configured category names in sorted order.
func (c *Catalog) Categories() []string {
	names := lo.Keys(c.categories)
	slices.Sort(names)
	return names
}

// Label returns the display label for category, or the name itself.
func (c *Catalog) Label(category string) string {
	if cat, ok := c.categories[category]; ok && cat.Label != "" {
		return cat.Label
	}
	return category
}

// All returns every category sorted by name.
func (c *Catalog) All() []Category {
	return lo.Map(c.Categories(), func(name string, _ int) Category {
		cat := c.categories[name]
		return Category{Name: cat.Name, Label: c.Label(name), Feeds: slices.Clone(cat.Feeds)}
	})
}

// Default returns the stock category set.
func Default() *Catalog {
	return New(DefaultCategories())
}

// DefaultCategories returns the stock endpoint set.
func DefaultCategories() []Category {
	return []Category{
		{
			Name:  "tech",
			Label: "Technology",
			Feeds: []string{
				"https://feeds.arstechnica.com/arstechnica/index",
				"https://news.ycombinator.com/rss",
				"https://www.theverge.com/rss/index.xml",
				"https://feeds.wired.com/wired/index",
			},
		},
		{
			Name:  "business",
			Label: "Business",
			Feeds: []string{
				"https://feeds.bloomberg.com/markets/news.rss",
				"https://feeds.reuters.com/reuters/businessNews",
				"https://feeds.cnbc.com/id/100003114/device/rss/rss.html",
			},
		},
		{
			Name:  "science",
			Label: "Science",
			Feeds: []string{
				"https://feeds.nature.com/nature/rss/current",
				"https://www.sciencedaily.com/rss/all.xml",
				"https://feeds.arstechnica.com/arstechnica/science",
			},
		},
		{
			Name:  "health",
			Label: "Health",
			Feeds: []string{
				"https://feeds.health.com/health.xml",
				"https://feeds.webmd.com/webmd_health",
			},
		},
	}
}
