package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	c := FromMap(map[string][]string{
		"tech":    {"http://a.example/rss", "http://b.example/rss"},
		"science": {"http://c.example/rss"},
	})

	urls, err := c.Resolve("tech")
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.example/rss", "http://b.example/rss"}, urls)
}

func TestResolveUnknownCategory(t *testing.T) {
	c := FromMap(map[string][]string{
		"tech":    {"http://a.example/rss"},
		"science": {"http://c.example/rss"},
		"health":  {"http://d.example/rss"},
	})

	urls, err := c.Resolve("unknown")
	require.Error(t, err)
	assert.Nil(t, urls)
	assert.True(t, errors.Is(err, ErrInvalidCategory))

	var invalid *InvalidCategoryError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "unknown", invalid.Category)
	assert.Equal(t, []string{"health", "science", "tech"}, invalid.Valid)
	assert.Contains(t, err.Error(), "unknown")
	assert.Contains(t, err.Error(), "health, science, tech")
}

func TestCatalogIsImmutable(t *testing.T) {
	feeds := []string{"http://a.example/rss"}
	c := New([]Category{{Name: "tech", Feeds: feeds}})

	// Mutating the input after construction must not leak in
	feeds[0] = "http://evil.example/rss"

	urls, err := c.Resolve("tech")
	require.NoError(t, err)
	assert.Equal(t, "http://a.example/rss", urls[0])

	// Nor must mutating a resolved slice
	urls[0] = "http://evil.example/rss"
	again, _ := c.Resolve("tech")
	assert.Equal(t, "http://a.example/rss", again[0])
}

func TestLabel(t *testing.T) {
	c := New([]Category{
		{Name: "tech", Label: "Technology", Feeds: []string{"x"}},
		{Name: "misc", Feeds: []string{"y"}},
	})

	assert.Equal(t, "Technology", c.Label("tech"))
	assert.Equal(t, "misc", c.Label("misc"))
	assert.Equal(t, "nope", c.Label("nope"))
}

func TestAllSorted(t *testing.T) {
	c := Default()
	all := c.All()

	require.Len(t, all, 4)
	assert.Equal(t, "business", all[0].Name)
	assert.Equal(t, "Business", all[0].Label)
	assert.Equal(t, "tech", all[3].Name)
}

func TestDefaultCategories(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"business", "health", "science", "tech"}, c.Categories())
	for _, cat := range DefaultCategories() {
		assert.NotEmpty(t, cat.Label, "category %s has no label", cat.Name)
		assert.NotEmpty(t, cat.Feeds, "category %s has no feeds", cat.Name)
	}

	tech, err := c.Resolve("tech")
	require.NoError(t, err)
	assert.Len(t, tech, 4)
}
