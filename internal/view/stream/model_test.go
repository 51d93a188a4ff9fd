package stream

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/abelbrown/roundup/internal/feeds"
)

func articles(n int) []feeds.Article {
	out := make([]feeds.Article, n)
	for i := range out {
		out[i] = feeds.Article{Title: fmt.Sprintf("Article %02d", i), Source: "Src"}
	}
	return out
}

func press(m Model, k tea.KeyMsg) Model {
	m, _ = m.Update(k)
	return m
}

func TestCursorBounds(t *testing.T) {
	m := New()
	m.SetArticles(articles(3))

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())

	for i := 0; i < 5; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 2, m.Cursor())

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.Equal(t, 0, m.Cursor())
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.Equal(t, 2, m.Cursor())

	a, ok := m.Selected()
	assert.True(t, ok)
	assert.Equal(t, "Article 02", a.Title)
}

func TestEmptyList(t *testing.T) {
	m := New()
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 0, m.Cursor())

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "No articles.")
}

func TestSetArticlesResetsCursor(t *testing.T) {
	m := New()
	m.SetArticles(articles(5))
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m.SetArticles(articles(2))
	assert.Equal(t, 0, m.Cursor())
}

func TestViewportFollowsCursor(t *testing.T) {
	m := New()
	m.SetSize(80, 6) // three rows
	m.SetArticles(articles(10))

	for i := 0; i < 5; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	view := m.View()
	assert.Contains(t, view, "Article 05")
	assert.NotContains(t, view, "Article 00")

	m = press(m, tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 2, m.Cursor())
}

func TestViewUsesClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := New()
	m.SetClock(func() time.Time { return now })
	m.SetArticles([]feeds.Article{{Title: "Fresh", Source: "Src", PublishedAt: now.Add(-90 * time.Minute)}})

	assert.Contains(t, m.View(), "1h ago")
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "just now", FormatAge(10*time.Second))
	assert.Equal(t, "5m ago", FormatAge(5*time.Minute))
	assert.Equal(t, "3h ago", FormatAge(3*time.Hour))
	assert.Equal(t, "2d ago", FormatAge(49*time.Hour))
}
