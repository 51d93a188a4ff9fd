package view

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelbrown/roundup/internal/catalog"
	"github.com/abelbrown/roundup/internal/feeds"
)

type stubAggregator struct {
	calls  atomic.Int32
	result *feeds.Result
	err    error
	last   feeds.Request
}

func (s *stubAggregator) Aggregate(_ context.Context, req feeds.Request) (*feeds.Result, error) {
	s.calls.Add(1)
	s.last = req
	return s.result, s.err
}

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleResult() *feeds.Result {
	return &feeds.Result{
		Category:         "tech",
		TotalFetched:     4,
		TotalAfterFilter: 3,
		Returned:         2,
		Articles: []feeds.Article{
			{Title: "Alpha release", Link: "http://example.com/a", Description: "first", PublishedAt: now.Add(-2 * time.Hour), Source: "Ars"},
			{Title: "Beta notes", Link: "", Description: "second", PublishedAt: now.Add(-3 * 24 * time.Hour), Source: "Verge"},
		},
		Errors: []feeds.SourceError{{Endpoint: "http://bad/rss", Message: "HTTP error: 404 Not Found"}},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, agg *stubAggregator) Model {
	t.Helper()
	m := New(agg, feeds.Request{Category: "tech", Limit: 10, SortBy: feeds.SortByDate})
	require.True(t, m.Loading())

	msg := m.aggregate()()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestBrowseLoadsResult(t *testing.T) {
	agg := &stubAggregator{result: sampleResult()}
	m := loaded(t, agg)

	assert.False(t, m.Loading())
	assert.Equal(t, "2 of 3 articles │ 1 feeds failed", m.Status())
	assert.Contains(t, m.View(), "Alpha release")
	assert.Contains(t, m.View(), "Beta notes")
	assert.Equal(t, int32(1), agg.calls.Load())
}

func TestBrowseNavigationAndOpen(t *testing.T) {
	m := loaded(t, &stubAggregator{result: sampleResult()})

	updated, _ := m.Update(runes("o"))
	m = updated.(Model)
	assert.Equal(t, "http://example.com/a", m.Status())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	updated, _ = m.Update(runes("o"))
	m = updated.(Model)
	assert.Equal(t, "No link for this article", m.Status())

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	assert.Equal(t, 0, m.streamView.Cursor())
}

func TestBrowseToggleSortRefetches(t *testing.T) {
	agg := &stubAggregator{result: sampleResult()}
	m := loaded(t, agg)

	updated, cmd := m.Update(runes("s"))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.Loading())
	assert.Equal(t, feeds.SortByTitle, m.Request().SortBy)

	m.aggregate()()
	assert.Equal(t, feeds.SortByTitle, agg.last.SortBy)

	// Keys that start a run are ignored while one is in flight
	updated, _ = m.Update(runes("s"))
	assert.Equal(t, feeds.SortByTitle, updated.(Model).Request().SortBy)
}

func TestBrowseRefresh(t *testing.T) {
	m := loaded(t, &stubAggregator{result: sampleResult()})

	updated, cmd := m.Update(runes("r"))
	m = updated.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.Loading())
	assert.Equal(t, "Refreshing...", m.Status())
}

func TestBrowseInvalidCategory(t *testing.T) {
	agg := &stubAggregator{err: &catalog.InvalidCategoryError{Category: "sports", Valid: []string{"business", "tech"}}}
	m := loaded(t, agg)

	assert.False(t, m.Loading())
	assert.Equal(t, `Unknown category "sports" (available: business, tech)`, m.Status())
	assert.Contains(t, m.View(), "sports")
}

func TestBrowseOtherError(t *testing.T) {
	m := loaded(t, &stubAggregator{err: errors.New("boom")})
	assert.Equal(t, "Error: boom", m.Status())
}

func TestBrowseQuit(t *testing.T) {
	m := loaded(t, &stubAggregator{result: sampleResult()})

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Error(t, m.ctx.Err(), "quitting cancels in-flight aggregations")
}

func TestBrowseWindowSize(t *testing.T) {
	m := loaded(t, &stubAggregator{result: sampleResult()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	assert.Equal(t, 80, m.width)
	assert.Contains(t, m.View(), "ROUNDUP")
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), now))

	out := buf.String()
	assert.Contains(t, out, "Alpha release")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "3d ago")
	assert.Contains(t, out, "http://example.com/a")
	assert.Contains(t, out, "4 fetched, 3 matched, 2 shown")
	assert.Contains(t, out, "Ars 1, Verge 1")
	assert.Contains(t, out, "http://bad/rss: HTTP error: 404 Not Found")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &feeds.Result{Category: "tech"}, now))
	assert.Contains(t, buf.String(), "No articles.")
	assert.Contains(t, buf.String(), "0 fetched, 0 matched, 0 shown")
}
