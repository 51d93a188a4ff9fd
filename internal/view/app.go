// Package view provides the terminal presentation of aggregation results.
//
// Model is the interactive browser used by `roundup browse`. It runs one
// aggregation at a time in a tea.Cmd and renders the merged list with a
// spinner while a run is in flight. Render is the non-interactive form used
// by `roundup fetch`.
package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/roundup/internal/catalog"
	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/view/stream"
	"github.com/abelbrown/roundup/internal/view/styles"
)

// Aggregator runs a single aggregation.
type Aggregator interface {
	Aggregate(ctx context.Context, req feeds.Request) (*feeds.Result, error)
}

// Model is the root Bubble Tea model for the browser.
type Model struct {
	agg Aggregator
	req feeds.Request

	streamView stream.Model

	width     int
	height    int
	spinner   spinner.Model
	loading   bool
	statusMsg string
	result    *feeds.Result
	err       error

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a browser that aggregates req.
func New(agg Aggregator, req feeds.Request) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		agg:        agg,
		req:        req,
		streamView: stream.New(),
		spinner:    s,
		loading:    true,
		statusMsg:  "Fetching feeds...",
		ctx:        ctx,
		cancel:     cancel,
	}
}

// resultMsg carries a finished aggregation back to Update.
type resultMsg struct {
	result *feeds.Result
	err    error
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.aggregate())
}

func (m Model) aggregate() tea.Cmd {
	agg, ctx, req := m.agg, m.ctx, m.req
	return func() tea.Msg {
		res, err := agg.Aggregate(ctx, req)
		return resultMsg{result: res, err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.streamView.SetSize(msg.Width, msg.Height-2) // header + status

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			if !m.loading {
				return m.refetch("Refreshing...")
			}
		case key.Matches(msg, keys.Sort):
			if !m.loading {
				m.req.SortBy = toggle(m.req.SortBy)
				return m.refetch(fmt.Sprintf("Sorting by %s...", m.req.SortBy))
			}
		case key.Matches(msg, keys.Open):
			if a, ok := m.streamView.Selected(); ok {
				if a.Link != "" {
					m.statusMsg = a.Link
				} else {
					m.statusMsg = "No link for this article"
				}
			}
		default:
			var cmd tea.Cmd
			m.streamView, cmd = m.streamView.Update(msg)
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case resultMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.statusMsg = describeError(msg.err)
			break
		}
		m.result = msg.result
		m.streamView.SetArticles(msg.result.Articles)
		m.statusMsg = summary(msg.result)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) refetch(status string) (tea.Model, tea.Cmd) {
	m.loading = true
	m.statusMsg = status
	return m, tea.Batch(m.spinner.Tick, m.aggregate())
}

func toggle(order feeds.SortOrder) feeds.SortOrder {
	if order == feeds.SortByTitle {
		return feeds.SortByDate
	}
	return feeds.SortByTitle
}

func describeError(err error) string {
	var invalid *catalog.InvalidCategoryError
	if errors.As(err, &invalid) {
		return fmt.Sprintf("Unknown category %q (available: %s)", invalid.Category, strings.Join(invalid.Valid, ", "))
	}
	return fmt.Sprintf("Error: %v", err)
}

func summary(r *feeds.Result) string {
	s := fmt.Sprintf("%d of %d articles", r.Returned, r.TotalAfterFilter)
	if n := len(r.Errors); n > 0 {
		s += fmt.Sprintf(" │ %d feeds failed", n)
	}
	return s
}

// Loading reports whether an aggregation is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.statusMsg
}

// Request returns the request the next refresh will run.
func (m Model) Request() feeds.Request {
	return m.req
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.loading && m.result == nil:
		b.WriteString(styles.Help.Render(m.spinner.View() + " " + m.statusMsg))
	case m.err != nil && m.result == nil:
		b.WriteString(styles.Error.Render(m.statusMsg))
	default:
		b.WriteString(m.streamView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	left := fmt.Sprintf("ROUNDUP │ %s │ sort: %s", m.req.Category, m.req.SortBy)
	if len(m.req.Keywords) > 0 {
		left += " │ " + strings.Join(m.req.Keywords, ",")
	}

	right := ""
	if m.loading {
		right = m.spinner.View()
	}

	padding := max(0, m.width-len(left)-len(right)-4)
	return styles.Header.Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderStatusBar() string {
	help := "j/k: navigate  o: link  s: sort  r: refresh  q: quit"
	return styles.StatusBar.Render(fmt.Sprintf("%s │ %s", m.statusMsg, help))
}

var keys = struct {
	Quit    key.Binding
	Refresh key.Binding
	Sort    key.Binding
	Open    key.Binding
}{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Refresh: key.NewBinding(key.WithKeys("r")),
	Sort:    key.NewBinding(key.WithKeys("s")),
	Open:    key.NewBinding(key.WithKeys("o", "enter")),
}
