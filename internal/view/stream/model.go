// Package stream provides the scrollable article list.
package stream

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/roundup/internal/feeds"
	"github.com/abelbrown/roundup/internal/view/styles"
)

// Model is the stream view model.
type Model struct {
	articles []feeds.Article
	cursor   int
	width    int
	height   int
	viewport int // Index of first visible article
	now      func() time.Time
}

// New creates a new stream model.
func New() Model {
	return Model{now: time.Now}
}

// SetArticles replaces the list and moves the cursor to the top.
func (m *Model) SetArticles(articles []feeds.Article) {
	m.articles = articles
	m.cursor = 0
	m.viewport = 0
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// SetClock overrides the time source used for ages.
func (m *Model) SetClock(now func() time.Time) {
	m.now = now
}

// Articles returns the current articles.
func (m Model) Articles() []feeds.Article {
	return m.articles
}

// Selected returns the article under the cursor.
func (m Model) Selected() (feeds.Article, bool) {
	if m.cursor >= 0 && m.cursor < len(m.articles) {
		return m.articles[m.cursor], true
	}
	return feeds.Article{}, false
}

// Cursor returns the current cursor position.
func (m Model) Cursor() int {
	return m.cursor
}

// Update handles navigation keys.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.articles)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.PageUp):
			m.cursor = max(0, m.cursor-m.visibleRows())
		case key.Matches(msg, keys.PageDown):
			m.cursor = max(0, min(len(m.articles)-1, m.cursor+m.visibleRows()))
		case key.Matches(msg, keys.Home):
			m.cursor = 0
		case key.Matches(msg, keys.End):
			m.cursor = max(0, len(m.articles)-1)
		}
	}

	m.ensureCursorVisible()
	return m, nil
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor < m.viewport {
		m.viewport = m.cursor
	}
	if m.cursor >= m.viewport+visible {
		m.viewport = m.cursor - visible + 1
	}
}

// visibleRows is how many articles fit; each takes two lines.
func (m Model) visibleRows() int {
	if m.height <= 0 {
		return 10
	}
	return max(1, m.height/2)
}

// View renders the visible window of the list.
func (m Model) View() string {
	if len(m.articles) == 0 {
		return styles.Help.Render("No articles.")
	}

	var b strings.Builder
	end := min(m.viewport+m.visibleRows(), len(m.articles))
	for i := m.viewport; i < end; i++ {
		b.WriteString(m.renderArticle(m.articles[i], i == m.cursor))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderArticle(a feeds.Article, selected bool) string {
	badge := styles.SourceBadge.Render(fmt.Sprintf("[%s]", styles.Truncate(a.Source, 16)))
	age := styles.TimeStamp.Render(FormatAge(m.now().Sub(a.PublishedAt)))

	width := m.width
	if width <= 0 {
		width = 100
	}
	title := styles.Truncate(a.Title, max(20, width-30))

	row := fmt.Sprintf("%s %s  %s", badge, title, age)
	if selected {
		row = styles.ItemSelected.Render("> " + row)
	} else {
		row = styles.ItemNormal.Render("  " + row)
	}
	desc := styles.Description.Render(styles.Truncate(a.Description, max(20, width-6)))
	return row + "\n" + desc
}

// FormatAge returns a human-readable age string.
func FormatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

var keys = struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
}{
	Up:       key.NewBinding(key.WithKeys("up", "k")),
	Down:     key.NewBinding(key.WithKeys("down", "j")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
	Home:     key.NewBinding(key.WithKeys("home", "g")),
	End:      key.NewBinding(key.WithKeys("end", "G")),
}
