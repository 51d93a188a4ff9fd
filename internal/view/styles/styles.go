// Package styles holds the lipgloss styles shared by the terminal views.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	ColorPrimary    = lipgloss.Color("62")  // Purple
	ColorTextMuted  = lipgloss.Color("241") // Gray
	ColorDim        = lipgloss.Color("240") // Darker gray
	ColorHighlight  = lipgloss.Color("212") // Pink
	ColorAccentBlue = lipgloss.Color("75")
	ColorError      = lipgloss.Color("196")
)

// Header is the top bar.
var Header = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(ColorPrimary).
	Padding(0, 1)

// ItemSelected for the row under the cursor.
var ItemSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("237"))

// ItemNormal for every other row.
var ItemNormal = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// SourceBadge for feed name badges.
var SourceBadge = lipgloss.NewStyle().
	Foreground(ColorAccentBlue)

// TimeStamp for relative ages.
var TimeStamp = lipgloss.NewStyle().
	Foreground(ColorTextMuted)

// Link for article URLs.
var Link = lipgloss.NewStyle().
	Foreground(ColorDim).
	Underline(true)

// Description for article summaries.
var Description = lipgloss.NewStyle().
	Foreground(ColorTextMuted).
	PaddingLeft(2)

// StatusBar is the bottom bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// Spinner colors the loading indicator.
var Spinner = lipgloss.NewStyle().
	Foreground(ColorHighlight)

// Error for failures.
var Error = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// Help for hints and empty states.
var Help = lipgloss.NewStyle().
	Foreground(ColorDim).
	Padding(1, 2)

// Truncate shortens s to at most n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
