package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "235", Dark: "252"})

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "231", Dark: "231"}).
			Background(lipgloss.AdaptiveColor{Light: "61", Dark: "61"})

	completedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)

	lockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "94", Dark: "179"})

	mutedStyle = lipgloss.NewStyle().Faint(true)

	flashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})

	dividerStyle = lipgloss.NewStyle().Faint(true)
)

var (
	notesRendererMu sync.Mutex
	notesRenderers  = map[int]*glamour.TermRenderer{}
)

// renderNotes renders markdown notes for the side panel. Renderers are cached
// by wrap width; style follows the terminal background instead of
// WithAutoStyle, which can block on terminal queries.
func renderNotes(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	notesRendererMu.Lock()
	r := notesRenderers[width]
	if r == nil {
		style := "light"
		if termenv.HasDarkBackground() {
			style = "dark"
		}
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			notesRenderers[width] = rr
			r = rr
		}
	}
	notesRendererMu.Unlock()
	if r == nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
