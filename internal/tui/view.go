package tui

import (
	"fmt"
	"strings"

	"arbor-cli/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

const notesPanelHeight = 8

func (m *appModel) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	listHeight := height - 2 // header + status line
	if m.showNotes {
		listHeight -= notesPanelHeight
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.clampScroll(listHeight)

	var b strings.Builder
	b.WriteString(m.headerView(width))
	b.WriteByte('\n')

	end := m.top + listHeight
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.top; i < end; i++ {
		b.WriteString(m.rowView(i, width))
		b.WriteByte('\n')
	}
	for i := end - m.top; i < listHeight; i++ {
		b.WriteByte('\n')
	}

	if m.showNotes {
		b.WriteString(m.notesView(width))
	}
	b.WriteString(m.statusView(width))
	return b.String()
}

func (m *appModel) clampScroll(listHeight int) {
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+listHeight {
		m.top = m.cursor - listHeight + 1
	}
	if m.top < 0 {
		m.top = 0
	}
}

// rowAt maps a terminal line back to a row index, or -1 outside the list.
// Keep in sync with View: one header line above the list.
func (m *appModel) rowAt(y int) int {
	idx := m.top + y - 1
	if y < 1 || idx < 0 || idx >= len(m.rows) {
		return -1
	}
	return idx
}

func (m *appModel) headerView(width int) string {
	label := "arbor"
	if m.kind == model.KindTemplate {
		label = "arbor · templates"
	}
	counts := fmt.Sprintf("%d shown", len(m.rows))
	if n := m.sel.Len(); n > 0 {
		counts = fmt.Sprintf("%d shown · %d selected", len(m.rows), n)
	}
	gap := width - xansi.StringWidth(label) - xansi.StringWidth(counts)
	if gap < 1 {
		gap = 1
	}
	return headerStyle.Render(xansi.Truncate(label+strings.Repeat(" ", gap)+counts, width, ""))
}

func (m *appModel) rowView(i, width int) string {
	r := m.rows[i]
	id := r.Task.ID

	marker := "  "
	if i == m.cursor {
		marker = "› "
	}

	twirl := "  "
	if m.engine.HasChildren(m.kind, id) {
		if m.engine.IsExpanded(id) {
			twirl = "▾ "
		} else {
			twirl = "▸ "
		}
	}

	box := "[ ] "
	if r.Task.Completed {
		box = "[x] "
	}

	line := marker + strings.Repeat("  ", r.Depth) + twirl + box + r.Task.Name
	if r.Task.Locked {
		line += " ∗"
	}
	line = xansi.Truncate(line, width, "…")

	switch {
	case m.sel.IsSelected(id):
		return selectedStyle.Render(line)
	case r.Task.Completed || m.engine.HasCompletedAncestor(m.kind, id):
		return completedStyle.Render(line)
	case m.engine.InLockedThread(m.kind, id):
		return lockedStyle.Render(line)
	default:
		return line
	}
}

func (m *appModel) notesView(width int) string {
	var body string
	if id := m.cursorID(); id != "" {
		if t, ok := m.engine.Get(m.kind, id); ok {
			body = renderNotes(t.Notes, width-2)
		}
	}
	if strings.TrimSpace(body) == "" {
		body = mutedStyle.Render("(no notes)")
	}

	lines := strings.Split(body, "\n")
	if len(lines) > notesPanelHeight-1 {
		lines = lines[:notesPanelHeight-1]
	}
	for len(lines) < notesPanelHeight-1 {
		lines = append(lines, "")
	}
	for i, ln := range lines {
		lines[i] = xansi.Truncate(ln, width, "…")
	}
	return dividerStyle.Render(strings.Repeat("─", width)) + "\n" + strings.Join(lines, "\n") + "\n"
}

func (m *appModel) statusView(width int) string {
	if m.mode != inputNone {
		prompt := "add root: "
		if m.mode == inputAddChild {
			prompt = "add child: "
		}
		return xansi.Truncate(prompt+m.input.View(), width, "")
	}
	if m.flash != "" {
		return flashStyle.Render(xansi.Truncate(m.flash, width, "…"))
	}
	help := "space select · shift+↕ range · tab fold · c complete · d dup · ctrl+k/j move · a/A add · n notes · C clear · q quit"
	return mutedStyle.Render(xansi.Truncate(help, width, "…"))
}
