package tui

import (
	"fmt"
	"strings"

	"arbor-cli/internal/forest"
	"arbor-cli/internal/selection"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m *appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.flash = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.rows) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}

	case " ":
		if id := m.cursorID(); id != "" {
			m.sel.Toggle(id, m.visibleIDs())
		}
	case "shift+up":
		if m.cursor > 0 {
			m.cursor--
			m.extendToCursor()
		}
	case "shift+down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.extendToCursor()
		}
	case "ctrl+a":
		m.sel.SelectAllVisible(m.visibleIDs())
	case "esc":
		m.sel.Clear()

	case "tab", "enter":
		if id := m.cursorID(); id != "" {
			m.engine.ToggleExpanded(m.kind, id)
			m.reload()
		}

	case "c":
		if ids := m.targetIDs(); len(ids) > 0 {
			m.fallible(m.engine.ToggleCompletion(m.kind, ids...))
		}

	case "d":
		if ids := m.targetIDs(); len(ids) > 0 {
			_, err := m.engine.DuplicateSelection(m.kind, ids)
			m.fallible(err)
		}

	case "backspace", "delete":
		if ids := m.targetIDs(); len(ids) > 0 {
			_, err := m.engine.Delete(m.kind, ids...)
			m.fallible(err)
			m.sel.Clear()
		}

	case "ctrl+k":
		m.moveTargets(forest.DirUp)
	case "ctrl+j":
		m.moveTargets(forest.DirDown)

	case "a":
		m.mode = inputAddRoot
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "A":
		if m.cursorID() != "" {
			m.mode = inputAddChild
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}

	case "n":
		m.showNotes = !m.showNotes

	case "C":
		n, err := m.engine.ClearCompleted(m.kind, true)
		if err == nil && n > 0 {
			m.flash = fmt.Sprintf("cleared %d", n)
		}
		m.fallible(err)
		m.sel.Clear()
	}
	return m, nil
}

func (m *appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		if name == "" {
			return m, nil
		}
		var parentID *string
		if mode == inputAddChild {
			if id := m.cursorID(); id != "" {
				pid := id
				parentID = &pid
				m.engine.SetExpanded(m.kind, []string{id}, true)
			}
		}
		t, err := m.engine.Insert(name, parentID, m.kind)
		m.fallible(err)
		if err == nil {
			m.reload()
			m.moveCursorTo(t.ID)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		idx := m.rowAt(msg.Y)
		if idx < 0 {
			return m, nil
		}
		m.cursor = idx
		id := m.rows[idx].Task.ID
		if msg.Shift {
			m.sel.Extend(id, m.visibleIDs())
			return m, nil
		}
		m.dragStartID = id
		m.dragStartY = msg.Y
		m.sel.BeginShift(id)

	case tea.MouseActionMotion:
		if !m.sel.Dragging() || m.dragStartID == "" {
			return m, nil
		}
		// Rows are one cell tall. The walk stops once the accumulated height
		// covers the offset, so nudge past the boundary to land on the cell
		// the pointer is actually over.
		dy := msg.Y - m.dragStartY
		switch {
		case dy > 0:
			dy++
		case dy < 0:
			dy--
		}
		target := selection.ResolveDragTarget(m.dragStartID, dy, m.visibleIDs(), nil, 1)
		m.sel.UpdateShift(target, m.visibleIDs())
		m.moveCursorTo(target)

	case tea.MouseActionRelease:
		m.sel.EndShift()
		m.dragStartID = ""
	}
	return m, nil
}

func (m *appModel) extendToCursor() {
	if id := m.cursorID(); id != "" {
		m.sel.Extend(id, m.visibleIDs())
	}
}

func (m *appModel) moveTargets(dir forest.Direction) {
	ids := m.targetIDs()
	if len(ids) == 0 {
		return
	}
	keep := m.cursorID()
	var err error
	if len(ids) == 1 {
		_, err = m.engine.MoveItem(m.kind, ids[0], dir)
	} else {
		_, err = m.engine.MoveSelected(m.kind, ids, dir)
	}
	m.fallible(err)
	if err == nil {
		m.reload()
		m.moveCursorTo(keep)
	}
}

// fallible records an operation error in the flash line and refreshes the
// visible rows either way; the engine invalidates its caches even on failure.
func (m *appModel) fallible(err error) {
	if err != nil {
		m.flash = err.Error()
	}
	m.reload()
}
