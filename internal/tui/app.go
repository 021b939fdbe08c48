package tui

import (
	"arbor-cli/internal/forest"
	"arbor-cli/internal/model"
	"arbor-cli/internal/selection"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive outline over an already-opened engine. The caller
// owns the session lifecycle (UI-state persistence, backend teardown).
func Run(engine *forest.Engine, kind model.Kind) error {
	m := newAppModel(engine, kind)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

type inputMode int

const (
	inputNone inputMode = iota
	inputAddRoot
	inputAddChild
)

type appModel struct {
	engine *forest.Engine
	kind   model.Kind

	sel  *selection.Manager
	rows []forest.Row

	cursor int
	top    int
	width  int
	height int

	mode  inputMode
	input textinput.Model

	showNotes bool
	flash     string

	// Shift-drag state for mouse range selection.
	dragStartID string
	dragStartY  int
}

func newAppModel(engine *forest.Engine, kind model.Kind) *appModel {
	in := textinput.New()
	in.Placeholder = "Task name"
	in.CharLimit = 200

	m := &appModel{
		engine: engine,
		kind:   kind,
		sel:    selection.New(),
		input:  in,
	}
	m.reload()
	return m
}

func (m *appModel) Init() tea.Cmd { return nil }

func (m *appModel) reload() {
	m.rows = m.engine.VisibleFlattened(m.kind)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *appModel) visibleIDs() []string {
	ids := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		ids = append(ids, r.Task.ID)
	}
	return ids
}

func (m *appModel) cursorID() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].Task.ID
}

// targetIDs is what structural operations act on: the selection when there is
// one, otherwise the cursor row.
func (m *appModel) targetIDs() []string {
	if m.sel.Len() > 0 {
		return m.sel.Selected()
	}
	if id := m.cursorID(); id != "" {
		return []string{id}
	}
	return nil
}

func (m *appModel) moveCursorTo(id string) {
	for i, r := range m.rows {
		if r.Task.ID == id {
			m.cursor = i
			return
		}
	}
}
