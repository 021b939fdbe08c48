package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"arbor-cli/internal/forest"
	"arbor-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type fakeStore struct {
	tasks []model.Task
	saved []model.Task
}

func (s *fakeStore) FetchAll(kind model.Kind) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeStore) FetchChildren(kind model.Kind, parentID *string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range s.tasks {
		if t.Kind != kind {
			continue
		}
		switch {
		case t.ParentID == nil && parentID == nil:
		case t.ParentID != nil && parentID != nil && *t.ParentID == *parentID:
		default:
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) Get(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *fakeStore) Insert(t model.Task) error {
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *fakeStore) Update(t model.Task) error {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return nil
		}
	}
	return errors.New("not found")
}

func (s *fakeStore) Delete(id string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *fakeStore) HasTag(string) bool { return false }

func (s *fakeStore) Save() error {
	s.saved = append([]model.Task(nil), s.tasks...)
	return nil
}

func (s *fakeStore) Rollback() {
	s.tasks = append([]model.Task(nil), s.saved...)
}

func newTestModel(t *testing.T) (*appModel, *fakeStore) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	fs := &fakeStore{}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	add := func(id, name, parent string, order int) {
		task := model.Task{ID: id, Name: name, Kind: model.KindLive, DisplayOrder: order, CreatedAt: now, UpdatedAt: now}
		if parent != "" {
			task.ParentID = &parent
		}
		fs.tasks = append(fs.tasks, task)
	}
	add("work", "Work", "", 0)
	add("a", "Report", "work", 0)
	add("b", "Slides", "work", 1)
	add("home", "Home", "", 1)
	fs.saved = append([]model.Task(nil), fs.tasks...)

	e := forest.New(fs, forest.DefaultConfig())
	m := newAppModel(e, model.KindLive)
	m.width = 60
	m.height = 12
	return m, fs
}

func TestView_ShowsVisibleOutline(t *testing.T) {
	m, _ := newTestModel(t)
	out := m.View()
	for _, name := range []string{"Work", "Report", "Slides", "Home"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %q in view:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "4 shown") {
		t.Fatalf("expected row count in header:\n%s", out)
	}
}

func TestFold_HidesDescendants(t *testing.T) {
	m, _ := newTestModel(t)
	m.cursor = 0 // Work
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	out := m.View()
	if strings.Contains(out, "Report") {
		t.Fatalf("expected folded children hidden:\n%s", out)
	}
	if !strings.Contains(out, "Work") || !strings.Contains(out, "Home") {
		t.Fatalf("expected siblings kept:\n%s", out)
	}
}

func TestRowAt_MatchesViewLayout(t *testing.T) {
	m, _ := newTestModel(t)
	if idx := m.rowAt(1); idx != 0 {
		t.Fatalf("expected first list line to map to row 0; got %d", idx)
	}
	if idx := m.rowAt(0); idx != -1 {
		t.Fatalf("header must not map to a row; got %d", idx)
	}
	if idx := m.rowAt(40); idx != -1 {
		t.Fatalf("out-of-list line must not map; got %d", idx)
	}
}

func TestMouseDrag_SelectsRange(t *testing.T) {
	m, _ := newTestModel(t)

	press := tea.MouseMsg{X: 0, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m.Update(press)
	if !m.sel.IsSelected("work") || m.sel.Len() != 1 {
		t.Fatalf("expected press to select start row; got %v", m.sel.Selected())
	}

	motion := tea.MouseMsg{X: 0, Y: 3, Action: tea.MouseActionMotion}
	m.Update(motion)
	if m.sel.Len() != 3 {
		t.Fatalf("expected 3 rows selected after drag; got %v", m.sel.Selected())
	}

	m.Update(tea.MouseMsg{Action: tea.MouseActionRelease})
	if m.sel.Dragging() {
		t.Fatal("expected drag session ended")
	}
	if m.sel.Len() != 3 {
		t.Fatal("release must keep the selection")
	}
}

func TestCompleteKey_TogglesCursorTask(t *testing.T) {
	m, fs := newTestModel(t)
	m.cursor = 3 // Home
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	home, _ := fs.Get("home")
	if !home.Completed {
		t.Fatal("expected Home completed")
	}
}
