package forest

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"arbor-cli/internal/model"
)

// memStore is an in-memory Store with save/fetch failure switches, so engine
// tests can exercise rollback and empty-cache-on-error paths without a real
// backend.
type memStore struct {
	tasks []model.Task
	tags  []model.Tag
	saved []model.Task

	failSave    bool
	failFetch   bool
	fetchCalls  int
	childFetchs int
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) FetchAll(kind model.Kind) ([]model.Task, error) {
	s.fetchCalls++
	if s.failFetch {
		return nil, errors.New("fetch failed")
	}
	var out []model.Task
	for _, t := range s.tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) FetchChildren(kind model.Kind, parentID *string) ([]model.Task, error) {
	s.childFetchs++
	if s.failFetch {
		return nil, errors.New("fetch failed")
	}
	var out []model.Task
	for _, t := range s.tasks {
		if t.Kind != kind {
			continue
		}
		if !sameParent(t.ParentID, parentID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *memStore) Get(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s *memStore) Insert(t model.Task) error {
	s.tasks = append(s.tasks, t)
	return nil
}

func (s *memStore) Update(t model.Task) error {
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return nil
		}
	}
	return fmt.Errorf("update: not found: %s", t.ID)
}

func (s *memStore) Delete(id string) error {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete: not found: %s", id)
}

func (s *memStore) HasTag(id string) bool {
	for _, tg := range s.tags {
		if tg.ID == id {
			return true
		}
	}
	return false
}

func (s *memStore) Save() error {
	if s.failSave {
		return errors.New("save failed")
	}
	s.saved = append([]model.Task(nil), s.tasks...)
	return nil
}

func (s *memStore) Rollback() {
	s.tasks = append([]model.Task(nil), s.saved...)
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *memStore) {
	t.Helper()
	ms := newMemStore()
	e := New(ms, cfg)
	seq := 0
	e.newID = func() string {
		seq++
		return "new-" + strconv.Itoa(seq)
	}
	e.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }
	e.cache.logf = func(string, ...any) {}
	return e, ms
}

// seed places a task directly into the store, bypassing the engine, and
// snapshots it as durable so rollbacks restore the seeded state.
func seed(ms *memStore, id, name string, parentID string, order int, kind model.Kind) model.Task {
	t := model.Task{
		ID:           id,
		Name:         name,
		Kind:         kind,
		DisplayOrder: order,
		CreatedAt:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	if parentID != "" {
		t.ParentID = &parentID
	}
	ms.tasks = append(ms.tasks, t)
	ms.saved = append([]model.Task(nil), ms.tasks...)
	return t
}

func markCompleted(ms *memStore, ids ...string) {
	for _, id := range ids {
		for i := range ms.tasks {
			if ms.tasks[i].ID == id {
				ms.tasks[i].Completed = true
			}
		}
	}
	ms.saved = append([]model.Task(nil), ms.tasks...)
}

func markLocked(ms *memStore, id string) {
	for i := range ms.tasks {
		if ms.tasks[i].ID == id {
			ms.tasks[i].Locked = true
		}
	}
	ms.saved = append([]model.Task(nil), ms.tasks...)
}

// siblingIDs returns ids of one sibling group in display order, asserting the
// dense 0..n-1 invariant along the way.
func siblingIDs(t *testing.T, ms *memStore, kind model.Kind, parentID string) []string {
	t.Helper()
	var pid *string
	if parentID != "" {
		pid = &parentID
	}
	sibs, err := ms.FetchChildren(kind, pid)
	if err != nil {
		t.Fatalf("fetch children: %v", err)
	}
	sortSiblings(sibs)
	out := make([]string, 0, len(sibs))
	for i, s := range sibs {
		if s.DisplayOrder != i {
			t.Fatalf("dense-order violation under %q: got order %d at index %d (%s)", parentID, s.DisplayOrder, i, s.ID)
		}
		out = append(out, s.ID)
	}
	return out
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected ids %v; got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected ids %v; got %v", want, got)
		}
	}
}
