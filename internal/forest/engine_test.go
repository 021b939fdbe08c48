package forest

import (
	"testing"

	"arbor-cli/internal/model"
)

func TestCommitFailure_RollsBackAndDropsCache(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "a", "A", "", 0, model.KindLive)

	// Warm the cache, then make the next save fail.
	if rows := e.VisibleFlattened(model.KindLive); len(rows) != 1 {
		t.Fatalf("expected 1 row; got %d", len(rows))
	}
	ms.failSave = true

	if _, err := e.Insert("B", nil, model.KindLive); err == nil {
		t.Fatal("expected save failure")
	}

	// In-memory image restored to the last durable state.
	if _, ok := ms.Get("a"); !ok {
		t.Fatal("expected a to survive the rollback")
	}
	if len(ms.tasks) != 1 {
		t.Fatalf("expected staged insert rolled back; got %d tasks", len(ms.tasks))
	}

	// Caches were invalidated unconditionally: the next read rebuilds from the
	// rolled-back store and shows no trace of the failed insert.
	ms.failSave = false
	rows := e.VisibleFlattened(model.KindLive)
	if len(rows) != 1 || rows[0].Task.ID != "a" {
		t.Fatalf("expected only a after rollback; got %v", rows)
	}
}

func TestDeleteFailure_RollsBack(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "a", "A", "", 0, model.KindLive)
	seed(ms, "b", "B", "", 1, model.KindLive)
	ms.failSave = true

	if _, err := e.Delete(model.KindLive, "a"); err == nil {
		t.Fatal("expected save failure")
	}
	ms.failSave = false
	assertIDs(t, siblingIDs(t, ms, model.KindLive, ""), []string{"a", "b"})
}

func TestDelete_PrunesCollapseSet(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "p", "P", "", 0, model.KindLive)
	seed(ms, "k", "K", "p", 0, model.KindLive)
	e.SetExpanded(model.KindLive, []string{"p"}, false)

	if _, err := e.Delete(model.KindLive, "p"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if ids := e.CollapsedIDs(); len(ids) != 0 {
		t.Fatalf("expected empty collapse set; got %v", ids)
	}
}

func TestRestoreCollapsed_PrunesUnknownIDs(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "p", "P", "", 0, model.KindLive)

	e.RestoreCollapsed([]string{"p", "ghost"})
	assertIDs(t, e.CollapsedIDs(), []string{"p"})
}
