package forest

import (
	"testing"

	"arbor-cli/internal/model"
)

func TestDuplicate_CopyNameFirstUnusedSuffixWins(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "x", "X", "", 0, model.KindLive)
	seed(ms, "xc", "X (copy)", "", 1, model.KindLive)

	clone, err := e.Duplicate(model.KindLive, "x")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if clone.Name != "X (copy 2)" {
		t.Fatalf("expected name %q; got %q", "X (copy 2)", clone.Name)
	}
	// The clone lands directly after its source.
	assertIDs(t, siblingIDs(t, ms, model.KindLive, ""), []string{"x", clone.ID, "xc"})
}

func TestDuplicate_ClonesWholeSubtree(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "root", "Root", "", 0, model.KindLive)
	seed(ms, "a", "A", "root", 0, model.KindLive)
	seed(ms, "b", "B", "root", 1, model.KindLive)
	seed(ms, "a1", "A1", "a", 0, model.KindLive)

	clone, err := e.Duplicate(model.KindLive, "root")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if clone.Name != "Root (copy)" {
		t.Fatalf("expected %q; got %q", "Root (copy)", clone.Name)
	}

	kids := siblingIDs(t, ms, model.KindLive, clone.ID)
	if len(kids) != 2 {
		t.Fatalf("expected 2 cloned children; got %d", len(kids))
	}
	ka, _ := ms.Get(kids[0])
	kb, _ := ms.Get(kids[1])
	if ka.Name != "A" || kb.Name != "B" {
		t.Fatalf("expected cloned children A,B; got %q,%q", ka.Name, kb.Name)
	}
	grand := siblingIDs(t, ms, model.KindLive, kids[0])
	if len(grand) != 1 {
		t.Fatalf("expected cloned grandchild; got %d", len(grand))
	}
	// Source subtree untouched.
	assertIDs(t, siblingIDs(t, ms, model.KindLive, "root"), []string{"a", "b"})
}

func TestDuplicateSelection_InterleavesAfterSources(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "a", "A", "", 0, model.KindLive)
	seed(ms, "b", "B", "", 1, model.KindLive)
	seed(ms, "c", "C", "", 2, model.KindLive)

	clones, err := e.DuplicateSelection(model.KindLive, []string{"a", "c"})
	if err != nil {
		t.Fatalf("duplicate selection: %v", err)
	}
	if len(clones) != 2 {
		t.Fatalf("expected 2 clones; got %d", len(clones))
	}
	order := siblingIDs(t, ms, model.KindLive, "")
	names := make([]string, 0, len(order))
	for _, id := range order {
		task, _ := ms.Get(id)
		names = append(names, task.Name)
	}
	want := []string{"A", "A (copy)", "B", "C", "C (copy)"}
	assertIDs(t, names, want)
}

func TestDuplicateSelection_NestedSelectionClonesSubtreeOnce(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "p", "P", "", 0, model.KindLive)
	seed(ms, "c", "C", "p", 0, model.KindLive)

	// A range selection can cover both a task and its own descendant. Only
	// the outermost subtree is cloned; the descendant arrives inside it.
	clones, err := e.DuplicateSelection(model.KindLive, []string{"p", "c"})
	if err != nil {
		t.Fatalf("duplicate selection: %v", err)
	}
	if len(clones) != 1 {
		t.Fatalf("expected 1 clone; got %d", len(clones))
	}
	if clones[0].Name != "P (copy)" {
		t.Fatalf("expected %q; got %q", "P (copy)", clones[0].Name)
	}
	if len(ms.tasks) != 4 {
		t.Fatalf("expected 4 tasks total; got %d", len(ms.tasks))
	}

	assertIDs(t, siblingIDs(t, ms, model.KindLive, ""), []string{"p", clones[0].ID})
	assertIDs(t, siblingIDs(t, ms, model.KindLive, "p"), []string{"c"})
	kids := siblingIDs(t, ms, model.KindLive, clones[0].ID)
	if len(kids) != 1 {
		t.Fatalf("expected 1 cloned child; got %d", len(kids))
	}
	kid, _ := ms.Get(kids[0])
	if kid.Name != "C" {
		t.Fatalf("expected cloned child C; got %q", kid.Name)
	}
}

func TestInstantiateTemplate_SwitchesKind(t *testing.T) {
	e, ms := newTestEngine(t, DefaultConfig())
	seed(ms, "tpl", "Checklist", "", 0, model.KindTemplate)
	seed(ms, "step", "Step 1", "tpl", 0, model.KindTemplate)
	seed(ms, "live", "Existing", "", 0, model.KindLive)

	inst, err := e.InstantiateTemplate("tpl", nil)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if inst.Kind != model.KindLive {
		t.Fatalf("expected live kind; got %s", inst.Kind)
	}
	assertIDs(t, siblingIDs(t, ms, model.KindLive, ""), []string{"live", inst.ID})

	kids := siblingIDs(t, ms, model.KindLive, inst.ID)
	if len(kids) != 1 {
		t.Fatalf("expected 1 instantiated child; got %d", len(kids))
	}
	kid, _ := ms.Get(kids[0])
	if kid.Kind != model.KindLive || kid.Name != "Step 1" {
		t.Fatalf("unexpected instantiated child: %+v", kid)
	}
	// The template universe is untouched.
	assertIDs(t, siblingIDs(t, ms, model.KindTemplate, ""), []string{"tpl"})
}
