package forest

import (
	"fmt"

	"arbor-cli/internal/model"
)

// ToggleCompletion flips completion on each task, applying the configured
// side effects when a task becomes completed: move-to-bottom among siblings
// and auto-collapse of its subtree.
func (e *Engine) ToggleCompletion(kind model.Kind, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	muts := []mutation{mutComplete}
	now := e.now()
	touchedParents := map[string]bool{}

	for _, id := range ids {
		t, ok := e.store.Get(id)
		if !ok || t.Kind != kind {
			return fmt.Errorf("complete: task not found: %s", id)
		}
		t.Completed = !t.Completed
		t.UpdatedAt = now

		if t.Completed && e.cfg.CompleteMovesToBottom {
			sibs, err := e.siblings(kind, t.ParentID)
			if err != nil {
				e.store.Rollback()
				e.invalidate(kind, muts...)
				return err
			}
			if len(sibs) > 0 {
				t.DisplayOrder = sibs[len(sibs)-1].DisplayOrder + 1
			}
			touchedParents[parentKey(t.ParentID)] = true
			muts = appendMutation(muts, mutReorder)
		}
		if err := e.store.Update(t); err != nil {
			e.store.Rollback()
			e.invalidate(kind, muts...)
			return err
		}

		if t.Completed && e.cfg.AutoCollapseOnComplete && e.hasStoredChildren(kind, t.ID) {
			e.collapsed[t.ID] = true
			muts = appendMutation(muts, mutCollapse)
		}
	}

	for key := range touchedParents {
		if err := e.resequence(kind, parentIDFromKey(key)); err != nil {
			e.store.Rollback()
			e.invalidate(kind, muts...)
			return err
		}
	}
	return e.commit(kind, muts...)
}

// ClearCompleted deletes every maximal fully-completed subtree, skipping
// locked threads. A childless task counts as fully completed only when itself
// is completed. With visibleOnly, only subtrees whose root is currently on
// the visible list are cleared. Returns the number of deleted tasks.
func (e *Engine) ClearCompleted(kind model.Kind, visibleOnly bool) (int, error) {
	tasks, err := e.store.FetchAll(kind)
	if err != nil {
		return 0, err
	}

	clearable := map[string]bool{}
	for _, t := range tasks {
		clearable[t.ID] = e.subtreeFullyCompleted(kind, t.ID) &&
			!e.InLockedThread(kind, t.ID) &&
			!e.subtreeHasLock(kind, t.ID)
	}

	var visible map[string]bool
	if visibleOnly {
		visible = map[string]bool{}
		for _, row := range e.VisibleFlattened(kind) {
			visible[row.Task.ID] = true
		}
	}

	// Keep only maximal roots; deleting them cascades to the rest.
	var roots []string
	for _, t := range tasks {
		if !clearable[t.ID] {
			continue
		}
		if t.ParentID != nil && clearable[*t.ParentID] {
			continue
		}
		if visibleOnly && !visible[t.ID] {
			continue
		}
		roots = append(roots, t.ID)
	}
	if len(roots) == 0 {
		return 0, nil
	}
	return e.Delete(kind, roots...)
}

// subtreeFullyCompleted reports whether every task in the subtree is
// completed. Explicit stack; an incomplete node anywhere disqualifies the
// whole chain.
func (e *Engine) subtreeFullyCompleted(kind model.Kind, id string) bool {
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t, ok := e.store.Get(cur)
		if !ok || !t.Completed {
			return false
		}
		kids, err := e.store.FetchChildren(kind, &cur)
		if err != nil {
			return false
		}
		for _, k := range kids {
			stack = append(stack, k.ID)
		}
	}
	return true
}

func (e *Engine) subtreeHasLock(kind model.Kind, id string) bool {
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t, ok := e.store.Get(cur)
		if !ok {
			continue
		}
		if t.Locked {
			return true
		}
		kids, err := e.store.FetchChildren(kind, &cur)
		if err != nil {
			continue
		}
		for _, k := range kids {
			stack = append(stack, k.ID)
		}
	}
	return false
}

// SetLocked toggles the lock flag on one task; the locked-thread semantics
// for its descendants are computed, not stored.
func (e *Engine) SetLocked(kind model.Kind, id string, locked bool) error {
	t, ok := e.store.Get(id)
	if !ok || t.Kind != kind {
		return fmt.Errorf("lock: task not found: %s", id)
	}
	t.Locked = locked
	t.UpdatedAt = e.now()
	if err := e.store.Update(t); err != nil {
		e.store.Rollback()
		return err
	}
	return e.commit(kind, mutLock)
}

func (e *Engine) hasStoredChildren(kind model.Kind, id string) bool {
	kids, err := e.store.FetchChildren(kind, &id)
	return err == nil && len(kids) > 0
}

func appendMutation(muts []mutation, m mutation) []mutation {
	for _, existing := range muts {
		if existing == m {
			return muts
		}
	}
	return append(muts, m)
}
