package forest

import (
	"fmt"

	"arbor-cli/internal/model"
)

// resequence reassigns dense 0..n-1 DisplayOrder values over one sibling
// group, writing only the entries whose value actually changed. It must run
// after every operation that can desynchronize order values.
func (e *Engine) resequence(kind model.Kind, parentID *string) error {
	sibs, err := e.siblings(kind, parentID)
	if err != nil {
		return err
	}
	now := e.now()
	for i := range sibs {
		if sibs[i].DisplayOrder == i {
			continue
		}
		sibs[i].DisplayOrder = i
		sibs[i].UpdatedAt = now
		if err := e.store.Update(sibs[i]); err != nil {
			return err
		}
	}
	return nil
}

// MoveItem swaps the task with its adjacent sibling in the given direction.
// Exactly two order values change, so no full resequence is needed.
// Returns false when the task is already at the edge.
func (e *Engine) MoveItem(kind model.Kind, id string, dir Direction) (bool, error) {
	t, ok := e.store.Get(id)
	if !ok || t.Kind != kind {
		return false, fmt.Errorf("move: task not found: %s", id)
	}
	sibs, err := e.siblings(kind, t.ParentID)
	if err != nil {
		return false, err
	}
	idx := indexOfTask(sibs, id)
	if idx < 0 {
		return false, fmt.Errorf("move: task %s not among its siblings", id)
	}
	other := idx - 1
	if dir == DirDown {
		other = idx + 1
	}
	if other < 0 || other >= len(sibs) {
		return false, nil
	}

	now := e.now()
	sibs[idx].DisplayOrder, sibs[other].DisplayOrder = sibs[other].DisplayOrder, sibs[idx].DisplayOrder
	sibs[idx].UpdatedAt = now
	sibs[other].UpdatedAt = now
	if err := e.store.Update(sibs[idx]); err != nil {
		e.store.Rollback()
		return false, err
	}
	if err := e.store.Update(sibs[other]); err != nil {
		e.store.Rollback()
		return false, err
	}
	if err := e.commit(kind, mutReorder); err != nil {
		return false, err
	}
	return true, nil
}

// MoveSelected moves a possibly non-contiguous selection one step in the
// given direction as a contiguous block, preserving the selection's relative
// order. All selected tasks must share one parent; the move is refused when
// the block's edge has no room.
func (e *Engine) MoveSelected(kind model.Kind, ids []string, dir Direction) (bool, error) {
	if len(ids) == 0 {
		return false, ErrEmptySelection
	}

	selected := map[string]bool{}
	var parentID *string
	for i, id := range ids {
		t, ok := e.store.Get(id)
		if !ok || t.Kind != kind {
			return false, fmt.Errorf("move: task not found: %s", id)
		}
		if i == 0 {
			parentID = t.ParentID
		} else if !sameParent(t.ParentID, parentID) {
			return false, ErrMixedParents
		}
		selected[id] = true
	}

	sibs, err := e.siblings(kind, parentID)
	if err != nil {
		return false, err
	}

	// Extract the selected block in sibling order; remember its bounds.
	var block []model.Task
	var remaining []model.Task
	first, last := -1, -1
	for i, s := range sibs {
		if selected[s.ID] {
			if first < 0 {
				first = i
			}
			last = i
			block = append(block, s)
			continue
		}
		remaining = append(remaining, s)
	}
	if len(block) != len(selected) {
		return false, fmt.Errorf("move: selection not fully present among siblings")
	}

	// Insertion index in `remaining`, adjacent to the boundary sibling the
	// block is crossing.
	var insertAt int
	switch dir {
	case DirUp:
		if first == 0 {
			return false, nil
		}
		insertAt = first - 1
	default:
		if last == len(sibs)-1 {
			return false, nil
		}
		// Index of the crossed boundary sibling within `remaining`, plus one.
		insertAt = last + 2 - len(block)
	}

	final := make([]model.Task, 0, len(sibs))
	final = append(final, remaining[:insertAt]...)
	final = append(final, block...)
	final = append(final, remaining[insertAt:]...)

	now := e.now()
	for i := range final {
		if final[i].DisplayOrder == i {
			continue
		}
		final[i].DisplayOrder = i
		final[i].UpdatedAt = now
		if err := e.store.Update(final[i]); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutReorder)
			return false, err
		}
	}
	if err := e.commit(kind, mutReorder); err != nil {
		return false, err
	}
	return true, nil
}

// Move reparents draggedID under newParentID, placed before or after targetID
// among the destination siblings. An empty targetID appends at the bottom.
// Reparenting under the task's own descendant is refused.
func (e *Engine) Move(kind model.Kind, draggedID, targetID string, newParentID *string, pos MovePos) (bool, error) {
	dragged, ok := e.store.Get(draggedID)
	if !ok || dragged.Kind != kind {
		return false, fmt.Errorf("move: task not found: %s", draggedID)
	}
	if newParentID != nil {
		parent, found := e.store.Get(*newParentID)
		if !found {
			return false, fmt.Errorf("move: parent not found: %s", *newParentID)
		}
		if parent.Kind != kind {
			return false, ErrKindMismatch
		}
		if *newParentID == draggedID || e.isDescendant(kind, draggedID, *newParentID) {
			return false, ErrCycle
		}
	}

	oldParent := dragged.ParentID
	now := e.now()

	destSibs, err := e.siblings(kind, newParentID)
	if err != nil {
		return false, err
	}
	destSibs = filterTasks(destSibs, func(t model.Task) bool { return t.ID != draggedID })

	insertAt := len(destSibs)
	if targetID != "" {
		idx := indexOfTask(destSibs, targetID)
		if idx < 0 {
			return false, fmt.Errorf("move: target %s not under destination parent", targetID)
		}
		insertAt = idx
		if pos == MoveAfter {
			insertAt = idx + 1
		}
	}

	dragged.ParentID = newParentID
	dragged.UpdatedAt = now

	final := make([]model.Task, 0, len(destSibs)+1)
	final = append(final, destSibs[:insertAt]...)
	final = append(final, dragged)
	final = append(final, destSibs[insertAt:]...)
	for i := range final {
		if final[i].DisplayOrder == i && final[i].ID != draggedID {
			continue
		}
		final[i].DisplayOrder = i
		final[i].UpdatedAt = now
		if err := e.store.Update(final[i]); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutReparent)
			return false, err
		}
	}

	if !sameParent(oldParent, newParentID) {
		if err := e.resequence(kind, oldParent); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutReparent)
			return false, err
		}
	}
	if err := e.commit(kind, mutReparent, mutReorder); err != nil {
		return false, err
	}
	return true, nil
}

// isDescendant reports whether candidate sits inside ancestorID's subtree,
// by walking candidate's parent chain.
func (e *Engine) isDescendant(kind model.Kind, ancestorID, candidate string) bool {
	cur, ok := e.store.Get(candidate)
	for ok && cur.ParentID != nil {
		if *cur.ParentID == ancestorID {
			return true
		}
		cur, ok = e.store.Get(*cur.ParentID)
	}
	return false
}

func indexOfTask(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func filterTasks(tasks []model.Task, keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func sameParent(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
