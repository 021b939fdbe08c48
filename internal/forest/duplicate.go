package forest

import (
	"fmt"
	"strconv"
	"strings"

	"arbor-cli/internal/model"
)

// Duplicate deep-clones a task's subtree next to it: the clone lands directly
// after the source among its siblings and gets the first unused
// "name (copy)" / "name (copy N)" variant.
func (e *Engine) Duplicate(kind model.Kind, id string) (model.Task, error) {
	src, ok := e.store.Get(id)
	if !ok || src.Kind != kind {
		return model.Task{}, fmt.Errorf("duplicate: task not found: %s", id)
	}

	sibs, err := e.siblings(kind, src.ParentID)
	if err != nil {
		return model.Task{}, err
	}
	taken := map[string]bool{}
	for _, s := range sibs {
		taken[s.Name] = true
	}

	srcIdx := indexOfTask(sibs, id)
	if srcIdx < 0 {
		return model.Task{}, fmt.Errorf("duplicate: task %s not among its siblings", id)
	}

	now := e.now()
	// Shift later siblings out of the way first so the clone's source+1 slot
	// is free.
	for i := srcIdx + 1; i < len(sibs); i++ {
		sibs[i].DisplayOrder++
		sibs[i].UpdatedAt = now
		if err := e.store.Update(sibs[i]); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutInsert)
			return model.Task{}, err
		}
	}

	root, err := e.cloneSubtree(src, src.ParentID, kind, copyName(src.Name, taken), src.DisplayOrder+1)
	if err != nil {
		e.store.Rollback()
		e.invalidate(kind, mutInsert)
		return model.Task{}, err
	}
	if err := e.resequence(kind, src.ParentID); err != nil {
		e.store.Rollback()
		e.invalidate(kind, mutInsert)
		return model.Task{}, err
	}
	if err := e.commit(kind, mutInsert, mutReorder); err != nil {
		return model.Task{}, err
	}
	return e.refetch(root)
}

// DuplicateSelection duplicates a multi-selection: sources nested inside
// another source are dropped, the rest are grouped by parent, each clone
// lands immediately after its source, and every affected parent is
// resequenced once.
func (e *Engine) DuplicateSelection(kind model.Kind, ids []string) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, ErrEmptySelection
	}

	selected := map[string]bool{}
	for _, id := range ids {
		t, ok := e.store.Get(id)
		if !ok || t.Kind != kind {
			return nil, fmt.Errorf("duplicate: task not found: %s", id)
		}
		selected[id] = true
	}

	// Reduce the selection to its maximal roots: a selected task inside
	// another selected task's subtree is already covered by that subtree's
	// clone, and cloning it separately would double it.
	roots := map[string]bool{}
	parents := map[string]bool{}
	for id := range selected {
		if e.hasSelectedAncestor(id, selected) {
			continue
		}
		roots[id] = true
		t, _ := e.store.Get(id)
		parents[parentKey(t.ParentID)] = true
	}

	var cloneIDs []string
	now := e.now()
	for key := range parents {
		parentID := parentIDFromKey(key)
		sibs, err := e.siblings(kind, parentID)
		if err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutInsert)
			return nil, err
		}
		taken := map[string]bool{}
		for _, s := range sibs {
			taken[s.Name] = true
		}

		// Walk siblings in order, assigning fresh orders and interleaving a
		// clone directly after each selected source.
		next := 0
		for _, s := range sibs {
			if s.DisplayOrder != next {
				s.DisplayOrder = next
				s.UpdatedAt = now
				if err := e.store.Update(s); err != nil {
					e.store.Rollback()
					e.invalidate(kind, mutInsert)
					return nil, err
				}
			}
			next++
			if !roots[s.ID] {
				continue
			}
			name := copyName(s.Name, taken)
			taken[name] = true
			cloneID, err := e.cloneSubtree(s, parentID, kind, name, next)
			if err != nil {
				e.store.Rollback()
				e.invalidate(kind, mutInsert)
				return nil, err
			}
			cloneIDs = append(cloneIDs, cloneID)
			next++
		}
	}

	if err := e.commit(kind, mutInsert, mutReorder); err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(cloneIDs))
	for _, id := range cloneIDs {
		t, err := e.refetch(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// hasSelectedAncestor reports whether any ancestor of id is in selected.
func (e *Engine) hasSelectedAncestor(id string, selected map[string]bool) bool {
	cur, ok := e.store.Get(id)
	for ok && cur.ParentID != nil {
		if selected[*cur.ParentID] {
			return true
		}
		cur, ok = e.store.Get(*cur.ParentID)
	}
	return false
}

// InstantiateTemplate deep-copies a template subtree into the live universe
// at the configured insert position. The clones switch kind; the template is
// untouched.
func (e *Engine) InstantiateTemplate(templateID string, parentID *string) (model.Task, error) {
	src, ok := e.store.Get(templateID)
	if !ok || src.Kind != model.KindTemplate {
		return model.Task{}, fmt.Errorf("instantiate: template not found: %s", templateID)
	}
	if parentID != nil {
		parent, found := e.store.Get(*parentID)
		if !found {
			return model.Task{}, fmt.Errorf("instantiate: parent not found: %s", *parentID)
		}
		if parent.Kind != model.KindLive {
			return model.Task{}, ErrKindMismatch
		}
	}

	sibs, err := e.siblings(model.KindLive, parentID)
	if err != nil {
		return model.Task{}, err
	}
	order := len(sibs)
	if e.cfg.positionFor(parentID) == InsertTop {
		order = 0
		now := e.now()
		for i := range sibs {
			sibs[i].DisplayOrder++
			sibs[i].UpdatedAt = now
			if err := e.store.Update(sibs[i]); err != nil {
				e.store.Rollback()
				e.invalidate(model.KindLive, mutInsert)
				return model.Task{}, err
			}
		}
	} else if len(sibs) > 0 {
		order = sibs[len(sibs)-1].DisplayOrder + 1
	}

	root, err := e.cloneSubtree(src, parentID, model.KindLive, src.Name, order)
	if err != nil {
		e.store.Rollback()
		e.invalidate(model.KindLive, mutInsert)
		return model.Task{}, err
	}
	if err := e.commit(model.KindLive, mutInsert); err != nil {
		return model.Task{}, err
	}
	return e.refetch(root)
}

// cloneSubtree stages a deep copy of src's subtree (read from src.Kind) under
// newParentID with the destination kind, returning the new root id. The walk
// is an explicit stack, not recursion.
func (e *Engine) cloneSubtree(src model.Task, newParentID *string, destKind model.Kind, rootName string, rootOrder int) (string, error) {
	now := e.now()

	type job struct {
		src      model.Task
		parentID *string
		name     string
		order    int
	}
	stack := []job{{src: src, parentID: newParentID, name: rootName, order: rootOrder}}
	rootID := ""

	for len(stack) > 0 {
		j := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		clone := j.src
		clone.ID = e.newID()
		clone.Name = j.name
		clone.ParentID = j.parentID
		clone.Kind = destKind
		clone.DisplayOrder = j.order
		clone.CreatedAt = now
		clone.UpdatedAt = now
		clone.TagIDs = append([]string(nil), j.src.TagIDs...)
		if err := e.store.Insert(clone); err != nil {
			return "", err
		}
		if rootID == "" {
			rootID = clone.ID
		}

		kids, err := e.store.FetchChildren(j.src.Kind, &j.src.ID)
		if err != nil {
			return "", err
		}
		sortSiblings(kids)
		pid := clone.ID
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, job{src: kids[i], parentID: &pid, name: kids[i].Name, order: i})
		}
	}
	return rootID, nil
}

// copyName resolves a clone's name against its future siblings: the first
// unused of "name (copy)", "name (copy 2)", "name (copy 3)", ... wins.
// The bare name is kept when it is somehow free already.
func copyName(base string, taken map[string]bool) string {
	base = strings.TrimSpace(base)
	if !taken[base] {
		return base
	}
	candidate := base + " (copy)"
	if !taken[candidate] {
		return candidate
	}
	for n := 2; ; n++ {
		candidate = base + " (copy " + strconv.Itoa(n) + ")"
		if !taken[candidate] {
			return candidate
		}
	}
}

func (e *Engine) refetch(id string) (model.Task, error) {
	t, ok := e.store.Get(id)
	if !ok {
		return model.Task{}, fmt.Errorf("task vanished after save: %s", id)
	}
	return t, nil
}
