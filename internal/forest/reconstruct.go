package forest

import (
	"fmt"
	"strings"

	"arbor-cli/internal/model"
)

// ReconstructFlat rebuilds indentation-encoded hierarchy from an ordered
// sequence of flat entries, under targetParentID (nil for roots). Depths are
// normalized against the minimum observed depth, so a pasted block keeps its
// internal shape regardless of where it was cut from.
//
// Callers are responsible for bounding the input (see internal/ingest); the
// engine assumes already-validated entries.
func (e *Engine) ReconstructFlat(entries []model.FlatEntry, targetParentID *string, kind model.Kind) ([]model.Task, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	if targetParentID != nil {
		parent, ok := e.store.Get(*targetParentID)
		if !ok {
			return nil, fmt.Errorf("reconstruct: parent not found: %s", *targetParentID)
		}
		if parent.Kind != kind {
			return nil, ErrKindMismatch
		}
	}

	minDepth := entries[0].Depth
	for _, en := range entries {
		if en.Depth < minDepth {
			minDepth = en.Depth
		}
	}

	now := e.now()
	touched := map[string]bool{}

	type frame struct {
		id    string
		depth int
	}
	var stack []frame
	var createdIDs []string

	for _, en := range entries {
		name := strings.TrimSpace(en.Name)
		if name == "" {
			continue
		}
		depth := en.Depth - minDepth
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}

		parentID := targetParentID
		if len(stack) > 0 {
			pid := stack[len(stack)-1].id
			parentID = &pid
		}

		sibs, err := e.siblings(kind, parentID)
		if err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutInsert)
			return nil, err
		}
		t := model.Task{
			ID:        e.newID(),
			Name:      name,
			ParentID:  parentID,
			Kind:      kind,
			Completed: en.Completed,
			CreatedAt: now,
			UpdatedAt: now,
		}
		// Always append in sequence order, ignoring the insert position
		// policy: an insert-at-top policy would reverse the pasted block.
		if len(sibs) > 0 {
			t.DisplayOrder = sibs[len(sibs)-1].DisplayOrder + 1
		}
		if err := e.store.Insert(t); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutInsert)
			return nil, err
		}

		touched[parentKey(parentID)] = true
		createdIDs = append(createdIDs, t.ID)
		stack = append(stack, frame{id: t.ID, depth: depth})
	}

	// One resequence per touched parent, after all insertions.
	for key := range touched {
		if err := e.resequence(kind, parentIDFromKey(key)); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutInsert)
			return nil, err
		}
	}
	if err := e.commit(kind, mutInsert, mutReorder); err != nil {
		return nil, err
	}

	out := make([]model.Task, 0, len(createdIDs))
	for _, id := range createdIDs {
		t, err := e.refetch(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
