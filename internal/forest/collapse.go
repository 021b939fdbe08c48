package forest

import (
	"sort"

	"arbor-cli/internal/model"
)

// IsExpanded reports whether a task's descendants are shown. Tasks absent
// from the collapse set are expanded.
func (e *Engine) IsExpanded(id string) bool {
	return !e.collapsed[id]
}

// SetExpanded expands or collapses the given ids. The collapsed task itself
// stays visible; only its descendants are pruned from the flattened list.
func (e *Engine) SetExpanded(kind model.Kind, ids []string, expanded bool) {
	changed := false
	for _, id := range ids {
		if expanded {
			if e.collapsed[id] {
				delete(e.collapsed, id)
				changed = true
			}
			continue
		}
		if !e.collapsed[id] {
			e.collapsed[id] = true
			changed = true
		}
	}
	if changed {
		e.invalidate(kind, mutCollapse)
	}
}

func (e *Engine) ToggleExpanded(kind model.Kind, id string) {
	e.SetExpanded(kind, []string{id}, e.collapsed[id])
}

// CollapsedIDs returns the collapse set, sorted, for persistence.
func (e *Engine) CollapsedIDs() []string {
	out := make([]string, 0, len(e.collapsed))
	for id := range e.collapsed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RestoreCollapsed seeds the collapse set from persisted state, pruning ids
// that no longer exist in the store so stale ids don't accumulate across
// sessions.
func (e *Engine) RestoreCollapsed(ids []string) {
	e.collapsed = map[string]bool{}
	for _, id := range ids {
		if _, ok := e.store.Get(id); ok {
			e.collapsed[id] = true
		}
	}
	for kind := range e.cache.kinds {
		e.invalidate(kind, mutCollapse)
	}
}

// ExpandAll clears the collapse set for every task of the kind.
func (e *Engine) ExpandAll(kind model.Kind) {
	tasks, err := e.store.FetchAll(kind)
	if err != nil {
		return
	}
	changed := false
	for _, t := range tasks {
		if e.collapsed[t.ID] {
			delete(e.collapsed, t.ID)
			changed = true
		}
	}
	if changed {
		e.invalidate(kind, mutCollapse)
	}
}

// CollapseAll collapses every task of the kind that has children.
func (e *Engine) CollapseAll(kind model.Kind) {
	tasks, err := e.store.FetchAll(kind)
	if err != nil {
		return
	}
	changed := false
	for _, t := range tasks {
		if e.hasStoredChildren(kind, t.ID) && !e.collapsed[t.ID] {
			e.collapsed[t.ID] = true
			changed = true
		}
	}
	if changed {
		e.invalidate(kind, mutCollapse)
	}
}
