package forest

import (
	"log"
	"sort"

	"arbor-cli/internal/model"
	"arbor-cli/internal/store"
)

// treeCache holds the derived, rebuildable views over store-owned tasks:
// children-by-parent, id lookup, the flattened visible list, and the
// completed-ancestor memo. It never owns tasks and must tolerate entries
// going stale (deleted underneath it) between rebuilds.
type treeCache struct {
	store Store
	logf  func(format string, args ...any)

	kinds map[model.Kind]*kindCache

	// staleLogged bounds log volume to one diagnostic per detached id.
	staleLogged map[string]bool
}

type kindCache struct {
	built bool
	// children maps parentKey -> sorted child list. Every known task gets an
	// entry (possibly empty) so repeated leaf lookups never re-query the store.
	children map[string][]model.Task
	byID     map[string]model.Task

	visibleBuilt bool
	visible      []Row

	// completedAnc is the completed-ancestor memo; nil means invalidated.
	completedAnc map[string]bool
}

func newTreeCache(store Store) *treeCache {
	return &treeCache{
		store:       store,
		logf:        log.Printf,
		kinds:       map[model.Kind]*kindCache{},
		staleLogged: map[string]bool{},
	}
}

func (c *treeCache) forKind(kind model.Kind) *kindCache {
	kc, ok := c.kinds[kind]
	if !ok {
		kc = &kindCache{}
		c.kinds[kind] = kc
	}
	return kc
}

// rebuild performs the single full-index scan: fetch all kind-K tasks once,
// group by parent, sort each group, and build both indices in one pass.
// A store failure yields an empty cache for the kind rather than propagating;
// callers must treat "no children" as a valid, safe answer.
func (c *treeCache) rebuild(kind model.Kind) *kindCache {
	kc := c.forKind(kind)
	kc.children = map[string][]model.Task{}
	kc.byID = map[string]model.Task{}
	kc.built = true

	tasks, err := c.store.FetchAll(kind)
	if err != nil {
		c.logf("forest: cache rebuild failed for kind %s: %v", kind, err)
		return kc
	}

	for _, t := range tasks {
		kc.byID[t.ID] = t
		kc.children[parentKey(t.ParentID)] = append(kc.children[parentKey(t.ParentID)], t)
	}
	// Explicit (possibly empty) entry for every known id, so leaf lookups hit.
	for id := range kc.byID {
		if _, ok := kc.children[id]; !ok {
			kc.children[id] = []model.Task{}
		}
	}
	for key := range kc.children {
		sortSiblings(kc.children[key])
	}
	return kc
}

func (c *treeCache) ensure(kind model.Kind) *kindCache {
	kc := c.forKind(kind)
	if !kc.built {
		kc = c.rebuild(kind)
	}
	return kc
}

func (c *treeCache) childrenOf(kind model.Kind, parentID *string) []model.Task {
	kc := c.ensure(kind)
	key := parentKey(parentID)

	if parentID != nil {
		if _, ok := c.store.Get(*parentID); !ok {
			if _, cached := kc.byID[*parentID]; cached {
				// The cached parent was deleted underneath us: drop the
				// partition and rebuild lazily on the next read.
				c.markStale(kind, *parentID)
				return nil
			}
			return nil
		}
	}

	if ch, ok := kc.children[key]; ok {
		return ch
	}

	// Cache miss for a single parent: one fallback fetch, memoized (possibly
	// empty) without forcing a full rebuild.
	ch, err := c.store.FetchChildren(kind, parentID)
	if err != nil {
		c.logf("forest: child fetch failed for parent %q: %v", key, err)
		return nil
	}
	sortSiblings(ch)
	kc.children[key] = ch
	return ch
}

func (c *treeCache) get(kind model.Kind, id string) (model.Task, bool) {
	kc := c.ensure(kind)
	t, ok := kc.byID[id]
	if !ok {
		return model.Task{}, false
	}
	if _, live := c.store.Get(id); !live {
		c.markStale(kind, id)
		return model.Task{}, false
	}
	return t, true
}

func (c *treeCache) hasChildren(kind model.Kind, id string) bool {
	pid := id
	return len(c.childrenOf(kind, &pid)) > 0
}

// visible returns the flattened visible list: depth-first preorder over roots,
// pruned below any collapsed id. The collapsed id itself stays in the list.
// Memoized until the visibility partition is invalidated.
func (c *treeCache) visible(kind model.Kind, collapsed map[string]bool) []Row {
	kc := c.ensure(kind)
	if kc.visibleBuilt {
		return kc.visible
	}
	out := c.flatten(kind, collapsed)
	kc.visible = out
	kc.visibleBuilt = true
	return out
}

// flatten is the raw preorder traversal, unmemoized. Traversal is an explicit
// stack to stay safe on adversarially deep trees.
func (c *treeCache) flatten(kind model.Kind, collapsed map[string]bool) []Row {
	kc := c.ensure(kind)

	type frame struct {
		task  model.Task
		depth int
	}
	var out []Row
	roots := c.childrenOf(kind, nil)
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{task: roots[i], depth: 0})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, Row{Task: f.task, Depth: f.depth})
		if collapsed[f.task.ID] {
			continue
		}
		kids := kc.children[f.task.ID]
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{task: kids[i], depth: f.depth + 1})
		}
	}
	return out
}

func (c *treeCache) hasCompletedAncestor(kind model.Kind, id string) bool {
	kc := c.ensure(kind)
	if kc.completedAnc == nil {
		kc.completedAnc = map[string]bool{}
	}
	if v, ok := kc.completedAnc[id]; ok {
		return v
	}

	// Iterative ancestor walk; reuse memoized answers for ancestors we hit.
	result := false
	cur, ok := kc.byID[id]
	for ok && cur.ParentID != nil {
		parent, found := kc.byID[*cur.ParentID]
		if !found {
			break
		}
		if parent.Completed {
			result = true
			break
		}
		if v, memo := kc.completedAnc[parent.ID]; memo {
			result = v
			break
		}
		cur, ok = parent, true
	}
	kc.completedAnc[id] = result
	return result
}

func (c *treeCache) markStale(kind model.Kind, id string) {
	if !c.staleLogged[id] {
		c.staleLogged[id] = true
		c.logf("forest: cached task %s detached from store; dropping %s cache", id, kind)
	}
	c.invalidateStructure(kind)
}

// invalidateStructure drops the child and identity indices for the kind and,
// transitively, both derived caches.
func (c *treeCache) invalidateStructure(kind model.Kind) {
	kc := c.forKind(kind)
	kc.built = false
	kc.children = nil
	kc.byID = nil
	c.invalidateVisibility(kind)
	c.invalidateCompletion(kind)
}

func (c *treeCache) invalidateStructureAll() {
	for kind := range c.kinds {
		c.invalidateStructure(kind)
	}
}

func (c *treeCache) invalidateVisibility(kind model.Kind) {
	kc := c.forKind(kind)
	kc.visibleBuilt = false
	kc.visible = nil
}

func (c *treeCache) invalidateCompletion(kind model.Kind) {
	c.forKind(kind).completedAnc = nil
}

func sortSiblings(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return store.CompareTasks(tasks[i], tasks[j]) < 0
	})
}
