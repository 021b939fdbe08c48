package forest

import (
	"fmt"
	"strings"
	"time"

	"arbor-cli/internal/model"

	"github.com/google/uuid"
)

// Engine owns the mutation surface of the task forest. It reads through the
// tree cache, writes through the Store, and funnels every mutation through a
// single invalidation table so the cache-dirtying rules stay auditable.
type Engine struct {
	store Store
	cfg   Config
	cache *treeCache

	// collapsed is the process-wide collapse set: descendants of these ids
	// are hidden from the flattened visible list. Owned here, persisted by
	// the caller (ui_state.json), pruned against the store on load.
	collapsed map[string]bool

	newID func() string
	now   func() time.Time
}

func New(store Store, cfg Config) *Engine {
	return &Engine{
		store:     store,
		cfg:       cfg,
		cache:     newTreeCache(store),
		collapsed: map[string]bool{},
		newID: func() string {
			id, err := uuid.NewV7()
			if err != nil {
				return uuid.Must(uuid.NewRandom()).String()
			}
			return id.String()
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// mutation kinds, used as keys into the invalidation table.
type mutation int

const (
	mutInsert mutation = iota
	mutDelete
	mutReparent
	mutReorder
	mutCollapse
	mutComplete
	mutLock
	mutEdit
)

type partitionSet struct {
	structure  bool
	visibility bool
	completion bool
}

// invalidation is the single table of which cache partitions each mutation
// kind dirties. Mutating methods declare their mutations and funnel through
// invalidate(); nothing else drops cache state.
var invalidation = map[mutation]partitionSet{
	mutInsert:   {structure: true, visibility: true},
	mutDelete:   {structure: true, visibility: true, completion: true},
	mutReparent: {structure: true, visibility: true, completion: true},
	mutReorder:  {structure: true, visibility: true},
	mutCollapse: {visibility: true},
	mutComplete: {completion: true},
	// Lock and edit changes ride on the cached task records, so they have to
	// drop the structure partition even though the hierarchy is unchanged.
	mutLock: {structure: true},
	mutEdit: {structure: true},
}

func (e *Engine) invalidate(kind model.Kind, muts ...mutation) {
	var p partitionSet
	for _, m := range muts {
		ps := invalidation[m]
		p.structure = p.structure || ps.structure
		p.visibility = p.visibility || ps.visibility
		p.completion = p.completion || ps.completion
	}
	if p.structure {
		// Structure drop cascades to both derived partitions.
		e.cache.invalidateStructure(kind)
		return
	}
	if p.visibility {
		e.cache.invalidateVisibility(kind)
	}
	if p.completion {
		e.cache.invalidateCompletion(kind)
	}
}

// commit flushes staged changes. A failed save rolls the in-memory image back
// to the last durable state; caches are invalidated unconditionally either way
// so no partial state leaks into a read.
func (e *Engine) commit(kind model.Kind, muts ...mutation) error {
	err := e.store.Save()
	if err != nil {
		e.store.Rollback()
	}
	e.invalidate(kind, muts...)
	return err
}

// --- query surface -----------------------------------------------------------

func (e *Engine) Get(kind model.Kind, id string) (model.Task, bool) {
	return e.cache.get(kind, id)
}

func (e *Engine) ChildrenOf(kind model.Kind, parentID *string) []model.Task {
	return e.cache.childrenOf(kind, parentID)
}

func (e *Engine) VisibleFlattened(kind model.Kind) []Row {
	return e.cache.visible(kind, e.collapsed)
}

// AllFlattened is the full preorder list, ignoring the collapse set. Used by
// export and `list --all`. Not memoized; the visible list is the hot path.
func (e *Engine) AllFlattened(kind model.Kind) []Row {
	return e.cache.flatten(kind, nil)
}

func (e *Engine) HasChildren(kind model.Kind, id string) bool {
	return e.cache.hasChildren(kind, id)
}

func (e *Engine) HasCompletedAncestor(kind model.Kind, id string) bool {
	return e.cache.hasCompletedAncestor(kind, id)
}

// InLockedThread reports whether the task or any of its ancestors is locked.
// Computed, never stored per task.
func (e *Engine) InLockedThread(kind model.Kind, id string) bool {
	kc := e.cache.ensure(kind)
	cur, ok := kc.byID[id]
	for ok {
		if cur.Locked {
			return true
		}
		if cur.ParentID == nil {
			return false
		}
		cur, ok = kc.byID[*cur.ParentID]
	}
	return false
}

// --- insert / delete ---------------------------------------------------------

func (e *Engine) Insert(name string, parentID *string, kind model.Kind) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, fmt.Errorf("insert: empty name")
	}
	if parentID != nil {
		parent, ok := e.store.Get(*parentID)
		if !ok {
			return model.Task{}, fmt.Errorf("insert: parent not found: %s", *parentID)
		}
		// Kind purity: descendants always share the parent's kind.
		if parent.Kind != kind {
			return model.Task{}, ErrKindMismatch
		}
	}

	now := e.now()
	t := model.Task{
		ID:        e.newID(),
		Name:      name,
		ParentID:  parentID,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sibs, err := e.siblings(kind, parentID)
	if err != nil {
		return model.Task{}, err
	}
	switch e.cfg.positionFor(parentID) {
	case InsertTop:
		t.DisplayOrder = 0
		for _, s := range sibs {
			s.DisplayOrder++
			s.UpdatedAt = now
			if err := e.store.Update(s); err != nil {
				e.store.Rollback()
				return model.Task{}, err
			}
		}
	default:
		if len(sibs) > 0 {
			t.DisplayOrder = sibs[len(sibs)-1].DisplayOrder + 1
		}
	}

	if err := e.store.Insert(t); err != nil {
		e.store.Rollback()
		return model.Task{}, err
	}
	if err := e.commit(kind, mutInsert); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Delete removes tasks and their whole subtrees, then resequences every
// affected parent. Unknown ids are skipped.
func (e *Engine) Delete(kind model.Kind, ids ...string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	doomed := map[string]bool{}
	affectedParents := map[string]bool{}
	for _, id := range ids {
		t, ok := e.store.Get(id)
		if !ok || t.Kind != kind || doomed[id] {
			continue
		}
		affectedParents[parentKey(t.ParentID)] = true
		for _, sub := range e.subtreeIDs(kind, id) {
			doomed[sub] = true
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	for id := range doomed {
		if err := e.store.Delete(id); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutDelete)
			return 0, err
		}
		delete(e.collapsed, id)
	}
	for key := range affectedParents {
		if doomed[key] {
			continue
		}
		if err := e.resequence(kind, parentIDFromKey(key)); err != nil {
			e.store.Rollback()
			e.invalidate(kind, mutDelete)
			return 0, err
		}
	}
	if err := e.commit(kind, mutDelete); err != nil {
		return 0, err
	}
	return len(doomed), nil
}

// subtreeIDs collects id and all descendant ids, preorder, with an explicit
// stack (externally sourced trees can be deep).
func (e *Engine) subtreeIDs(kind model.Kind, id string) []string {
	var out []string
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		kids, err := e.store.FetchChildren(kind, &cur)
		if err != nil {
			continue
		}
		sortSiblings(kids)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i].ID)
		}
	}
	return out
}

// siblings fetches a sorted, kind-matched sibling group as mutable copies.
// Mutation paths read through the store, never the cache, so a half-applied
// operation can't observe its own stale cache.
func (e *Engine) siblings(kind model.Kind, parentID *string) ([]model.Task, error) {
	sibs, err := e.store.FetchChildren(kind, parentID)
	if err != nil {
		return nil, err
	}
	sortSiblings(sibs)
	return sibs, nil
}
