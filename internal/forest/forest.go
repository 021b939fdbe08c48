// Package forest is the task hierarchy engine: an ordered forest of
// completable tasks with derived caches, dense sibling ordering, collapse
// visibility, and completion cascades.
//
// All mutations run on one logical mutator; the engine and its caches are not
// safe for concurrent use and must be wrapped behind one exclusive access
// point by a multi-threaded host.
package forest

import (
	"errors"

	"arbor-cli/internal/model"
)

// Store is the persistence contract the engine mutates through. Insert,
// Update and Delete stage changes in memory; Save flushes them durably and
// Rollback restores the last durably-saved image after a failed Save.
type Store interface {
	FetchAll(kind model.Kind) ([]model.Task, error)
	FetchChildren(kind model.Kind, parentID *string) ([]model.Task, error)
	Get(id string) (model.Task, bool)
	Insert(t model.Task) error
	Update(t model.Task) error
	Delete(id string) error
	// HasTag reports whether a tag id exists; tag rows are owned by the
	// store, tasks only reference them.
	HasTag(id string) bool
	Save() error
	Rollback()
}

// InsertPosition controls where newly created items land among siblings.
type InsertPosition string

const (
	InsertTop    InsertPosition = "top"
	InsertBottom InsertPosition = "bottom"
)

type Direction int

const (
	DirUp Direction = iota
	DirDown
)

// MovePos disambiguates drag-drop placement relative to the target sibling.
type MovePos string

const (
	MoveBefore MovePos = "before"
	MoveAfter  MovePos = "after"
)

type Config struct {
	// Insertion position policy, per scope.
	RootInsert  InsertPosition
	ChildInsert InsertPosition

	// Completion side effects.
	CompleteMovesToBottom  bool
	AutoCollapseOnComplete bool
}

func DefaultConfig() Config {
	return Config{
		RootInsert:             InsertBottom,
		ChildInsert:            InsertBottom,
		CompleteMovesToBottom:  true,
		AutoCollapseOnComplete: true,
	}
}

func (c Config) positionFor(parentID *string) InsertPosition {
	pos := c.ChildInsert
	if parentID == nil {
		pos = c.RootInsert
	}
	if pos != InsertTop {
		pos = InsertBottom
	}
	return pos
}

// Row is one line of the flattened visible outline.
type Row struct {
	Task  model.Task
	Depth int
}

// Structural preconditions that make an operation a refused no-op rather than
// an error: callers get (false, nil) and may surface these for messaging.
var (
	ErrMixedParents   = errors.New("selection spans multiple parents")
	ErrCycle          = errors.New("cannot move a task under its own descendant")
	ErrKindMismatch   = errors.New("tasks of different kinds cannot be combined")
	ErrEmptySelection = errors.New("empty selection")
)

func parentKey(parentID *string) string {
	if parentID == nil {
		return ""
	}
	return *parentID
}

func parentIDFromKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
