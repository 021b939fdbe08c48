package model

import "time"

// Kind partitions the forest into two disjoint universes that share storage
// but never cross-reference: real tasks and reusable templates.
type Kind string

const (
	KindLive     Kind = "live"
	KindTemplate Kind = "template"
)

type Task struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// ParentID is nil for roots. Children are always derived from ParentID
	// through the identity index; tasks never hold live child pointers.
	ParentID *string `json:"parentId,omitempty"`

	// DisplayOrder is the sibling rank. For any (parent, kind) group the
	// values form a dense 0..n-1 sequence after every structural mutation.
	DisplayOrder int `json:"displayOrder"`

	Kind      Kind   `json:"kind"`
	Completed bool   `json:"completed"`
	Locked    bool   `json:"locked"`
	Notes     string `json:"notes,omitempty"`

	TagIDs []string `json:"tagIds,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Tag is a label attached to tasks. Rank orders tags in pickers/badges;
// the task side of the relation is unordered.
type Tag struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Rank  int    `json:"rank"`
}

// FlatEntry is one line of an indentation-encoded outline, as produced by the
// ingest parser and consumed by tree reconstruction.
type FlatEntry struct {
	Name      string `json:"name"`
	Depth     int    `json:"depth"`
	Completed bool   `json:"completed"`
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
