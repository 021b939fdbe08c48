package store

import (
	"context"
	"fmt"
	"strings"

	"arbor-cli/internal/model"
)

// Backend is a durable home for a workspace image. The SQLite Store and the
// Postgres PgStore both implement it.
type Backend interface {
	Load(ctx context.Context) (*DB, error)
	Save(ctx context.Context, db *DB) error
	AppendEvent(ctx context.Context, typ, entityID string, payload any) error
}

// Adapter owns the live in-memory image of one workspace and stages mutations
// against it. Save flushes the whole image to the backend in one transaction;
// if that write fails the caller invokes Rollback, which restores the image to
// the last durably-saved state so no partial mutation leaks into reads.
type Adapter struct {
	backend Backend
	db      *DB
	saved   *DB
}

func Open(ctx context.Context, backend Backend) (*Adapter, error) {
	db, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load workspace: %w", err)
	}
	return &Adapter{backend: backend, db: db, saved: cloneDB(db)}, nil
}

// DB exposes the live image for read-mostly callers (CLI listing, TUI).
// Mutations must go through the engine so cache invalidation stays correct.
func (a *Adapter) DB() *DB { return a.db }

func (a *Adapter) FetchAll(kind model.Kind) ([]model.Task, error) {
	out := make([]model.Task, 0, len(a.db.Tasks))
	for _, t := range a.db.Tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (a *Adapter) FetchChildren(kind model.Kind, parentID *string) ([]model.Task, error) {
	var out []model.Task
	for _, t := range a.db.Tasks {
		if t.Kind != kind {
			continue
		}
		if !SameParent(t.ParentID, parentID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (a *Adapter) Get(id string) (model.Task, bool) {
	t, ok := a.db.FindTask(id)
	if !ok {
		return model.Task{}, false
	}
	return *t, true
}

func (a *Adapter) Insert(t model.Task) error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("insert: missing task id")
	}
	if _, ok := a.db.FindTask(t.ID); ok {
		return fmt.Errorf("insert: duplicate task id %s", t.ID)
	}
	a.db.Tasks = append(a.db.Tasks, t)
	return nil
}

func (a *Adapter) Update(t model.Task) error {
	existing, ok := a.db.FindTask(t.ID)
	if !ok {
		return fmt.Errorf("update: task not found: %s", t.ID)
	}
	*existing = t
	return nil
}

func (a *Adapter) Delete(id string) error {
	id = strings.TrimSpace(id)
	for i := range a.db.Tasks {
		if a.db.Tasks[i].ID == id {
			a.db.Tasks = append(a.db.Tasks[:i], a.db.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete: task not found: %s", id)
}

func (a *Adapter) HasTag(id string) bool {
	_, ok := a.db.FindTag(id)
	return ok
}

// AddTag creates a tag with the next rank and flushes immediately; tag
// creation is not part of any engine mutation sequence. Labels are unique,
// case-insensitively.
func (a *Adapter) AddTag(label string) (model.Tag, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return model.Tag{}, fmt.Errorf("tag: empty label")
	}
	for _, tg := range a.db.Tags {
		if strings.EqualFold(tg.Label, label) {
			return model.Tag{}, fmt.Errorf("tag: duplicate label %q", label)
		}
	}
	tag := model.Tag{ID: NewID(), Label: label, Rank: len(a.db.Tags)}
	a.db.Tags = append(a.db.Tags, tag)
	if err := a.Save(); err != nil {
		a.Rollback()
		return model.Tag{}, err
	}
	return tag, nil
}

func (a *Adapter) Save() error {
	if err := a.backend.Save(context.Background(), a.db); err != nil {
		return fmt.Errorf("save workspace: %w", err)
	}
	a.saved = cloneDB(a.db)
	return nil
}

func (a *Adapter) Rollback() {
	a.db = cloneDB(a.saved)
}

func (a *Adapter) AppendEvent(typ, entityID string, payload any) error {
	return a.backend.AppendEvent(context.Background(), typ, entityID, payload)
}

func cloneDB(db *DB) *DB {
	out := &DB{Version: db.Version}
	out.Tasks = make([]model.Task, len(db.Tasks))
	for i, t := range db.Tasks {
		out.Tasks[i] = cloneTask(t)
	}
	out.Tags = append([]model.Tag(nil), db.Tags...)
	return out
}

func cloneTask(t model.Task) model.Task {
	if t.ParentID != nil {
		pid := *t.ParentID
		t.ParentID = &pid
	}
	if t.TagIDs != nil {
		t.TagIDs = append([]string(nil), t.TagIDs...)
	}
	return t
}
