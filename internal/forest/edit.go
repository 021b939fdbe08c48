package forest

import (
	"fmt"
	"strings"

	"arbor-cli/internal/model"
)

// Rename changes a task's name. Names are free-form but never empty.
func (e *Engine) Rename(kind model.Kind, id, name string) (model.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Task{}, fmt.Errorf("rename: empty name")
	}
	return e.edit(kind, id, func(t *model.Task) {
		t.Name = name
	})
}

// SetNotes replaces a task's markdown notes.
func (e *Engine) SetNotes(kind model.Kind, id, notes string) (model.Task, error) {
	return e.edit(kind, id, func(t *model.Task) {
		t.Notes = notes
	})
}

// SetTags replaces a task's tag set. Every id must name an existing tag so
// task rows never reference tags the store doesn't hold.
func (e *Engine) SetTags(kind model.Kind, id string, tagIDs []string) (model.Task, error) {
	for _, tagID := range tagIDs {
		if !e.store.HasTag(tagID) {
			return model.Task{}, fmt.Errorf("tag not found: %s", tagID)
		}
	}
	return e.edit(kind, id, func(t *model.Task) {
		t.TagIDs = append([]string(nil), tagIDs...)
	})
}

func (e *Engine) edit(kind model.Kind, id string, apply func(*model.Task)) (model.Task, error) {
	t, ok := e.store.Get(id)
	if !ok || t.Kind != kind {
		return model.Task{}, fmt.Errorf("edit: task not found: %s", id)
	}
	apply(&t)
	t.UpdatedAt = e.now()
	if err := e.store.Update(t); err != nil {
		e.store.Rollback()
		e.invalidate(kind, mutEdit)
		return model.Task{}, err
	}
	if err := e.commit(kind, mutEdit); err != nil {
		return model.Task{}, err
	}
	return t, nil
}
