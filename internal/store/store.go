package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"arbor-cli/internal/model"
)

// DB is the full in-memory image of one workspace. It is loaded and saved as a
// unit; the engine mutates it through an Adapter and flushes with Save.
type DB struct {
	Version int          `json:"version"`
	Tasks   []model.Task `json:"tasks"`
	Tags    []model.Tag  `json:"tags"`
}

// Store is the SQLite-backed workspace backend. Dir is the workspace directory
// (usually a .arbor directory discovered by walking up from the cwd).
type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, ".arbor")
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	return filepath.Join(cwd, ".arbor"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) Load(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.loadSQLite(ctx)
}

func (s Store) Save(ctx context.Context, db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.saveSQLite(ctx, db)
}

func (db *DB) FindTask(id string) (*model.Task, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindTag(id string) (*model.Tag, bool) {
	for i := range db.Tags {
		if db.Tags[i].ID == id {
			return &db.Tags[i], true
		}
	}
	return nil, false
}

// CompareTasks orders siblings the way every view consumes them:
// DisplayOrder, then CreatedAt, then ID. The trailing tie-breaks keep the
// ordering stable while a mutation is mid-flight and orders briefly collide.
func CompareTasks(a, b model.Task) int {
	if a.DisplayOrder != b.DisplayOrder {
		if a.DisplayOrder < b.DisplayOrder {
			return -1
		}
		return 1
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

func SameParent(a, b *string) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
