package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"arbor-cli/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is a PostgreSQL-backed workspace backend for shared setups where the
// workspace lives on a server instead of a local .arbor directory. It keeps
// the same whole-image Load/Save contract as the SQLite Store.
type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func ConnectPg(ctx context.Context, dsn string) (*PgStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("empty postgres dsn")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := NewPgStore(pool)
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PgStore) Close() { s.pool.Close() }

func (s *PgStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS arbor_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS arbor_tasks (
			id            TEXT PRIMARY KEY,
			kind          TEXT NOT NULL,
			parent_id     TEXT,
			display_order INTEGER NOT NULL,
			doc           JSONB NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_arbor_tasks_parent ON arbor_tasks(kind, parent_id, display_order)`,
		`CREATE TABLE IF NOT EXISTS arbor_tags (
			id    TEXT PRIMARY KEY,
			label TEXT NOT NULL,
			rank  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS arbor_events (
			id        TEXT PRIMARY KEY,
			ts        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			type      TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload   JSONB NOT NULL DEFAULT 'null'
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PgStore) Load(ctx context.Context) (*DB, error) {
	out := &DB{Version: 1, Tasks: []model.Task{}, Tags: []model.Tag{}}

	var v string
	err := s.pool.QueryRow(ctx, `SELECT v FROM arbor_meta WHERE k = 'version'`).Scan(&v)
	if err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(v)); convErr == nil && n > 0 {
			out.Version = n
		}
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `SELECT doc FROM arbor_tasks ORDER BY kind, parent_id, display_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var t model.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("corrupt task row: %w", err)
		}
		out.Tasks = append(out.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagRows, err := s.pool.Query(ctx, `SELECT id, label, rank FROM arbor_tags ORDER BY rank, label`)
	if err != nil {
		return nil, err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag model.Tag
		if err := tagRows.Scan(&tag.ID, &tag.Label, &tag.Rank); err != nil {
			return nil, err
		}
		out.Tags = append(out.Tags, tag)
	}
	return out, tagRows.Err()
}

func (s *PgStore) Save(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO arbor_meta(k, v) VALUES('version', $1)
		 ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v`, strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM arbor_tasks`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM arbor_tags`); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, t := range st.Tasks {
		raw, err := json.Marshal(t)
		if err != nil {
			return err
		}
		var pid any
		if t.ParentID != nil {
			pid = *t.ParentID
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO arbor_tasks(id, kind, parent_id, display_order, doc, updated_at)
			 VALUES($1, $2, $3, $4, $5::jsonb, $6)`,
			t.ID, string(t.Kind), pid, t.DisplayOrder, string(raw), now); err != nil {
			return err
		}
	}
	for _, tag := range st.Tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO arbor_tags(id, label, rank) VALUES($1, $2, $3)`,
			tag.ID, tag.Label, tag.Rank); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *PgStore) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("null")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO arbor_events(id, ts, type, entity_id, payload) VALUES($1, $2, $3, $4, $5::jsonb)`,
		NewID(), time.Now().UTC(), typ, entityID, string(raw))
	return err
}

// ReadEvents returns the most recent events, oldest-first within the window.
func (s *PgStore) ReadEvents(ctx context.Context, limit int) ([]model.Event, error) {
	q := `SELECT id, ts, type, entity_id, payload FROM arbor_events ORDER BY ts DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var ev model.Event
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.TS, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		var p any
		if err := json.Unmarshal(payload, &p); err == nil {
			ev.Payload = p
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
