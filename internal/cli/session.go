package cli

import (
	"context"

	"arbor-cli/internal/forest"
	"arbor-cli/internal/model"
	"arbor-cli/internal/store"
)

// session wires one command invocation to a workspace: backend resolution
// (Postgres DSN, named workspace, or project-local .arbor discovery), the
// store adapter, and an engine with the persisted collapse set restored.
type session struct {
	app     *App
	file    store.Store
	hasFile bool
	pg      *store.PgStore
	adapter *store.Adapter
	engine  *forest.Engine
}

func openSession(app *App) (*session, error) {
	ctx := context.Background()
	s := &session{app: app}

	var backend store.Backend
	if app.DSN != "" {
		pg, err := store.ConnectPg(ctx, app.DSN)
		if err != nil {
			return nil, err
		}
		s.pg = pg
		backend = pg
	} else {
		dir := app.Dir
		if dir == "" {
			if app.Workspace != "" {
				d, err := store.WorkspaceDir(app.Workspace)
				if err != nil {
					return nil, err
				}
				dir = d
			} else {
				d, err := store.DefaultDir()
				if err != nil {
					return nil, err
				}
				dir = d
			}
			app.Dir = dir
		}
		s.file = store.Store{Dir: dir}
		s.hasFile = true
		backend = s.file
	}

	adapter, err := store.Open(ctx, backend)
	if err != nil {
		if s.pg != nil {
			s.pg.Close()
		}
		return nil, err
	}
	s.adapter = adapter
	s.engine = forest.New(adapter, forest.DefaultConfig())

	if s.hasFile {
		if ui, err := s.file.LoadUIState(); err == nil {
			s.engine.RestoreCollapsed(ui.Collapsed)
		}
	}
	return s, nil
}

func (s *session) kind() model.Kind {
	if s.app.Templates {
		return model.KindTemplate
	}
	return model.KindLive
}

// close persists UI state (collapse set, last viewed universe) for file-backed
// workspaces and releases the Postgres pool. Best effort on the UI side.
func (s *session) close() {
	if s.hasFile {
		ui, err := s.file.LoadUIState()
		if err != nil || ui == nil {
			ui = &store.UIState{Version: 1}
		}
		ui.Collapsed = s.engine.CollapsedIDs()
		ui.Kind = string(s.kind())
		_ = s.file.SaveUIState(ui)
	}
	if s.pg != nil {
		s.pg.Close()
	}
}

// event appends to the audit log, best effort: a failed event write never
// fails the command that already committed.
func (s *session) event(typ, entityID string, payload any) {
	_ = s.adapter.AppendEvent(typ, entityID, payload)
}
