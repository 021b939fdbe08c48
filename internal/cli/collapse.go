package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newCollapseCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "collapse [<task-id>...]",
		Short: "Hide descendants of the given tasks (or --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setExpanded(cmd, app, args, all, false)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Collapse every task that has children")
	return cmd
}

func newExpandCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "expand [<task-id>...]",
		Short: "Show descendants of the given tasks (or --all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setExpanded(cmd, app, args, all, true)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Expand everything")
	return cmd
}

func setExpanded(cmd *cobra.Command, app *App, ids []string, all, expanded bool) error {
	if !all && len(ids) == 0 {
		return writeErr(cmd, errors.New("pass task ids or --all"))
	}

	s, err := openSession(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.close()

	kind := s.kind()
	switch {
	case all && expanded:
		s.engine.ExpandAll(kind)
	case all:
		s.engine.CollapseAll(kind)
	default:
		for _, id := range ids {
			if _, ok := s.engine.Get(kind, id); !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
		}
		s.engine.SetExpanded(kind, ids, expanded)
	}
	return writeOut(cmd, app, map[string]any{"collapsed": s.engine.CollapsedIDs()})
}
