package cli

import (
	"github.com/spf13/cobra"
)

func newDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <task-id>...",
		Short: "Deep-copy subtrees next to their sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			clones, err := s.engine.DuplicateSelection(s.kind(), args)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, c := range clones {
				s.event("task.duplicate", c.ID, map[string]any{"name": c.Name})
			}
			return writeOut(cmd, app, viewsOf(clones))
		},
	}
}
