package cli

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>...",
		Short: "Delete tasks and their subtrees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			n, err := s.engine.Delete(s.kind(), args...)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range args {
				s.event("task.delete", id, nil)
			}
			return writeOut(cmd, app, map[string]any{"deleted": n})
		},
	}
}
