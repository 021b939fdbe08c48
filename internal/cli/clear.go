package cli

import (
	"github.com/spf13/cobra"
)

func newClearCmd(app *App) *cobra.Command {
	var visibleOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete fully-completed subtrees (locked threads are skipped)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			n, err := s.engine.ClearCompleted(s.kind(), visibleOnly)
			if err != nil {
				return writeErr(cmd, err)
			}
			s.event("task.clear", "", map[string]any{"cleared": n})
			return writeOut(cmd, app, map[string]any{"cleared": n})
		},
	}

	cmd.Flags().BoolVar(&visibleOnly, "visible", false, "Only clear subtrees whose root is currently visible")
	return cmd
}
