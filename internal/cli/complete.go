package cli

import (
	"github.com/spf13/cobra"
)

func newCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <task-id>...",
		Short: "Toggle completion (completed tasks sink to the bottom of their siblings)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			if err := s.engine.ToggleCompletion(s.kind(), args...); err != nil {
				return writeErr(cmd, err)
			}
			out := make([]taskView, 0, len(args))
			for _, id := range args {
				if t, ok := s.engine.Get(s.kind(), id); ok {
					s.event("task.complete", id, map[string]any{"completed": t.Completed})
					out = append(out, viewOf(t))
				}
			}
			return writeOut(cmd, app, out)
		},
	}
}

func newLockCmd(app *App) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "lock <task-id>",
		Short: "Lock a task's thread (protects its subtree from clear)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			id := args[0]
			if err := s.engine.SetLocked(s.kind(), id, !off); err != nil {
				return writeErr(cmd, err)
			}
			s.event("task.lock", id, map[string]any{"locked": !off})
			t, _ := s.engine.Get(s.kind(), id)
			return writeOut(cmd, app, viewOf(t))
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Unlock instead of lock")
	return cmd
}
