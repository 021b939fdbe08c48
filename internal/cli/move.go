package cli

import (
	"errors"

	"arbor-cli/internal/forest"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var up, down bool
	var before, after, parent string

	cmd := &cobra.Command{
		Use:   "move <task-id>... (--up|--down) | move <task-id> (--before <id>|--after <id>) [--parent <id>]",
		Short: "Move tasks among siblings or to a new parent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if up == down && before == "" && after == "" {
				return writeErr(cmd, errors.New("move: pass exactly one of --up, --down, --before, --after"))
			}

			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			kind := s.kind()
			var moved bool
			switch {
			case before != "" || after != "":
				if len(args) != 1 {
					return writeErr(cmd, errors.New("move: --before/--after take a single task"))
				}
				targetID := before
				pos := forest.MoveBefore
				if after != "" {
					targetID = after
					pos = forest.MoveAfter
				}
				var pid *string
				if parent != "" {
					pid = &parent
				} else if target, ok := s.engine.Get(kind, targetID); ok {
					pid = target.ParentID
				}
				moved, err = s.engine.Move(kind, args[0], targetID, pid, pos)

			case len(args) == 1:
				dir := forest.DirUp
				if down {
					dir = forest.DirDown
				}
				moved, err = s.engine.MoveItem(kind, args[0], dir)

			default:
				dir := forest.DirUp
				if down {
					dir = forest.DirDown
				}
				moved, err = s.engine.MoveSelected(kind, args, dir)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if moved {
				for _, id := range args {
					s.event("task.move", id, nil)
				}
			}
			return writeOut(cmd, app, map[string]any{"moved": moved})
		},
	}

	cmd.Flags().BoolVar(&up, "up", false, "Move up among siblings")
	cmd.Flags().BoolVar(&down, "down", false, "Move down among siblings")
	cmd.Flags().StringVar(&before, "before", "", "Place before this sibling (reparents if needed)")
	cmd.Flags().StringVar(&after, "after", "", "Place after this sibling (reparents if needed)")
	cmd.Flags().StringVar(&parent, "parent", "", "Destination parent (with --before/--after; default: target's parent)")
	return cmd
}
