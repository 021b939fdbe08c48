package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var parentID string
	var notes string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a task (root by default, or under --parent)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			var pid *string
			if parentID != "" {
				pid = &parentID
			}
			name := strings.Join(args, " ")
			t, err := s.engine.Insert(name, pid, s.kind())
			if err != nil {
				return writeErr(cmd, err)
			}
			if notes != "" {
				if t, err = s.engine.SetNotes(s.kind(), t.ID, notes); err != nil {
					return writeErr(cmd, err)
				}
			}
			s.event("task.add", t.ID, map[string]any{"name": t.Name, "parentId": t.ParentID})
			return writeOut(cmd, app, viewOf(t))
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Parent task id (default: root)")
	cmd.Flags().StringVar(&notes, "notes", "", "Markdown notes")
	return cmd
}
