package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	var name, notes string
	var tags []string

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Rename a task, replace its notes, or retag it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && !cmd.Flags().Changed("notes") && !cmd.Flags().Changed("tags") {
				return writeErr(cmd, errors.New("edit: pass --name, --notes and/or --tags"))
			}

			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			id := args[0]
			t, ok := s.engine.Get(s.kind(), id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			if name != "" {
				if t, err = s.engine.Rename(s.kind(), id, name); err != nil {
					return writeErr(cmd, err)
				}
			}
			if cmd.Flags().Changed("notes") {
				if t, err = s.engine.SetNotes(s.kind(), id, notes); err != nil {
					return writeErr(cmd, err)
				}
			}
			if cmd.Flags().Changed("tags") {
				if t, err = s.engine.SetTags(s.kind(), id, tags); err != nil {
					return writeErr(cmd, err)
				}
			}
			s.event("task.edit", id, nil)
			return writeOut(cmd, app, viewOf(t))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&notes, "notes", "", "New markdown notes (empty clears)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Replace the tag id set (empty clears)")
	return cmd
}
