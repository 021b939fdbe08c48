package cli

import (
	"os"

	"arbor-cli/internal/forest"
	"arbor-cli/internal/ingest"
	"arbor-cli/internal/model"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var parentID string
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the forest as indented text (round-trips through import)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			rows := s.engine.AllFlattened(s.kind())
			if parentID != "" {
				if _, ok := s.engine.Get(s.kind(), parentID); !ok {
					return writeErr(cmd, errNotFound("task", parentID))
				}
				rows = subtreeRows(rows, parentID)
			}

			entries := make([]model.FlatEntry, 0, len(rows))
			for _, r := range rows {
				entries = append(entries, model.FlatEntry{
					Name:      r.Task.Name,
					Depth:     r.Depth,
					Completed: r.Task.Completed,
				})
			}
			text := ingest.Format(entries)

			if out != "" {
				if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"file": out, "entries": len(entries)})
			}
			_, err = cmd.OutOrStdout().Write([]byte(text))
			return err
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Export only this task's subtree")
	cmd.Flags().StringVar(&out, "out", "", "Write to a file instead of stdout")
	return cmd
}

// subtreeRows slices a preorder flattening down to root and its descendants:
// the contiguous run after root whose depth stays greater than root's.
func subtreeRows(rows []forest.Row, rootID string) []forest.Row {
	for i, r := range rows {
		if r.Task.ID != rootID {
			continue
		}
		end := i + 1
		for end < len(rows) && rows[end].Depth > r.Depth {
			end++
		}
		return rows[i:end]
	}
	return nil
}
