package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var renderNotes bool

	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task with its children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			if renderNotes {
				out := strings.TrimSpace(t.Notes)
				if out != "" {
					if rendered, err := renderMarkdown(out); err == nil {
						out = rendered
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}

			payload := map[string]any{
				"task":               viewOf(t),
				"children":           viewsOf(s.engine.ChildrenOf(s.kind(), &id)),
				"hasCompletedParent": s.engine.HasCompletedAncestor(s.kind(), id),
				"inLockedThread":     s.engine.InLockedThread(s.kind(), id),
			}
			return writeOut(cmd, app, payload)
		},
	}

	cmd.Flags().BoolVar(&renderNotes, "notes", false, "Render the task's markdown notes to the terminal")
	return cmd
}

// renderMarkdown renders notes with a fixed style and wrap. Avoid
// WithAutoStyle: it can block on terminal capability queries in some setups.
func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}
