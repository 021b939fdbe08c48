package cli

import (
	"io"
	"os"

	"arbor-cli/internal/ingest"

	"github.com/spf13/cobra"
)

func newPasteCmd(app *App) *cobra.Command {
	var parentID string
	var file string

	cmd := &cobra.Command{
		Use:   "paste",
		Short: "Rebuild hierarchy from indented text on stdin (or --file)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, file)
			if err != nil {
				return writeErr(cmd, err)
			}
			return ingestOutline(cmd, app, text, parentID, "task.paste")
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Target parent id (default: new roots)")
	cmd.Flags().StringVar(&file, "file", "", "Read from a file instead of stdin")
	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an indented outline file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return ingestOutline(cmd, app, string(b), parentID, "task.import")
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Target parent id (default: new roots)")
	return cmd
}

// ingestOutline is the shared paste/import path: bound and parse the external
// text first, then hand validated entries to the engine.
func ingestOutline(cmd *cobra.Command, app *App, text, parentID, eventType string) error {
	entries, err := ingest.Parse(text, ingest.DefaultLimits())
	if err != nil {
		return writeErr(cmd, err)
	}

	s, err := openSession(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.close()

	var pid *string
	if parentID != "" {
		pid = &parentID
	}
	created, err := s.engine.ReconstructFlat(entries, pid, s.kind())
	if err != nil {
		return writeErr(cmd, err)
	}
	for _, t := range created {
		s.event(eventType, t.ID, map[string]any{"name": t.Name})
	}
	return writeOut(cmd, app, map[string]any{
		"created": len(created),
		"tasks":   viewsOf(created),
	})
}

func readInput(cmd *cobra.Command, file string) (string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		return string(b), err
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	return string(b), err
}
