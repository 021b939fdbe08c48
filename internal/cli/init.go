package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an .arbor workspace in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Dir == "" && app.Workspace == "" && app.DSN == "" {
				// Explicitly project-local: never adopt a parent workspace.
				cwd, err := os.Getwd()
				if err != nil {
					return writeErr(cmd, err)
				}
				app.Dir = filepath.Join(cwd, ".arbor")
			}

			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			// Materialize the schema with an initial (possibly empty) save.
			if err := s.adapter.Save(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"initialized": true,
				"dir":         app.Dir,
				"backend":     backendName(app),
			})
		},
	}
}

func backendName(app *App) string {
	if app.DSN != "" {
		return "postgres"
	}
	return "sqlite"
}
