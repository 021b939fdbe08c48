package cli

import (
	"fmt"
	"os"
	"strings"

	"arbor-cli/internal/format"
	"arbor-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	DSN        string
	PrettyJSON bool
	Format     string
	Templates  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "arbor",
		Short:        "Arbor (local-first) hierarchical task CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  arbor

  # Scriptable commands
  arbor add "Write report" --parent <task-id>
  arbor list
  arbor complete <task-id>

  # Paste an indented outline under a task
  pbpaste | arbor paste --parent <task-id>
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("ARBOR_DIR", ""), "Path to workspace dir (advanced: overrides workspace resolution; use for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("ARBOR_WORKSPACE", ""), "Named workspace under ~/.arbor (default: project-local .arbor discovery)")
	cmd.PersistentFlags().StringVar(&app.DSN, "dsn", envOr("ARBOR_DSN", ""), "Postgres DSN (use a shared Postgres backend instead of local SQLite)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("ARBOR_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().BoolVar(&app.Templates, "templates", false, "Operate on the template universe instead of live tasks")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newCompleteCmd(app))
	cmd.AddCommand(newLockCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDuplicateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newPasteCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newCollapseCmd(app))
	cmd.AddCommand(newExpandCmd(app))
	cmd.AddCommand(newTemplatesCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newTagCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := openSession(app)
	if err != nil {
		return err
	}
	defer s.close()
	return tui.Run(s.engine, s.kind())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
