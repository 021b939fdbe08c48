package cli

import (
	"arbor-cli/internal/model"

	"github.com/spf13/cobra"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage the template universe",
	}
	cmd.AddCommand(newTemplatesListCmd(app))
	cmd.AddCommand(newTemplatesInstantiateCmd(app))
	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			rows := s.engine.AllFlattened(model.KindTemplate)
			return writeOut(cmd, app, rowsPayload(s, model.KindTemplate, rows))
		},
	}
}

func newTemplatesInstantiateCmd(app *App) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "instantiate <template-id>",
		Short: "Deep-copy a template subtree into the live forest",
		Args:  cobra.ExactArgs(1),
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
			t, err := s.engine.InstantiateTemplate(args[0], pid)
			if err != nil {
				return writeErr(cmd, err)
			}
			s.event("template.instantiate", t.ID, map[string]any{"templateId": args[0]})
			return writeOut(cmd, app, viewOf(t))
		},
	}

	cmd.Flags().StringVar(&parentID, "parent", "", "Live parent for the instance (default: root)")
	return cmd
}
