package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags (attach them with `arbor edit --tags`)",
	}
	cmd.AddCommand(newTagAddCmd(app))
	cmd.AddCommand(newTagListCmd(app))
	return cmd
}

func newTagAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <label>",
		Short: "Create a tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			tag, err := s.adapter.AddTag(strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			s.event("tag.add", tag.ID, map[string]any{"label": tag.Label})
			return writeOut(cmd, app, tag)
		},
	}
}

func newTagListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags in rank order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			tags := s.adapter.DB().Tags
			return writeOut(cmd, app, map[string]any{"count": len(tags), "tags": tags})
		},
	}
}
