package cli

import (
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the visible task outline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			rows := s.engine.VisibleFlattened(s.kind())
			if all {
				rows = s.engine.AllFlattened(s.kind())
			}
			return writeOut(cmd, app, rowsPayload(s, s.kind(), rows))
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Ignore the collapse set and list every task")
	return cmd
}
