package cli

import (
	"context"

	"arbor-cli/internal/model"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the append-only audit log, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.close()

			ctx := context.Background()
			var evs []model.Event
			if s.pg != nil {
				evs, err = s.pg.ReadEvents(ctx, limit)
			} else {
				evs, err = s.file.ReadEvents(ctx, limit)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"count": len(evs), "events": evs})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of events (0 = all)")
	return cmd
}
