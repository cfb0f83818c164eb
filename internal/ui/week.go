package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week's free and busy hours",
		Long: `Display the user's availability as a 7x24 grid, one row per day.

Busy hours are filled, free hours are dotted. Narrow terminals get a
compact one-column-per-hour layout. Below the grid, a short summary
shows hours per priority and how many fall in each priority's
preferred range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}

			grid, err := a.placer.Availability(ctx, userID)
			if err != nil {
				return err
			}

			week, err := summary.BuildWeekSummary(ctx, a.repo, userID)
			if err != nil {
				return err
			}

			width := termWidth()
			if compact {
				width = 0
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n  %s\n", formatHeader(fmt.Sprintf("WEEK: user %d", userID)))
			fmt.Fprintln(out, RenderWeek(grid, width))
			PrintStats(out, week.Stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Use one column per hour")
	return cmd
}
