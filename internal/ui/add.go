package ui

import (
	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/placer"
)

func (a *App) addCmd() *cobra.Command {
	var (
		day         string
		at          string
		duration    int
		priority    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Place a task at an exact day and hour",
		Long: `Place a task at an exact day and hour, without searching.

A task that runs past midnight is stored as two tasks, the second one
starting at 00:00 on the next day. Overlapping existing tasks is allowed
unless schedule.strict is set.

Example:
  weekslot add "Night shift" --day=tuesday --time=22:00 --duration=4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}
			d, err := parseDayFlag("day", day)
			if err != nil {
				return err
			}
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}

			req := placer.ManualRequest{
				UserID:      userID,
				Title:       joinArgs(args),
				Description: description,
				Priority:    p,
				Day:         d,
				Time:        at,
				Duration:    duration,
			}
			placement, err := a.placer.PlaceManual(ctx, req)
			if err != nil {
				return err
			}

			PrintPlacement(cmd.OutOrStdout(), req.Title, placement)
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day of the week (required)")
	cmd.Flags().StringVar(&at, "time", "", "Start time, HH:MM (required)")
	cmd.Flags().IntVar(&duration, "duration", 1, "Duration in whole hours, 1-24")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: high, medium or low")
	cmd.Flags().StringVar(&description, "desc", "", "Description")

	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}
