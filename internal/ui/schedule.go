package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/placer"
	"github.com/javiermolinar/weekslot/internal/scheduler"
)

func (a *App) scheduleCmd() *cobra.Command {
	var (
		duration     int
		priority     string
		description  string
		deadlineDay  string
		deadlineTime string
		dryRun       bool
		limit        int
	)

	cmd := &cobra.Command{
		Use:   "schedule [title]",
		Short: "Place a task at the earliest free hour before a deadline",
		Long: `Place a task at the earliest free hour before a deadline.

Days are scanned from the anchor day (schedule.anchor_day, Monday by
default) through the deadline day. Hours that suit the priority are
tried first:

  high    08:00-12:00
  medium  12:00-16:00
  low     16:00-22:00

then any hour. A deadline at 00:00 means the end of the previous day.
Monday 00:00 is rejected because it is the start of the week.

Example:
  weekslot schedule "Write report" --duration=2 --priority=high --by=friday --at=17:00
  weekslot schedule "Write report" --duration=2 --by=friday --dry-run`,
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
			d, err := parseDayFlag("by", deadlineDay)
			if err != nil {
				return err
			}
			p, err := parsePriorityFlag(priority)
			if err != nil {
				return err
			}

			req := placer.AutoRequest{
				UserID:       userID,
				Title:        joinArgs(args),
				Description:  description,
				Priority:     p,
				Duration:     duration,
				DeadlineDay:  d,
				DeadlineTime: deadlineTime,
			}

			out := cmd.OutOrStdout()
			if dryRun {
				matches, err := a.placer.Suggest(ctx, req, limit)
				if err != nil {
					return err
				}
				printCandidates(out, matches, scheduler.PreferredHours(p))
				return nil
			}

			placement, err := a.placer.PlaceAutomatic(ctx, req)
			if err != nil {
				return err
			}
			PrintPlacement(out, req.Title, placement)
			return nil
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 1, "Duration in whole hours, 1-24")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: high, medium or low")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().StringVar(&deadlineDay, "by", "", "Deadline day (required)")
	cmd.Flags().StringVar(&deadlineTime, "at", "00:00", "Deadline time, HH:MM")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List candidate slots without placing")
	cmd.Flags().IntVar(&limit, "limit", 5, "Candidates to show with --dry-run (0 = all)")

	_ = cmd.MarkFlagRequired("by")

	return cmd
}

func printCandidates(out io.Writer, matches []scheduler.Match, preferred scheduler.HourRange) {
	if len(matches) == 0 {
		fmt.Fprintln(out, formatWarn("No free slot before the deadline."))
		return
	}
	fmt.Fprintf(out, "%s %s\n", formatHeader("Candidate slots"), formatMuted("(preferred "+preferred.String()+")"))
	for _, m := range matches {
		note := ""
		if m.Fallback {
			note = formatMuted(" (outside preferred hours)")
		}
		fmt.Fprintf(out, "  %s%s\n", m.Slot, note)
	}
}
