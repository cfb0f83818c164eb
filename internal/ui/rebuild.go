package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/placer"
)

func (a *App) rebuildCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Re-derive availability from stored tasks",
		Long: `Re-derive the user's availability grid from the stored tasks.

With --check, report where the cached grid and the stored tasks disagree
without repairing anything. Every command already rebuilds all users on
start, so drift here means tasks were written outside weekslot while it
was running.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			drift, err := a.placer.CheckDrift(ctx, userID)
			if err != nil {
				return err
			}
			printDrift(out, drift)

			if check || drift.Clean() {
				return nil
			}
			if err := a.placer.Resync(ctx, userID); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s for user %d\n", formatOK("Availability rebuilt"), userID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Only report drift")
	return cmd
}

func printDrift(out io.Writer, d placer.Drift) {
	if d.Clean() {
		fmt.Fprintf(out, "%s for user %d\n", formatOK("Availability in sync"), d.UserID)
		return
	}
	slots := make([]string, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, s.String())
	}
	fmt.Fprintf(out, "%s for user %d: %d hours differ\n", formatWarn("Availability drift"), d.UserID, len(d.Slots))
	fmt.Fprintf(out, "  %s\n", formatMuted(strings.Join(slots, ", ")))
}
