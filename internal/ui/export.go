package ui

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/calendar"
)

func (a *App) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as dated calendar events",
		Long: `Export the user's tasks as calendar events in YAML.

Each task is dated on the next occurrence of its weekday, today included,
in the calendar.timezone zone.

Example:
  weekslot export --out=week.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}
			loc, err := a.config.Location()
			if err != nil {
				return err
			}

			tasks, err := a.repo.ListTasks(ctx, userID)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}
			events := calendar.Export(tasks, a.now(), loc)

			if output == "" || output == "-" {
				return calendar.Encode(cmd.OutOrStdout(), events)
			}

			path, err := resolvePath(output)
			if err != nil {
				return err
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := calendar.Encode(f, events); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing export file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d events to %s\n", formatOK("Exported"), len(events), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "Output file (default stdout)")
	return cmd
}
