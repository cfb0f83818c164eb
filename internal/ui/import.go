package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/calendar"
)

func (a *App) importCmd() *cobra.Command {
	var thisWeek bool

	cmd := &cobra.Command{
		Use:   "import [events.yaml]",
		Short: "Import calendar events as tasks",
		Long: `Import calendar events from a YAML file as tasks.

Each event becomes a medium priority task on the weekday it starts, with
its length rounded to whole hours. Events already imported (same title at
the same day and hour) are skipped, and events running past midnight are
split like any other task.

The file has the layout written by 'weekslot export':

  events:
    - summary: Standup
      start: 2025-03-07T09:00:00+02:00
      end: 2025-03-07T09:30:00+02:00

Example:
  weekslot import ~/calendar.yaml --this-week`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening events file: %w", err)
			}
			defer func() { _ = f.Close() }()

			events, err := calendar.Decode(f)
			if err != nil {
				return err
			}

			loc, err := a.config.Location()
			if err != nil {
				return err
			}
			if thisWeek {
				events = calendar.InWeek(events, a.now(), loc)
			}

			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}

			importer := calendar.NewImporter(a.placer, a.repo, loc, a.log)
			res, err := importer.Import(ctx, userID, events)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %d events from %s %s\n",
				formatOK("Imported"),
				res.Imported,
				path,
				formatMuted(fmt.Sprintf("(%d duplicates, %d skipped)", res.Duplicates, res.Skipped)),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&thisWeek, "this-week", false, "Only import events starting this week")
	return cmd
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
