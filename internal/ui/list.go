package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		day     string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in week order",
		Long: `List the user's tasks from Monday through Sunday.

Titles are shortened to fit the terminal unless --verbose is given.`,
		Example: `  weekslot list
  weekslot list --day=friday
  weekslot list --user=2 -v`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}

			tasks, err := a.repo.ListTasks(ctx, userID)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			if day != "" {
				d, err := parseDayFlag("day", day)
				if err != nil {
					return err
				}
				tasks = filterDay(tasks, d)
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}

			opts := PrintOpts{Verbose: verbose}
			PrintTasks(out, tasks, opts, opts.CalcMaxTitleWidth(termWidth()))
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only list tasks starting on this day")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full titles and descriptions")

	return cmd
}

func filterDay(tasks []*task.Task, day task.Day) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if t.Day == day {
			out = append(out, t)
		}
	}
	return out
}
