package ui

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/placer"
)

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [task_id]",
		Short: "Delete a task and free its hours",
		Long: `Delete a task and free the hours it held.

The two halves of a task split at midnight are separate tasks and are
deleted one at a time.

Example:
  weekslot delete 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("%w: invalid task ID %q", placer.ErrInvalidInput, args[0])
			}

			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			userID, err := a.userID()
			if err != nil {
				return err
			}

			if err := a.placer.DeleteTask(ctx, userID, id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d\n", formatOK("Deleted task"), id)
			return nil
		},
	}
}
