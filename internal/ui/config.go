package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or save configuration",
		Long: `Display the effective configuration: defaults, overlaid by the
config file, overlaid by WEEKSLOT_* environment variables.

With --save, write it to the config file, creating the file with default
values if it does not exist.

Example:
  weekslot config
  weekslot config --save`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", path)

			if save {
				_, statErr := os.Stat(path)
				if err := a.config.SaveTo(path); err != nil {
					return fmt.Errorf("saving config: %w", err)
				}
				if os.IsNotExist(statErr) {
					fmt.Fprintf(out, "Created %s\n\n", path)
				} else {
					fmt.Fprintf(out, "Saved %s\n\n", path)
				}
			}

			printConfig(out, a.config)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the configuration to the config file")
	return cmd
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  anchor_day       = %s\n", cfg.Schedule.AnchorDay)
	fmt.Fprintf(out, "  strict           = %t\n", cfg.Schedule.Strict)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level            = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  format           = %s\n", cfg.Log.Format)
	fmt.Fprintln(out, "\n[calendar]")
	fmt.Fprintf(out, "  timezone         = %s\n", cfg.Calendar.Timezone)
	fmt.Fprintln(out, "\n[user]")
	fmt.Fprintf(out, "  default_id       = %d\n", cfg.User.DefaultID)
}
