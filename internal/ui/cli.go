// Package ui implements the weekslot command line.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekslot/internal/availability"
	"github.com/javiermolinar/weekslot/internal/config"
	"github.com/javiermolinar/weekslot/internal/db"
	"github.com/javiermolinar/weekslot/internal/logging"
	"github.com/javiermolinar/weekslot/internal/placer"
	"github.com/javiermolinar/weekslot/internal/scheduler"
	"github.com/javiermolinar/weekslot/internal/task"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command
	log    zerolog.Logger
	now    func() time.Time

	// Opened on first use by commands that need storage.
	repo   *db.SQLite
	placer *placer.Placer

	// Global flags
	configPath string
	user       int64
	noColor    bool
	logLevel   string
}

// NewApp creates a new CLI application. A nil config is loaded from
// --config, or the default path, before any command runs.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, log: logging.Nop(), now: time.Now}

	a.root = &cobra.Command{
		Use:   "weekslot",
		Short: "Place tasks into the hours of your week",
		Long: `weekslot keeps a weekly grid of free and busy hours per user.

Tasks are placed either at an exact day and hour, or automatically at the
earliest free hour before a deadline, preferring hours that suit the
task's priority (high in the morning, medium after noon, low in the
evening).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	// Add global flags
	flags := a.root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default "+config.DefaultConfigPath()+")")
	flags.Int64Var(&a.user, "user", 0, "User ID to act as (default from config)")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable color output")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.scheduleCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.rebuildCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "weekslot %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setup loads config and builds the logger once flags are parsed.
func (a *App) setup(cmd *cobra.Command) error {
	if a.config == nil || a.configPath != "" {
		path := a.configPath
		if path == "" {
			path = config.DefaultConfigPath()
		}
		cfg, err := config.LoadFrom(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}

	if a.logLevel != "" {
		a.config.Log.Level = a.logLevel
	}
	log, err := logging.New(logging.Options{
		Level:  a.config.Log.Level,
		Format: a.config.Log.Format,
	}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = log

	if a.noColor {
		DisableColor()
	}
	return nil
}

// open connects to the task store and rebuilds every user's availability.
func (a *App) open(ctx context.Context) error {
	if a.placer != nil {
		return nil
	}

	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	p := placer.New(
		repo,
		availability.NewStore(),
		scheduler.New(a.config.Anchor()),
		a.log,
		placer.Options{Strict: a.config.Schedule.Strict, Now: a.now},
	)
	if err := p.RebuildAll(ctx); err != nil {
		_ = repo.Close()
		return err
	}

	a.repo = repo
	a.placer = p
	return nil
}

// userID returns the user commands act as.
func (a *App) userID() (int64, error) {
	switch {
	case a.user > 0:
		return a.user, nil
	case a.user < 0:
		return 0, fmt.Errorf("%w: --user must be positive", placer.ErrInvalidInput)
	default:
		return a.config.User.DefaultID, nil
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the database, if it was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	a.placer = nil
	return err
}

func parseDayFlag(name, value string) (task.Day, error) {
	day, err := task.ParseDay(value)
	if err != nil {
		return 0, fmt.Errorf("%w: --%s: %w", placer.ErrInvalidInput, name, err)
	}
	return day, nil
}

func parsePriorityFlag(value string) (task.Priority, error) {
	p, err := task.ParsePriority(value)
	if err != nil {
		return "", fmt.Errorf("%w: --priority: %w", placer.ErrInvalidInput, err)
	}
	return p, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
