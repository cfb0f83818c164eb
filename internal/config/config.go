// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // calendar zones must resolve on hosts without zoneinfo

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/weekslot/internal/logging"
	"github.com/javiermolinar/weekslot/internal/task"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Calendar CalendarConfig `toml:"calendar"`
	User     UserConfig     `toml:"user"`
}

// ScheduleConfig holds slot search settings.
type ScheduleConfig struct {
	AnchorDay string `toml:"anchor_day"` // day every automatic scan starts on, e.g. "monday"
	Strict    bool   `toml:"strict"`     // reject manual placements over busy hours
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "console" or "json"
}

// CalendarConfig holds settings for calendar import and export.
type CalendarConfig struct {
	Timezone string `toml:"timezone"` // IANA name, e.g. "Asia/Jerusalem"
}

// UserConfig holds the identity the CLI acts as when --user is not given.
type UserConfig struct {
	DefaultID int64 `toml:"default_id"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			AnchorDay: "monday",
			Strict:    false,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: logging.FormatConsole,
		},
		Calendar: CalendarConfig{
			Timezone: "Asia/Jerusalem",
		},
		User: UserConfig{
			DefaultID: 1,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "weekslot.db"
	}
	return filepath.Join(home, ".local", "share", "weekslot", "weekslot.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "weekslot", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WEEKSLOT_ANCHOR_DAY"); v != "" {
		cfg.Schedule.AnchorDay = v
	}
	if v := os.Getenv("WEEKSLOT_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WEEKSLOT_STRICT: %w", err)
		}
		cfg.Schedule.Strict = strict
	}

	if v := os.Getenv("WEEKSLOT_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("WEEKSLOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("WEEKSLOT_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("WEEKSLOT_TIMEZONE"); v != "" {
		cfg.Calendar.Timezone = v
	}

	if v := os.Getenv("WEEKSLOT_USER"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("WEEKSLOT_USER: %w", err)
		}
		cfg.User.DefaultID = id
	}

	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := task.ParseDay(c.Schedule.AnchorDay); err != nil {
		return fmt.Errorf("invalid anchor_day: %s", c.Schedule.AnchorDay)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log format must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.Log.Format)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.User.DefaultID <= 0 {
		return errors.New("user default_id must be positive")
	}
	return nil
}

// Anchor returns the configured anchor day.
// Call only on a validated config.
func (c *Config) Anchor() task.Day {
	day, err := task.ParseDay(c.Schedule.AnchorDay)
	if err != nil {
		return task.Monday
	}
	return day
}

// Location returns the calendar timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
