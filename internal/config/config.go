// Package config loads user configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// PathEnv overrides the config file location
const PathEnv = "DAYSINCE_CONFIG_PATH"

// DataDirEnv overrides data_dir from the file
const DataDirEnv = "DAYSINCE_DATA_DIR"

// Themes lists the theme names accepted by the theme key
var Themes = []string{"nord", "dracula", "gruvbox", "catppuccin"}

var (
	ErrReminderHour = errors.New("reminder_hour must be between 0 and 23")
	ErrTheme        = errors.New("unknown theme")
	ErrLogLevel     = errors.New("unknown log_level")
)

// Config holds user settings
type Config struct {
	DataDir       string `toml:"data_dir"`
	Theme         string `toml:"theme"`
	Notifications bool   `toml:"notifications"`
	ReminderHour  int    `toml:"reminder_hour"`
	LogLevel      string `toml:"log_level"`
	Logging       bool   `toml:"logging"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		DataDir:       DefaultDataDir(),
		Theme:         "nord",
		Notifications: true,
		ReminderHour:  21,
		LogLevel:      "info",
		Logging:       true,
	}
}

// DefaultDataDir returns ~/.local/share/daysince, honoring XDG_DATA_HOME
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "daysince")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".daysince"
	}
	return filepath.Join(home, ".local", "share", "daysince")
}

// DefaultPath returns the config file location
func DefaultPath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "daysince", "config.toml")
}

// Load reads the config at DefaultPath
func Load() (Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads path over the defaults. A missing file yields the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if dir := os.Getenv(DataDirEnv); dir != "" {
		cfg.DataDir = dir
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Theme = strings.ToLower(cfg.Theme)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("%w: %d", ErrReminderHour, c.ReminderHour)
	}
	if !validTheme(c.Theme) {
		return fmt.Errorf("%w %q: must be one of %s", ErrTheme, c.Theme, strings.Join(Themes, ", "))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w %q", ErrLogLevel, c.LogLevel)
	}
	return nil
}

// Marshal renders the config as TOML
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// WriteFile writes c to path unless a file already exists there
func WriteFile(path string, c Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func validTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
