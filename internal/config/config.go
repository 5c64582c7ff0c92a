package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// AppName is used for the config and state directory names and the env prefix.
const AppName = "elitectl"

// Config represents the complete elitectl configuration
type Config struct {
	Auth    AuthConfig    `mapstructure:"auth" json:"auth" yaml:"auth"`
	Task    TaskConfig    `mapstructure:"task" json:"task" yaml:"task"`
	Store   StoreConfig   `mapstructure:"store" json:"store" yaml:"store"`
	TUI     TUIConfig     `mapstructure:"tui" json:"tui" yaml:"tui"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// AuthConfig holds the single accepted credential pair
type AuthConfig struct {
	// Username is compared exactly, no trimming or case folding
	Username string `mapstructure:"username" json:"username" yaml:"username"`
	// Password is the plaintext password. Ignored when PasswordHash is set.
	Password string `mapstructure:"password" json:"password" yaml:"password"`
	// PasswordHash is a bcrypt hash (see `elitectl hash-password`)
	PasswordHash string `mapstructure:"password_hash" json:"password_hash" yaml:"password_hash"`
	// DelayMs is the simulated verification delay (default: 800)
	DelayMs int `mapstructure:"delay_ms" json:"delay_ms" yaml:"delay_ms"`
}

// TaskConfig controls the simulated progress task
type TaskConfig struct {
	// TargetPattern is the glob a target must match (default: "+62*")
	TargetPattern string `mapstructure:"target_pattern" json:"target_pattern" yaml:"target_pattern"`
	// Increment is added to progress on every tick (default: 2)
	Increment int `mapstructure:"increment" json:"increment" yaml:"increment"`
	// IntervalMs is the tick period (default: 100)
	IntervalMs int `mapstructure:"interval_ms" json:"interval_ms" yaml:"interval_ms"`
}

// StoreConfig selects where session state is persisted
type StoreConfig struct {
	// Backend is one of "file", "sqlite", "redis", "memory" (default: "file")
	Backend string `mapstructure:"backend" json:"backend" yaml:"backend"`
	// Dir is the file backend directory. Empty means StateDir().
	Dir string `mapstructure:"dir" json:"dir" yaml:"dir"`
	// SQLitePath is the sqlite database file. Empty means StateDir()/elitectl.db.
	SQLitePath string `mapstructure:"sqlite_path" json:"sqlite_path" yaml:"sqlite_path"`
	// RedisURL is required when Backend is "redis"
	RedisURL string `mapstructure:"redis_url" json:"redis_url" yaml:"redis_url"`
	// RedisPrefix is prepended to every redis key (default: "elitectl:")
	RedisPrefix string `mapstructure:"redis_prefix" json:"redis_prefix" yaml:"redis_prefix"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Bell rings the terminal bell where the phone UI would vibrate
	Bell bool `mapstructure:"bell" json:"bell" yaml:"bell"`
	// ToastMs is how long toasts stay visible (default: 3000)
	ToastMs int `mapstructure:"toast_ms" json:"toast_ms" yaml:"toast_ms"`
	// StatusLogLines caps the status log (default: 10)
	StatusLogLines int `mapstructure:"status_log_lines" json:"status_log_lines" yaml:"status_log_lines"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug.log is written (default: true)
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	// Level sets the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" json:"level" yaml:"level"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Auth: AuthConfig{
			Username: "azfla",
			Password: "manusia",
			DelayMs:  800,
		},
		Task: TaskConfig{
			TargetPattern: "+62*",
			Increment:     2,
			IntervalMs:    100,
		},
		Store: StoreConfig{
			Backend:     "file",
			RedisPrefix: "elitectl:",
		},
		TUI: TUIConfig{
			Bell:           true,
			ToastMs:        3000,
			StatusLogLines: 10,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// Delay returns the login delay as a time.Duration
func (c *AuthConfig) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// Interval returns the tick period as a time.Duration
func (c *TaskConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// ToastDuration returns the toast lifetime as a time.Duration
func (c *TUIConfig) ToastDuration() time.Duration {
	return time.Duration(c.ToastMs) * time.Millisecond
}

// ResolveDir returns the file backend directory, falling back to StateDir().
func (c *StoreConfig) ResolveDir() string {
	if c.Dir != "" {
		return expandHome(c.Dir)
	}
	return StateDir()
}

// ResolveSQLitePath returns the sqlite database path, falling back to
// StateDir()/elitectl.db.
func (c *StoreConfig) ResolveSQLitePath() string {
	if c.SQLitePath != "" {
		return expandHome(c.SQLitePath)
	}
	return filepath.Join(StateDir(), AppName+".db")
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Auth defaults
	viper.SetDefault("auth.username", defaults.Auth.Username)
	viper.SetDefault("auth.password", defaults.Auth.Password)
	viper.SetDefault("auth.password_hash", defaults.Auth.PasswordHash)
	viper.SetDefault("auth.delay_ms", defaults.Auth.DelayMs)

	// Task defaults
	viper.SetDefault("task.target_pattern", defaults.Task.TargetPattern)
	viper.SetDefault("task.increment", defaults.Task.Increment)
	viper.SetDefault("task.interval_ms", defaults.Task.IntervalMs)

	// Store defaults
	viper.SetDefault("store.backend", defaults.Store.Backend)
	viper.SetDefault("store.dir", defaults.Store.Dir)
	viper.SetDefault("store.sqlite_path", defaults.Store.SQLitePath)
	viper.SetDefault("store.redis_url", defaults.Store.RedisURL)
	viper.SetDefault("store.redis_prefix", defaults.Store.RedisPrefix)

	// TUI defaults
	viper.SetDefault("tui.bell", defaults.TUI.Bell)
	viper.SetDefault("tui.toast_ms", defaults.TUI.ToastMs)
	viper.SetDefault("tui.status_log_lines", defaults.TUI.StatusLogLines)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults on error
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	// Fall back to ~/.config/elitectl
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory holding persisted session state and debug.log
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("."+AppName, "state")
	}
	return filepath.Join(home, ".local", "state", AppName)
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
