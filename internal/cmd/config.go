package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify elitectl configuration",
	Long: `View or modify elitectl configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  elitectl config set task.increment 5
  elitectl config set store.backend sqlite
  elitectl config set tui.bell false

Valid keys:
  auth.username          - Accepted username
  auth.password          - Accepted password (plain text)
  auth.password_hash     - bcrypt hash, see 'elitectl hash-password'
  auth.delay_ms          - Simulated verification delay
  task.target_pattern    - Glob a target must match (default +62*)
  task.increment         - Percent added per tick (1-100)
  task.interval_ms       - Tick period in milliseconds
  store.backend          - Options: file, sqlite, redis, memory
  store.dir              - Directory for the file backend
  store.sqlite_path      - Database path for the sqlite backend
  store.redis_url        - redis://host:port/db for the redis backend
  store.redis_prefix     - Prefix for redis keys
  tui.bell               - Ring the terminal bell (true/false)
  tui.toast_ms           - How long toasts stay visible
  tui.status_log_lines   - Lines kept in the status log
  logging.enabled        - Write debug.log (true/false)
  logging.level          - Options: debug, info, warn, error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/elitectl/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

// settableKeys maps every key accepted by 'config set' to its value type.
var settableKeys = map[string]string{
	"auth.username":        "string",
	"auth.password":        "string",
	"auth.password_hash":   "string",
	"auth.delay_ms":        "int",
	"task.target_pattern":  "string",
	"task.increment":       "int",
	"task.interval_ms":     "int",
	"store.backend":        "string",
	"store.dir":            "string",
	"store.sqlite_path":    "string",
	"store.redis_url":      "string",
	"store.redis_prefix":   "string",
	"tui.bell":             "bool",
	"tui.toast_ms":         "int",
	"tui.status_log_lines": "int",
	"logging.enabled":      "bool",
	"logging.level":        "string",
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	shown := *cfg
	if shown.Auth.Password != "" {
		shown.Auth.Password = "********"
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(shown); err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	return enc.Close()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(args[0])
	value := args[1]

	keyType, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nValid keys: %s", key, strings.Join(sortedKeys(), ", "))
	}

	var typedValue any
	switch keyType {
	case "string":
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)

	// Reject values the loader would refuse later.
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'elitectl config set' to modify values", configFile)
	}

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize elitectl.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", config.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", config.ConfigDir())
	fmt.Fprintln(out, "  2. . (current directory)")
	fmt.Fprintf(out, "\nState directory: %s\n", config.StateDir())
	fmt.Fprintln(out, "\nEnvironment variables: ELITECTL_* (e.g., ELITECTL_TASK_INCREMENT), also read from .env")
	return nil
}

func sortedKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

const defaultConfigContent = `# elitectl configuration

# Login gate
auth:
  username: azfla
  password: manusia
  # bcrypt hash, takes precedence over password (see 'elitectl hash-password')
  # password_hash: ""
  # Simulated verification delay in milliseconds
  delay_ms: 800

# Progress task
task:
  # Glob a target must match
  target_pattern: "+62*"
  # Percent added per tick
  increment: 2
  # Tick period in milliseconds
  interval_ms: 100

# Where session state lives
store:
  # Options: file, sqlite, redis, memory
  backend: file
  # dir: ~/.local/state/elitectl
  # sqlite_path: ~/.local/state/elitectl/elitectl.db
  # redis_url: redis://localhost:6379/0
  redis_prefix: "elitectl:"

# Terminal interface
tui:
  # Ring the terminal bell on completion and reset
  bell: true
  # How long toasts stay visible in milliseconds
  toast_ms: 3000
  # Lines kept in the status log
  status_log_lines: 10

# Debug log in the state directory
logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
`
