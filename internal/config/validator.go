package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "task.increment")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidStoreBackends returns the list of valid store backends
func ValidStoreBackends() []string {
	return []string{"file", "sqlite", "redis", "memory"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAuth()...)
	errors = append(errors, c.validateTask()...)
	errors = append(errors, c.validateStore()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateAuth() []ValidationError {
	var errors []ValidationError

	if c.Auth.Username == "" {
		errors = append(errors, ValidationError{
			Field:   "auth.username",
			Value:   c.Auth.Username,
			Message: "must not be empty",
		})
	}

	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		errors = append(errors, ValidationError{
			Field:   "auth.password",
			Value:   "",
			Message: "either password or password_hash is required",
		})
	}

	// bcrypt hashes always start with $2a$, $2b$ or $2y$
	if c.Auth.PasswordHash != "" && !strings.HasPrefix(c.Auth.PasswordHash, "$2") {
		errors = append(errors, ValidationError{
			Field:   "auth.password_hash",
			Value:   "<redacted>",
			Message: "must be a bcrypt hash",
		})
	}

	const maxDelayMs = 10000
	if c.Auth.DelayMs < 0 || c.Auth.DelayMs > maxDelayMs {
		errors = append(errors, ValidationError{
			Field:   "auth.delay_ms",
			Value:   c.Auth.DelayMs,
			Message: fmt.Sprintf("must be between 0 and %d", maxDelayMs),
		})
	}

	return errors
}

func (c *Config) validateTask() []ValidationError {
	var errors []ValidationError

	if c.Task.TargetPattern == "" {
		errors = append(errors, ValidationError{
			Field:   "task.target_pattern",
			Value:   c.Task.TargetPattern,
			Message: "must not be empty",
		})
	} else if _, err := glob.Compile(c.Task.TargetPattern); err != nil {
		errors = append(errors, ValidationError{
			Field:   "task.target_pattern",
			Value:   c.Task.TargetPattern,
			Message: fmt.Sprintf("invalid glob: %v", err),
		})
	}

	if c.Task.Increment < 1 || c.Task.Increment > 100 {
		errors = append(errors, ValidationError{
			Field:   "task.increment",
			Value:   c.Task.Increment,
			Message: "must be between 1 and 100",
		})
	}

	// Bubble Tea redraws on every tick; anything faster than 10ms is just noise.
	const minIntervalMs, maxIntervalMs = 10, 60000
	if c.Task.IntervalMs < minIntervalMs || c.Task.IntervalMs > maxIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "task.interval_ms",
			Value:   c.Task.IntervalMs,
			Message: fmt.Sprintf("must be between %d and %d", minIntervalMs, maxIntervalMs),
		})
	}

	return errors
}

func (c *Config) validateStore() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidStoreBackends(), c.Store.Backend) {
		errors = append(errors, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreBackends(), ", ")),
		})
	}

	if c.Store.Backend == "redis" && c.Store.RedisURL == "" {
		errors = append(errors, ValidationError{
			Field:   "store.redis_url",
			Value:   c.Store.RedisURL,
			Message: "is required when store.backend is redis",
		})
	}

	for field, path := range map[string]string{
		"store.dir":         c.Store.Dir,
		"store.sqlite_path": c.Store.SQLitePath,
	} {
		// Null bytes are invalid in paths on every platform
		if strings.ContainsRune(path, '\x00') {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   path,
				Message: "path contains invalid null character",
			})
		}
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.ToastMs < 500 || c.TUI.ToastMs > 60000 {
		errors = append(errors, ValidationError{
			Field:   "tui.toast_ms",
			Value:   c.TUI.ToastMs,
			Message: "must be between 500 and 60000",
		})
	}

	if c.TUI.StatusLogLines < 1 || c.TUI.StatusLogLines > 100 {
		errors = append(errors, ValidationError{
			Field:   "tui.status_log_lines",
			Value:   c.TUI.StatusLogLines,
			Message: "must be between 1 and 100",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
