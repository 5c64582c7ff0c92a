package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default auth config
	if cfg.Auth.Username != "azfla" {
		t.Errorf("Auth.Username = %q, want %q", cfg.Auth.Username, "azfla")
	}
	if cfg.Auth.Password != "manusia" {
		t.Errorf("Auth.Password = %q, want %q", cfg.Auth.Password, "manusia")
	}
	if cfg.Auth.DelayMs != 800 {
		t.Errorf("Auth.DelayMs = %d, want 800", cfg.Auth.DelayMs)
	}

	// Verify default task config
	if cfg.Task.TargetPattern != "+62*" {
		t.Errorf("Task.TargetPattern = %q, want %q", cfg.Task.TargetPattern, "+62*")
	}
	if cfg.Task.Increment != 2 {
		t.Errorf("Task.Increment = %d, want 2", cfg.Task.Increment)
	}
	if cfg.Task.IntervalMs != 100 {
		t.Errorf("Task.IntervalMs = %d, want 100", cfg.Task.IntervalMs)
	}

	// Verify default store config
	if cfg.Store.Backend != "file" {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, "file")
	}
	if cfg.Store.RedisPrefix != "elitectl:" {
		t.Errorf("Store.RedisPrefix = %q, want %q", cfg.Store.RedisPrefix, "elitectl:")
	}

	// Verify default TUI config
	if !cfg.TUI.Bell {
		t.Error("TUI.Bell should be true by default")
	}
	if cfg.TUI.StatusLogLines != 10 {
		t.Errorf("TUI.StatusLogLines = %d, want 10", cfg.TUI.StatusLogLines)
	}

	// Verify default logging config
	if !cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be true by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestDurations(t *testing.T) {
	cfg := Default()

	if got := cfg.Auth.Delay(); got != 800*time.Millisecond {
		t.Errorf("Auth.Delay() = %v, want 800ms", got)
	}
	if got := cfg.Task.Interval(); got != 100*time.Millisecond {
		t.Errorf("Task.Interval() = %v, want 100ms", got)
	}
	if got := cfg.TUI.ToastDuration(); got != 3*time.Second {
		t.Errorf("TUI.ToastDuration() = %v, want 3s", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/elitectl"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "elitectl")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/elitectl/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestStateDir(t *testing.T) {
	t.Run("with XDG_STATE_HOME", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		if got := StateDir(); got != "/custom/state/elitectl" {
			t.Errorf("StateDir() = %q", got)
		}
	})

	t.Run("without XDG_STATE_HOME", func(t *testing.T) {
		t.Setenv("XDG_STATE_HOME", "")
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".local", "state", "elitectl")
		if got := StateDir(); got != expected {
			t.Errorf("StateDir() = %q, want %q", got, expected)
		}
	})
}

func TestStoreConfig_Resolve(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	home, _ := os.UserHomeDir()

	tests := []struct {
		name       string
		cfg        StoreConfig
		wantDir    string
		wantSQLite string
	}{
		{"defaults", StoreConfig{}, "/state/elitectl", "/state/elitectl/elitectl.db"},
		{"explicit", StoreConfig{Dir: "/var/elite", SQLitePath: "/var/elite.db"}, "/var/elite", "/var/elite.db"},
		{"home relative", StoreConfig{Dir: "~/elite", SQLitePath: "~/elite.db"},
			filepath.Join(home, "elite"), filepath.Join(home, "elite.db")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.ResolveDir(); got != tt.wantDir {
				t.Errorf("ResolveDir() = %q, want %q", got, tt.wantDir)
			}
			if got := tt.cfg.ResolveSQLitePath(); got != tt.wantSQLite {
				t.Errorf("ResolveSQLitePath() = %q, want %q", got, tt.wantSQLite)
			}
		})
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	// Get() should return defaults when no config file exists
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if cfg.Auth.Username != "azfla" {
		t.Errorf("Get().Auth.Username = %q, want %q", cfg.Auth.Username, "azfla")
	}
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
auth:
  username: operator
task:
  increment: 5
store:
  backend: sqlite
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.Username != "operator" {
		t.Errorf("Auth.Username = %q, want operator", cfg.Auth.Username)
	}
	if cfg.Auth.Password != "manusia" {
		t.Errorf("Auth.Password = %q, defaults should fill unset keys", cfg.Auth.Password)
	}
	if cfg.Task.Increment != 5 {
		t.Errorf("Task.Increment = %d, want 5", cfg.Task.Increment)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("task.increment", 0)
	viper.Set("store.backend", "floppy")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail on invalid values")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("err type = %T, want ValidationErrors", err)
	}
	if len(verrs) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(verrs), verrs)
	}
	if !strings.Contains(err.Error(), "store.backend") {
		t.Errorf("error should mention store.backend: %v", err)
	}
}
