package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Iron-Ham/elitectl/internal/config"
	"github.com/Iron-Ham/elitectl/internal/event"
	"github.com/Iron-Ham/elitectl/internal/store"
	"github.com/Iron-Ham/elitectl/internal/target"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// setupEnv points every elitectl directory at a temp dir and removes the
// login delay.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("ELITECTL_AUTH_DELAY_MS", "0")
	return dir
}

// resetFlags restores every flag in the tree to its default, since the
// command tree is package global and flags keep values between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and stdin, returning stdout.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), err
}

func mustExecute(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	out, err := executeCommand(t, stdin, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

func readStatus(t *testing.T, extra ...string) statusReport {
	t.Helper()
	args := append([]string{"status", "-o", "json"}, extra...)
	out := mustExecute(t, "", args...)
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("status output is not JSON: %v\n%s", err, out)
	}
	return report
}

func TestRootCommand_Subcommands(t *testing.T) {
	want := []string{"start", "login", "logout", "reset", "status", "run", "hash-password", "config"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command is missing %q", name)
		}
	}
}

func TestStatus_FreshSession(t *testing.T) {
	setupEnv(t)

	report := readStatus(t)
	if report.Authenticated {
		t.Error("fresh session should not be authenticated")
	}
	if report.Progress != 0 {
		t.Errorf("Progress = %d, want 0", report.Progress)
	}
	if report.Phase != "idle" {
		t.Errorf("Phase = %q, want idle", report.Phase)
	}
	if report.Backend != "file" {
		t.Errorf("Backend = %q, want file", report.Backend)
	}
	if report.Driver != nil {
		t.Errorf("Driver = %+v, want nil", report.Driver)
	}
}

func TestStatus_DriverLock(t *testing.T) {
	tests := []struct {
		name       string
		pid        int
		wantDriver bool
	}{
		{"live driver", os.Getpid(), true},
		{"crashed driver", 999999999, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupEnv(t)
			dir := config.StateDir()
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatal(err)
			}
			data, _ := json.Marshal(map[string]any{"session_id": "s1", "pid": tt.pid, "hostname": "box"})
			if err := os.WriteFile(filepath.Join(dir, store.LockFileName), data, 0644); err != nil {
				t.Fatal(err)
			}

			report := readStatus(t)
			if got := report.Driver != nil; got != tt.wantDriver {
				t.Errorf("Driver = %+v, want present=%v", report.Driver, tt.wantDriver)
			}
			if tt.wantDriver && report.Driver.PID != tt.pid {
				t.Errorf("Driver.PID = %d, want %d", report.Driver.PID, tt.pid)
			}
		})
	}
}

func TestStatus_Formats(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "", "status")
	if !strings.Contains(out, "Logged in: no") || !strings.Contains(out, "Progress:  0%") {
		t.Errorf("text status = %q", out)
	}

	out = mustExecute(t, "", "status", "-o", "yaml")
	if !strings.Contains(out, "authenticated: false") || !strings.Contains(out, "progress: 0") {
		t.Errorf("yaml status = %q", out)
	}

	if _, err := executeCommand(t, "", "status", "-o", "xml"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestLogin_Logout(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "manusia\n", "login", "azfla")
	if !strings.Contains(out, "ACCESS GRANTED") {
		t.Errorf("login output = %q", out)
	}
	if !readStatus(t).Authenticated {
		t.Fatal("login should persist loggedIn=true")
	}

	out = mustExecute(t, "", "logout")
	if !strings.Contains(out, "Logged out") {
		t.Errorf("logout output = %q", out)
	}
	if readStatus(t).Authenticated {
		t.Error("logout should persist loggedIn=false")
	}
}

func TestLogin_PromptsForUsername(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "  azfla \nmanusia\n", "login")
	if !readStatus(t).Authenticated {
		t.Error("login with prompted username should succeed")
	}
}

func TestLogin_Rejected(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "manusia\n", "login", "azfla")

	_, err := executeCommand(t, "y\n", "login", "x")
	if err == nil {
		t.Fatal("login with wrong credentials should fail")
	}
	if !strings.Contains(err.Error(), "ACCESS DENIED") {
		t.Errorf("error = %q, want ACCESS DENIED", err)
	}
	if readStatus(t).Authenticated {
		t.Error("a rejected login should leave the session logged out")
	}
}

func TestRun_RequiresLogin(t *testing.T) {
	setupEnv(t)

	_, err := executeCommand(t, "", "run", "+6281234567890")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("run without login error = %v", err)
	}
}

func TestRun_InvalidTarget(t *testing.T) {
	setupEnv(t)
	mustExecute(t, "manusia\n", "login", "azfla")

	_, err := executeCommand(t, "", "run", "081234567890")
	if err == nil {
		t.Fatal("run with a non +62 target should fail")
	}
	if !strings.Contains(err.Error(), "+62*") {
		t.Errorf("error = %q, want the target pattern", err)
	}
	if got := readStatus(t).Progress; got != 0 {
		t.Errorf("Progress = %d after rejected target, want 0", got)
	}
}

func TestRun_ToCompletionThenReset(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("ELITECTL_TASK_INCREMENT", "50")
	t.Setenv("ELITECTL_TASK_INTERVAL_MS", "10")
	mustExecute(t, "manusia\n", "login", "azfla")

	out := mustExecute(t, "", "run", "+6281234567890")
	for _, want := range []string{"progress 50%", "progress 100%", target.CompletionMessage("+6281234567890")} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}

	report := readStatus(t)
	if report.Progress != 100 || report.Phase != "complete" {
		t.Errorf("status = %+v, want progress 100 complete", report)
	}
	if report.Driver != nil {
		t.Error("driver lock should be released after run")
	}
	if _, err := os.Stat(filepath.Join(dir, "state", "elitectl", "progressValue")); err != nil {
		t.Errorf("progressValue not persisted: %v", err)
	}

	out = mustExecute(t, "", "reset")
	if !strings.Contains(out, "Progress reset to 0%") {
		t.Errorf("reset output = %q", out)
	}
	report = readStatus(t)
	if report.Progress != 0 || !report.Authenticated {
		t.Errorf("status after reset = %+v, want progress 0 and still logged in", report)
	}
}

func TestRun_Quiet(t *testing.T) {
	setupEnv(t)
	t.Setenv("ELITECTL_TASK_INCREMENT", "100")
	t.Setenv("ELITECTL_TASK_INTERVAL_MS", "10")
	mustExecute(t, "manusia\n", "login", "azfla")

	out := mustExecute(t, "", "run", "-q", "+628123")
	if strings.Contains(out, "progress") {
		t.Errorf("quiet run printed progress:\n%s", out)
	}
	if !strings.Contains(out, target.CompletionSuffix) {
		t.Errorf("quiet run should still print the completion message:\n%s", out)
	}
}

func TestEphemeral_DoesNotPersist(t *testing.T) {
	setupEnv(t)

	mustExecute(t, "manusia\n", "login", "--ephemeral", "azfla")
	if readStatus(t).Authenticated {
		t.Error("an ephemeral login must not reach the file store")
	}
	if got := readStatus(t, "--ephemeral").Backend; got != "memory" {
		t.Errorf("Backend = %q, want memory", got)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	setupEnv(t)
	t.Setenv("ELITECTL_TASK_INCREMENT", "0")

	_, err := executeCommand(t, "", "status")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("status with bad config error = %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "rahasia\n", "hash-password", "--cost", "4")
	hash := strings.TrimSpace(out)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("rahasia")); err != nil {
		t.Fatalf("printed hash does not verify: %v", err)
	}

	t.Setenv("ELITECTL_AUTH_PASSWORD_HASH", hash)
	mustExecute(t, "rahasia\n", "login", "azfla")
	if !readStatus(t).Authenticated {
		t.Error("login against a password hash should succeed")
	}

	if _, err := executeCommand(t, "rahasia\n", "hash-password", "--cost", "99"); err == nil {
		t.Error("out of range cost should fail")
	}
	if _, err := executeCommand(t, "\n", "hash-password", "--cost", "4"); err == nil {
		t.Error("empty password should fail")
	}
}

func TestConfigInit(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "", "config", "init")
	if !strings.Contains(out, config.ConfigFile()) {
		t.Errorf("init output = %q", out)
	}
	if _, err := os.Stat(config.ConfigFile()); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if _, err := executeCommand(t, "", "config", "init"); err == nil {
		t.Error("second init should fail")
	}

	// The generated file must load cleanly.
	if _, err := executeCommand(t, "", "status"); err != nil {
		t.Errorf("status with generated config failed: %v", err)
	}
}

func TestConfigSet(t *testing.T) {
	setupEnv(t)

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{"int", "task.increment", "5", false},
		{"bool", "tui.bell", "false", false},
		{"string", "store.backend", "sqlite", false},
		{"unknown key", "task.speed", "5", true},
		{"bad int", "task.increment", "fast", true},
		{"bad bool", "tui.bell", "yes", true},
		{"fails validation", "task.increment", "0", true},
		{"bad backend", "store.backend", "etcd", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, "", "config", "set", tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("config set %s %s error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
		})
	}

	out := mustExecute(t, "", "config", "show")
	for _, want := range []string{"increment: 5", "bell: false", "backend: sqlite", "********"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigPath(t *testing.T) {
	setupEnv(t)

	out := mustExecute(t, "", "config", "path")
	if !strings.Contains(out, config.ConfigFile()) || !strings.Contains(out, config.StateDir()) {
		t.Errorf("config path output = %q", out)
	}
}

func TestLoginHint(t *testing.T) {
	rt := &runtime{cfg: config.Default()}
	if got := loginHint(rt); !strings.Contains(got, "manusia") {
		t.Errorf("loginHint() = %q, want the plain password", got)
	}

	rt.cfg.Auth.PasswordHash = "$2a$04$abcdefghijklmnopqrstuv"
	if got := loginHint(rt); strings.Contains(got, "Password") {
		t.Errorf("loginHint() = %q, must not reveal a hashed password", got)
	}
}

func TestProgressPrinter_Detach(t *testing.T) {
	bus := event.NewBus(nil)
	var buf bytes.Buffer
	printer := newProgressPrinter(&buf)

	detach := printer.attach(bus)
	if bus.SubscriptionCount() != 1 {
		t.Fatalf("SubscriptionCount() = %d after attach, want 1", bus.SubscriptionCount())
	}
	bus.Publish(event.NewTaskProgressEvent(1, 40))
	detach()
	bus.Publish(event.NewTaskProgressEvent(1, 60))

	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount() = %d after detach, want 0", bus.SubscriptionCount())
	}
	if got := buf.String(); got != "progress 40%\n" {
		t.Errorf("printed %q, want only the event before detach", got)
	}
}
