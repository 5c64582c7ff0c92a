package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/config"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/store"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusOutput string

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "output format (text, json, yaml)")
}

// statusReport is the machine readable form of 'elitectl status'.
type statusReport struct {
	Authenticated bool        `json:"authenticated" yaml:"authenticated"`
	Progress      int         `json:"progress" yaml:"progress"`
	Phase         string      `json:"phase" yaml:"phase"`
	Backend       string      `json:"backend" yaml:"backend"`
	Driver        *driverInfo `json:"driver,omitempty" yaml:"driver,omitempty"`
}

// driverInfo describes the process holding the driver lock.
type driverInfo struct {
	PID       int    `json:"pid" yaml:"pid"`
	Hostname  string `json:"hostname" yaml:"hostname"`
	SessionID string `json:"session_id" yaml:"session_id"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	state := rt.ctrl.State()
	report := statusReport{
		Authenticated: state.Authenticated,
		Progress:      state.Progress,
		Phase:         storedPhase(state).String(),
		Backend:       rt.backend,
	}
	// A lock left by a crashed driver is not reported.
	if lock, err := store.ReadLock(filepath.Join(config.StateDir(), store.LockFileName)); err == nil && lock.Alive() {
		report.Driver = &driverInfo{PID: lock.PID, Hostname: lock.Hostname, SessionID: lock.SessionID}
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(statusOutput) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "text":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", statusOutput)
	}

	loggedIn := "no"
	if report.Authenticated {
		loggedIn = "yes"
	}
	fmt.Fprintf(out, "Logged in: %s\n", loggedIn)
	fmt.Fprintf(out, "Progress:  %d%%\n", report.Progress)
	fmt.Fprintf(out, "Phase:     %s\n", report.Phase)
	fmt.Fprintf(out, "Backend:   %s\n", report.Backend)
	if report.Driver != nil {
		fmt.Fprintf(out, "Driver:    PID %d on %s\n", report.Driver.PID, report.Driver.Hostname)
	}
	return nil
}

// storedPhase derives the phase a fresh process sees from persisted state.
// Running only exists inside the driving process.
func storedPhase(state session.State) session.Phase {
	if state.Progress >= session.MaxProgress {
		return session.PhaseComplete
	}
	return session.PhaseIdle
}
