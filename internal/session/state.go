package session

import (
	"strconv"
	"strings"
)

// Progress bounds.
const (
	MinProgress = 0
	MaxProgress = 100
)

// Phase is the lifecycle phase of the progress task.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhaseComplete Phase = "complete"
)

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// State is the persisted part of a session.
type State struct {
	Authenticated bool `json:"authenticated" yaml:"authenticated"`
	Progress      int  `json:"progress" yaml:"progress"`
}

// TickResult reports what a single Tick did.
type TickResult struct {
	// Advanced is false when the tick was ignored: no task was running or the
	// tick belonged to an earlier run.
	Advanced bool
	// Progress after the tick.
	Progress int
	// Completed is true only on the tick that moved the task to complete.
	Completed bool
	// Generation of the run that consumed the tick.
	Generation uint64
	// Err is set when the new progress could not be persisted. The in-memory
	// state has still advanced.
	Err error
}

// clampProgress forces p into [MinProgress, MaxProgress].
func clampProgress(p int) int {
	if p < MinProgress {
		return MinProgress
	}
	if p > MaxProgress {
		return MaxProgress
	}
	return p
}

// parseProgress decodes a persisted progressValue. Anything that is not a
// decimal integer loads as 0; out-of-range values are clamped.
func parseProgress(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinProgress
	}
	return clampProgress(n)
}

// parseLoggedIn decodes a persisted loggedIn value. Only "true" is true.
func parseLoggedIn(raw string) bool {
	return raw == "true"
}

func formatProgress(p int) string {
	return strconv.Itoa(p)
}

func formatLoggedIn(v bool) string {
	return strconv.FormatBool(v)
}
