package tui

import "time"

// DefaultStatusLogLines is the status log capacity when none is configured.
const DefaultStatusLogLines = 10

// StatusEntry is one timestamped status log line.
type StatusEntry struct {
	Time time.Time
	Text string
}

// StatusLog keeps the most recent status lines, oldest first.
type StatusLog struct {
	max     int
	entries []StatusEntry
}

// NewStatusLog creates a log holding at most max entries.
func NewStatusLog(max int) *StatusLog {
	if max <= 0 {
		max = DefaultStatusLogLines
	}
	return &StatusLog{max: max}
}

// Add appends a line, dropping the oldest once the log is full.
func (l *StatusLog) Add(at time.Time, text string) {
	l.entries = append(l.entries, StatusEntry{Time: at, Text: text})
	if over := len(l.entries) - l.max; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Entries returns the current lines, oldest first.
func (l *StatusLog) Entries() []StatusEntry {
	return l.entries
}

// Len returns the number of lines held.
func (l *StatusLog) Len() int {
	return len(l.entries)
}

// flavorSteps are the cosmetic status lines printed as the bar passes each
// step. They have no effect on the task.
var flavorSteps = []struct {
	at   int
	text string
}{
	{20, "Scanning target network..."},
	{40, "Synchronizing protocols..."},
	{60, "Injecting delay parameters..."},
	{80, "Finalizing sequence..."},
}

// flavorLines returns the flavor lines for every step crossed when progress
// moved from prev to cur.
func flavorLines(prev, cur int) []string {
	var out []string
	for _, s := range flavorSteps {
		if prev < s.at && cur >= s.at {
			out = append(out, s.text)
		}
	}
	return out
}

// progressSteps are the step markers under the progress bar and the progress
// at which each becomes active.
var progressSteps = []struct {
	at    int
	label string
}{
	{0, "INIT"},
	{20, "SCAN"},
	{40, "SYNC"},
	{60, "INJECT"},
	{80, "FINAL"},
}

// activeSteps returns how many step markers are lit at progress p.
func activeSteps(p int) int {
	n := 0
	for _, s := range progressSteps {
		if p >= s.at {
			n++
		}
	}
	return n
}
