// Package event defines the events published by the session controller.
package event

import "time"

// Event type identifiers, "category.action".
const (
	TypeSessionAuthenticated = "session.authenticated"
	TypeSessionLoggedOut     = "session.logged_out"
	TypeTaskStarted          = "task.started"
	TypeTaskProgress         = "task.progress"
	TypeTaskCompleted        = "task.completed"
	TypeTaskReset            = "task.reset"
)

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Session Events
// -----------------------------------------------------------------------------

// SessionAuthenticatedEvent is emitted after a successful login.
type SessionAuthenticatedEvent struct {
	baseEvent
	Username string
}

// NewSessionAuthenticatedEvent creates a SessionAuthenticatedEvent.
func NewSessionAuthenticatedEvent(username string) SessionAuthenticatedEvent {
	return SessionAuthenticatedEvent{
		baseEvent: newBaseEvent(TypeSessionAuthenticated),
		Username:  username,
	}
}

// SessionLoggedOutEvent is emitted when the session is closed.
type SessionLoggedOutEvent struct {
	baseEvent
}

// NewSessionLoggedOutEvent creates a SessionLoggedOutEvent.
func NewSessionLoggedOutEvent() SessionLoggedOutEvent {
	return SessionLoggedOutEvent{baseEvent: newBaseEvent(TypeSessionLoggedOut)}
}

// -----------------------------------------------------------------------------
// Task Events
// -----------------------------------------------------------------------------

// TaskStartedEvent is emitted when a progress task moves to running.
type TaskStartedEvent struct {
	baseEvent
	Target     string // Validated target as entered
	Generation uint64 // Run counter, incremented on every start
	Progress   int    // Progress the run resumes from
}

// NewTaskStartedEvent creates a TaskStartedEvent.
func NewTaskStartedEvent(target string, generation uint64, progress int) TaskStartedEvent {
	return TaskStartedEvent{
		baseEvent:  newBaseEvent(TypeTaskStarted),
		Target:     target,
		Generation: generation,
		Progress:   progress,
	}
}

// TaskProgressEvent is emitted on every tick of a running task.
type TaskProgressEvent struct {
	baseEvent
	Generation uint64
	Progress   int
}

// NewTaskProgressEvent creates a TaskProgressEvent.
func NewTaskProgressEvent(generation uint64, progress int) TaskProgressEvent {
	return TaskProgressEvent{
		baseEvent:  newBaseEvent(TypeTaskProgress),
		Generation: generation,
		Progress:   progress,
	}
}

// TaskCompletedEvent is emitted once when a running task reaches 100.
type TaskCompletedEvent struct {
	baseEvent
	Target     string
	Generation uint64
}

// NewTaskCompletedEvent creates a TaskCompletedEvent.
func NewTaskCompletedEvent(target string, generation uint64) TaskCompletedEvent {
	return TaskCompletedEvent{
		baseEvent:  newBaseEvent(TypeTaskCompleted),
		Target:     target,
		Generation: generation,
	}
}

// TaskResetEvent is emitted when progress is cleared.
type TaskResetEvent struct {
	baseEvent
	Interrupted bool // True if a running task was cancelled by the reset
}

// NewTaskResetEvent creates a TaskResetEvent.
func NewTaskResetEvent(interrupted bool) TaskResetEvent {
	return TaskResetEvent{
		baseEvent:   newBaseEvent(TypeTaskReset),
		Interrupted: interrupted,
	}
}
