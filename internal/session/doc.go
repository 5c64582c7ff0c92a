// Package session implements the session and progress controller.
//
// A [Controller] owns two persisted values, the authenticated flag and a
// progress percentage in [0, 100], and drives a simulated task that raises the
// progress by a fixed increment on every tick until it reaches 100.
//
// # State Machine
//
// The task moves through three phases:
//
//	idle ──StartTask──▶ running ──Tick (progress == 100)──▶ complete
//	  ▲                    │                                    │
//	  └────────Reset───────┴────────────────Reset───────────────┘
//
// StartTask while running is a no-op. Tick outside of running is a no-op.
// Completion is published exactly once per run.
//
// # Ticks
//
// The controller never starts timers itself. A driver calls [Controller.Tick]
// on every discrete tick: [RunTask] does so from a [Scheduler], and the TUI
// does so from Bubble Tea's tea.Tick. Tests use [ManualScheduler] to fire ticks
// on demand.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use. Authenticate waits out
// its simulated delay without holding the lock.
package session
