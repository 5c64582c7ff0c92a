// Package event provides a synchronous pub-sub bus that carries session and
// task lifecycle signals out of the controller.
//
// The controller publishes; the CLI, the headless task runner and the debug
// log subscribe. Publishers never know who listens.
//
// # Event Types
//
//   - [SessionAuthenticatedEvent] ("session.authenticated")
//   - [SessionLoggedOutEvent] ("session.logged_out")
//   - [TaskStartedEvent] ("task.started")
//   - [TaskProgressEvent] ("task.progress"), one per tick
//   - [TaskCompletedEvent] ("task.completed"), exactly once per run
//   - [TaskResetEvent] ("task.reset")
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine, in registration order, specific handlers before
// wildcard handlers. A panicking handler is recovered and logged and does not
// stop delivery to the rest.
//
//	bus := event.NewBus(logger)
//	bus.Subscribe(event.TypeTaskCompleted, func(e event.Event) {
//	    done := e.(event.TaskCompletedEvent)
//	    fmt.Println("finished", done.Target)
//	})
package event
