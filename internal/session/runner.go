package session

import (
	"context"
)

// RunTask drives ctrl.Tick from sched until the task leaves the running phase
// or ctx is done. It returns the last tick result, and ctx.Err() if the
// context ended the run.
//
// RunTask does not start the task; call StartTask first. A Reset from another
// goroutine ends the loop on the next tick: the runner only ticks the
// generation it started with.
func RunTask(ctx context.Context, ctrl *Controller, sched Scheduler) (TickResult, error) {
	gen := ctrl.Generation()
	last := TickResult{Progress: ctrl.State().Progress, Generation: gen}
	if ctrl.Phase() != PhaseRunning {
		return last, nil
	}

	ticker := sched.Every(ctrl.Options().Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C():
			res := ctrl.Tick(gen)
			if !res.Advanced {
				// Reset or a newer run took over.
				return last, nil
			}
			last = res
			if last.Err != nil {
				return last, last.Err
			}
			if last.Completed {
				return last, nil
			}
		}
	}
}
