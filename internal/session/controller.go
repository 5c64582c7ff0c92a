package session

import (
	"context"
	"sync"
	"time"

	"github.com/Iron-Ham/elitectl/internal/auth"
	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/Iron-Ham/elitectl/internal/event"
	"github.com/Iron-Ham/elitectl/internal/logging"
	"github.com/Iron-Ham/elitectl/internal/store"
	"github.com/Iron-Ham/elitectl/internal/target"
)

// Default task and login timings.
const (
	DefaultIncrement = 2
	DefaultInterval  = 100 * time.Millisecond
	DefaultAuthDelay = 800 * time.Millisecond
)

// Options tunes the simulated task and login.
type Options struct {
	// Increment is added to progress on every tick. Must be positive.
	Increment int
	// Interval is the tick period drivers should use.
	Interval time.Duration
	// AuthDelay is the simulated verification delay. Zero disables it.
	AuthDelay time.Duration
}

// DefaultOptions returns the standard increment, interval and login delay.
func DefaultOptions() Options {
	return Options{
		Increment: DefaultIncrement,
		Interval:  DefaultInterval,
		AuthDelay: DefaultAuthDelay,
	}
}

// Config holds the collaborators of a Controller.
type Config struct {
	Store     store.Store       // required
	Verifier  auth.Verifier     // required
	Validator *target.Validator // defaults to the +62* pattern
	Bus       *event.Bus        // defaults to a private bus
	Logger    *logging.Logger   // defaults to NopLogger
	Options   Options
}

// Controller is the session and progress state machine.
type Controller struct {
	mu sync.Mutex

	store     store.Store
	verifier  auth.Verifier
	validator *target.Validator
	bus       *event.Bus
	logger    *logging.Logger
	opts      Options

	state      State
	phase      Phase
	target     string
	generation uint64
}

// New builds a Controller and loads the persisted state from cfg.Store.
func New(ctx context.Context, cfg Config) (*Controller, error) {
	if cfg.Store == nil {
		return nil, errors.NewValidationError("store is required").WithField("store")
	}
	if cfg.Verifier == nil {
		return nil, errors.NewValidationError("credential verifier is required").WithField("verifier")
	}

	opts := cfg.Options
	if opts.Increment <= 0 {
		return nil, errors.NewValidationError("increment must be positive").
			WithField("task.increment").WithValue(opts.Increment)
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.AuthDelay < 0 {
		opts.AuthDelay = 0
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	validator := cfg.Validator
	if validator == nil {
		var err error
		validator, err = target.NewValidator(target.DefaultPattern)
		if err != nil {
			return nil, err
		}
	}
	bus := cfg.Bus
	if bus == nil {
		bus = event.NewBus(logger)
	}

	c := &Controller{
		store:     cfg.Store,
		verifier:  cfg.Verifier,
		validator: validator,
		bus:       bus,
		logger:    logger.WithComponent("controller"),
		opts:      opts,
		phase:     PhaseIdle,
	}

	state, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.state = state
	c.logger.Info("session loaded", "authenticated", state.Authenticated, "progress", state.Progress)
	return c, nil
}

// load reads both persisted keys. Missing keys fall back to their zero values.
func (c *Controller) load(ctx context.Context) (State, error) {
	var s State

	raw, err := c.store.Get(ctx, store.KeyProgress)
	switch {
	case err == nil:
		s.Progress = parseProgress(raw)
	case !errors.Is(err, store.ErrNotFound):
		return s, errors.NewStoreError("failed to load progress", err).WithKey(store.KeyProgress)
	}

	raw, err = c.store.Get(ctx, store.KeyLoggedIn)
	switch {
	case err == nil:
		s.Authenticated = parseLoggedIn(raw)
	case !errors.Is(err, store.ErrNotFound):
		return s, errors.NewStoreError("failed to load login flag", err).WithKey(store.KeyLoggedIn)
	}

	return s, nil
}

// Authenticate waits the simulated delay and then checks the credentials.
// A rejected pair returns an AuthError matching errors.ErrInvalidCredentials and
// leaves the session logged out; progress is never touched. Cancelling ctx
// aborts the attempt without changing state.
func (c *Controller) Authenticate(ctx context.Context, username, password string) (State, error) {
	if c.opts.AuthDelay > 0 {
		timer := time.NewTimer(c.opts.AuthDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return c.State(), errors.Wrap(errors.ErrCanceled, "authenticate")
		case <-timer.C:
		}
	}

	verr := c.verifier.Verify(ctx, username, password)
	if verr != nil && !errors.Is(verr, errors.ErrInvalidCredentials) {
		return c.State(), verr
	}

	c.mu.Lock()
	c.state.Authenticated = verr == nil
	perr := c.persistLoggedIn(context.WithoutCancel(ctx))
	state := c.state
	c.mu.Unlock()

	if verr != nil {
		c.logger.Warn("authentication failed", "username", username)
		return state, verr
	}

	c.logger.Info("authentication succeeded", "username", username)
	c.bus.Publish(event.NewSessionAuthenticatedEvent(username))
	return state, perr
}

// Logout clears the authenticated flag. Progress and any running task are
// left as they are.
func (c *Controller) Logout() (State, error) {
	c.mu.Lock()
	c.state.Authenticated = false
	err := c.persistLoggedIn(context.Background())
	state := c.state
	c.mu.Unlock()

	c.logger.Info("logged out")
	c.bus.Publish(event.NewSessionLoggedOutEvent())
	return state, err
}

// StartTask validates target and moves the task to running. While a task is
// already running the call is ignored and returns false without error, even
// for an invalid target. Otherwise an invalid target returns a
// ValidationError and changes nothing.
func (c *Controller) StartTask(rawTarget string) (bool, error) {
	c.mu.Lock()
	if c.phase == PhaseRunning {
		running := c.target
		c.mu.Unlock()
		c.logger.Debug("start ignored, task already running", "target", running)
		return false, nil
	}

	tgt, err := c.validator.Validate(rawTarget)
	if err != nil {
		c.mu.Unlock()
		c.logger.Debug("target rejected", "target", rawTarget)
		return false, err
	}

	c.phase = PhaseRunning
	c.target = tgt
	c.generation++
	started := event.NewTaskStartedEvent(tgt, c.generation, c.state.Progress)
	c.mu.Unlock()

	c.logger.WithPhase(PhaseRunning.String()).Info("task started",
		"target", tgt, "generation", started.Generation, "progress", started.Progress)
	c.bus.Publish(started)
	return true, nil
}

// Tick advances the run identified by generation by one increment. A tick
// for an earlier run, or one arriving when no task is running, is ignored, so
// a driver that raced a Reset and a new StartTask cannot advance the new run.
// Events are published after the lock is released so handlers may call back
// into the controller.
func (c *Controller) Tick(generation uint64) TickResult {
	c.mu.Lock()
	if c.phase != PhaseRunning || generation != c.generation {
		res := TickResult{Progress: c.state.Progress, Generation: c.generation}
		c.mu.Unlock()
		return res
	}

	c.state.Progress = clampProgress(c.state.Progress + c.opts.Increment)
	res := TickResult{
		Advanced:   true,
		Progress:   c.state.Progress,
		Generation: c.generation,
		Err:        c.persistProgress(context.Background()),
	}
	tgt := c.target
	if c.state.Progress >= MaxProgress {
		c.phase = PhaseComplete
		res.Completed = true
	}
	c.mu.Unlock()

	c.bus.Publish(event.NewTaskProgressEvent(res.Generation, res.Progress))
	if res.Completed {
		c.logger.WithPhase(PhaseComplete.String()).Info("task completed", "target", tgt, "generation", res.Generation)
		c.bus.Publish(event.NewTaskCompletedEvent(tgt, res.Generation))
	}
	return res
}

// Reset sets progress to 0 and returns the task to idle, cancelling a running
// task if there is one.
func (c *Controller) Reset() (State, error) {
	c.mu.Lock()
	interrupted := c.phase == PhaseRunning
	c.state.Progress = MinProgress
	c.phase = PhaseIdle
	c.target = ""
	if interrupted {
		// Invalidate ticks already scheduled for the cancelled run.
		c.generation++
	}
	err := c.persistProgress(context.Background())
	state := c.state
	c.mu.Unlock()

	c.logger.WithPhase(PhaseIdle.String()).Info("session reset", "interrupted", interrupted)
	c.bus.Publish(event.NewTaskResetEvent(interrupted))
	return state, err
}

// Reload re-reads the persisted values, picking up changes made by another
// process. It does nothing while a task is running.
func (c *Controller) Reload(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseRunning {
		return c.state, nil
	}

	s, err := c.load(ctx)
	if err != nil {
		return c.state, err
	}
	if s != c.state {
		c.logger.Debug("state reloaded", "authenticated", s.Authenticated, "progress", s.Progress)
	}
	c.state = s
	return c.state, nil
}

// State returns a snapshot of the persisted state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase returns the current task phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Target returns the target of the current or last completed run.
func (c *Controller) Target() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Generation returns the run counter. It changes on every start and on every
// reset that interrupts a running task.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Bus returns the event bus the controller publishes on.
func (c *Controller) Bus() *event.Bus {
	return c.bus
}

// Validator returns the target validator.
func (c *Controller) Validator() *target.Validator {
	return c.validator
}

func (c *Controller) persistProgress(ctx context.Context) error {
	if err := c.store.Set(ctx, store.KeyProgress, formatProgress(c.state.Progress)); err != nil {
		c.logger.Error("failed to persist progress", "error", err)
		return errors.NewStoreError("failed to persist progress", err).WithKey(store.KeyProgress)
	}
	return nil
}

func (c *Controller) persistLoggedIn(ctx context.Context) error {
	if err := c.store.Set(ctx, store.KeyLoggedIn, formatLoggedIn(c.state.Authenticated)); err != nil {
		c.logger.Error("failed to persist login flag", "error", err)
		return errors.NewStoreError("failed to persist login flag", err).WithKey(store.KeyLoggedIn)
	}
	return nil
}
