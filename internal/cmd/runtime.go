package cmd

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/elitectl/internal/auth"
	"github.com/Iron-Ham/elitectl/internal/config"
	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/Iron-Ham/elitectl/internal/event"
	"github.com/Iron-Ham/elitectl/internal/logging"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/store"
	"github.com/Iron-Ham/elitectl/internal/target"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// runtime is everything a command needs to act on the session.
type runtime struct {
	cfg       *config.Config
	sessionID string
	backend   string
	logger    *logging.Logger
	store     store.Store
	bus       *event.Bus
	ctrl      *session.Controller
}

// newRuntime loads the configuration and builds a controller on top of the
// configured store. Callers must call close.
func newRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &runtime{
		cfg:       cfg,
		sessionID: uuid.NewString(),
		backend:   cfg.Store.Backend,
		logger:    logging.NopLogger(),
	}
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		rt.backend = store.BackendMemory
	}

	if cfg.Logging.Enabled {
		logger, err := logging.NewLogger(config.StateDir(), logging.ParseLevel(cfg.Logging.Level))
		if err != nil {
			printWarning(cmd, "logging disabled: %v", err)
		} else {
			rt.logger = logger
		}
	}
	rt.logger = rt.logger.WithSession(rt.sessionID).WithComponent("cli")
	rt.logger.Debug("command started", "command", cmd.CommandPath(), "backend", rt.backend)

	rt.store, err = store.Open(ctx, store.Options{
		Backend:     rt.backend,
		Dir:         cfg.Store.ResolveDir(),
		SQLitePath:  cfg.Store.ResolveSQLitePath(),
		RedisURL:    cfg.Store.RedisURL,
		RedisPrefix: cfg.Store.RedisPrefix,
	})
	if err != nil {
		rt.logger.LogError("failed to open store", err, "backend", rt.backend)
		rt.close()
		return nil, errors.Wrapf(err, "failed to open %s store", rt.backend)
	}

	verifier, err := auth.NewStaticVerifier(auth.Credentials{
		Username:     cfg.Auth.Username,
		Password:     cfg.Auth.Password,
		PasswordHash: cfg.Auth.PasswordHash,
	})
	if err != nil {
		rt.close()
		return nil, err
	}

	validator, err := target.NewValidator(cfg.Task.TargetPattern)
	if err != nil {
		rt.close()
		return nil, err
	}

	rt.bus = event.NewBus(rt.logger)
	rt.bus.SubscribeAll(func(e event.Event) {
		rt.logger.Debug("event published", "type", e.EventType())
	})

	rt.ctrl, err = session.New(ctx, session.Config{
		Store:     rt.store,
		Verifier:  verifier,
		Validator: validator,
		Bus:       rt.bus,
		Logger:    rt.logger,
		Options: session.Options{
			Increment: cfg.Task.Increment,
			Interval:  cfg.Task.Interval(),
			AuthDelay: cfg.Auth.Delay(),
		},
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

// watchDir is the directory to watch for writes from other processes, or ""
// when the backend is not file based.
func (rt *runtime) watchDir() string {
	if rt.backend != store.BackendFile {
		return ""
	}
	return rt.cfg.Store.ResolveDir()
}

// acquireLock takes the driver lock so only one process ticks a task at a time.
func (rt *runtime) acquireLock() (*store.Lock, error) {
	if rt.backend == store.BackendMemory {
		return nil, nil
	}
	lock, err := store.AcquireLock(config.StateDir(), rt.sessionID, rt.logger)
	if err != nil {
		return nil, fmt.Errorf("cannot drive the session: %w", err)
	}
	return lock, nil
}

func (rt *runtime) close() {
	if rt.store != nil {
		if err := rt.store.Close(); err != nil {
			rt.logger.LogError("failed to close store", err)
		}
	}
	_ = rt.logger.Close()
}

func printWarning(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", args...)
}
