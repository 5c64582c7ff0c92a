// Package tui implements the interactive terminal front end: a login panel,
// the target/progress panel, a status log, toasts and the completion popup.
package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/Iron-Ham/elitectl/internal/logging"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/store"
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program
type App struct {
	program  *tea.Program
	model    Model
	watchDir string
	logger   *logging.Logger
}

// New creates a new TUI application
func New(ctrl *session.Controller, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &App{
		model:  NewModel(ctrl, opts),
		logger: logger.WithComponent("app"),
	}
}

// WatchStore makes the app reload session state whenever another process
// rewrites a persisted key in dir. Only meaningful for the file backend.
func (a *App) WatchStore(dir string) *App {
	a.watchDir = dir
	return a
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.program = tea.NewProgram(
		a.model.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			a.program.Send(tea.Quit())
		case <-ctx.Done():
		}
	}()

	if a.watchDir != "" {
		w, err := store.Watch(a.watchDir, []string{store.KeyProgress, store.KeyLoggedIn}, func(key string) {
			a.program.Send(storeChangedMsg{key: key})
		}, a.logger)
		if err != nil {
			// The UI works without live reload.
			a.logger.Warn("store watch unavailable", "dir", a.watchDir, "error", err)
		} else {
			defer w.Close()
		}
	}

	a.logger.Info("tui started")
	_, err := a.program.Run()
	a.logger.Info("tui stopped")

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
