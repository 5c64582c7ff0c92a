package tui

import (
	"context"
	"io"
	"time"

	"github.com/Iron-Ham/elitectl/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Messages

// clockMsg refreshes the header clock.
type clockMsg time.Time

// taskTickMsg is one scheduler tick for the run with the given generation.
// Ticks whose generation no longer matches the controller are dropped, which
// is how a reset cancels ticks already in flight.
type taskTickMsg struct {
	generation uint64
}

// authResultMsg carries the outcome of a login attempt.
type authResultMsg struct {
	username string
	state    session.State
	err      error
}

type toastExpiredMsg struct {
	id int
}

// storeChangedMsg reports that another process rewrote a persisted key.
type storeChangedMsg struct {
	key string
}

// Commands

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func taskTick(interval time.Duration, generation uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return taskTickMsg{generation: generation}
	})
}

// authenticate runs the login, including its simulated delay, off the update
// loop.
func authenticate(ctx context.Context, ctrl *session.Controller, username, password string) tea.Cmd {
	return func() tea.Msg {
		state, err := ctrl.Authenticate(ctx, username, password)
		return authResultMsg{username: username, state: state, err: err}
	}
}

func expireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// ringBell returns a command that outputs a terminal bell character.
// It stands in for haptic feedback.
func ringBell(w io.Writer) tea.Cmd {
	return func() tea.Msg {
		// Writing directly works even when Bubbletea is in alt-screen mode
		_, _ = w.Write([]byte{'\a'})
		return nil
	}
}
