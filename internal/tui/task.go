package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/target"
	tea "github.com/charmbracelet/bubbletea"
)

// startTask validates the target and schedules the first tick.
func (m Model) startTask() (tea.Model, tea.Cmd) {
	if m.ctrl.Phase() == session.PhaseRunning {
		return m, nil
	}

	started, err := m.ctrl.StartTask(m.targetInput.Value())
	if err != nil {
		prefix := strings.TrimRight(m.ctrl.Validator().Pattern(), "*?")
		return m, tea.Batch(m.showToast(fmt.Sprintf("Enter valid %s number", prefix)), m.vibrate())
	}
	if !started {
		return m, nil
	}

	m.popup = ""
	m.shown = m.ctrl.State().Progress
	m.addStatus("=== INITIATING DELAY SEQUENCE ===", "Target: "+target.FormatNumber(m.ctrl.Target()))
	return m, tea.Batch(m.vibrate(), taskTick(m.ctrl.Options().Interval, m.ctrl.Generation()))
}

// handleTaskTick advances the controller on a live tick and reschedules the
// next one until completion.
func (m Model) handleTaskTick(msg taskTickMsg) (tea.Model, tea.Cmd) {
	if msg.generation != m.ctrl.Generation() {
		return m, nil
	}

	prev := m.shown
	res := m.ctrl.Tick(msg.generation)
	if !res.Advanced {
		return m, nil
	}
	m.shown = res.Progress

	var cmds []tea.Cmd
	if res.Err != nil && !m.storeWarned {
		m.storeWarned = true
		m.addStatus("Warning: " + errors.UserMessage(res.Err))
	}
	for _, line := range flavorLines(prev, res.Progress) {
		m.addStatus(line)
		cmds = append(cmds, m.vibrate())
	}

	if res.Completed {
		m.popup = target.CompletionMessage(m.ctrl.Target())
		m.addStatus(
			"=== DELAY SEQUENCE COMPLETE ===",
			"Target successfully compromised",
			"System ready for next target",
		)
		cmds = append(cmds, m.vibrate())
		return m, tea.Batch(cmds...)
	}

	cmds = append(cmds, taskTick(m.ctrl.Options().Interval, res.Generation))
	return m, tea.Batch(cmds...)
}

// resetAll clears progress, cancels a running task and empties the target.
func (m Model) resetAll() (tea.Model, tea.Cmd) {
	state, err := m.ctrl.Reset()
	if err != nil {
		m.logger.LogError("reset not persisted", err)
	}

	m.shown = state.Progress
	m.popup = ""
	m.targetInput.SetValue("")
	m.addStatus("=== SYSTEM RESET COMPLETE ===", "All progress cleared", "Ready for new target")
	return m, tea.Batch(m.showToast("System fully reset"), m.vibrate())
}

// handleStoreChanged picks up values written by another process. It is
// ignored mid-login and mid-task.
func (m Model) handleStoreChanged(msg storeChangedMsg) (tea.Model, tea.Cmd) {
	if m.authenticating || m.ctrl.Phase() == session.PhaseRunning {
		return m, nil
	}

	state, err := m.ctrl.Reload(context.WithoutCancel(m.ctx))
	if err != nil {
		m.logger.LogError("reload failed", err, "key", msg.key)
		return m, nil
	}
	m.shown = state.Progress

	switch {
	case state.Authenticated && m.screen == screenLogin:
		m.addStatus("Session authorized externally")
		return m, m.enterMain()
	case !state.Authenticated && m.screen == screenMain:
		m.screen = screenLogin
		m.targetInput.Blur()
		m.addStatus("Session closed externally")
		return m, m.resetLoginForm()
	}
	return m, nil
}
