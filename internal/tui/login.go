package tui

import (
	"strings"

	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Login status lines.
const (
	statusGranted = "ACCESS GRANTED"
	statusDenied  = "ACCESS DENIED"
)

// submitLogin moves from username to password on the first Enter and starts
// the authentication on the second.
func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	if m.authenticating {
		return m, nil
	}
	if m.focus == fieldUsername {
		return m, m.setFocus(fieldPassword)
	}

	// Surrounding whitespace is dropped here, as the form always did; the
	// controller itself compares exactly.
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := strings.TrimSpace(m.inputs[fieldPassword].Value())

	m.authenticating = true
	m.loginStatus = ""
	m.logger.Debug("login submitted", "username", username)
	return m, authenticate(m.ctx, m.ctrl, username, password)
}

func (m Model) handleAuthResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.authenticating = false

	switch {
	case errors.Is(msg.err, errors.ErrInvalidCredentials):
		m.loginGranted = false
		m.loginStatus = statusDenied
		m.addStatus("Authentication failed - Invalid credentials")
		m.inputs[fieldPassword].SetValue("")
		return m, tea.Batch(m.setFocus(fieldPassword), m.vibrate())

	case msg.state.Authenticated:
		m.loginGranted = true
		m.loginStatus = statusGranted
		m.addStatus("=== AUTHENTICATION SUCCESSFUL ===", "User: "+msg.username+" authorized")

		toastText := "Access granted"
		if msg.err != nil {
			// Logged in for this run, but the flag did not reach the store.
			m.logger.LogError("login not persisted", msg.err)
			toastText = "Access granted - " + errors.UserMessage(msg.err)
		}
		cmds := []tea.Cmd{m.showToast(toastText), m.vibrate(), m.enterMain()}
		return m, tea.Batch(cmds...)

	default:
		m.loginGranted = false
		m.loginStatus = errors.UserMessage(msg.err)
		m.logger.LogError("login failed", msg.err)
		m.addStatus("Authentication error - " + m.loginStatus)
		return m, m.vibrate()
	}
}

// enterMain switches to the main panel and focuses the target input.
func (m *Model) enterMain() tea.Cmd {
	m.screen = screenMain
	m.resetLoginForm()
	return m.targetInput.Focus()
}

// logout returns to the login panel. A running task keeps ticking.
func (m Model) logout() (tea.Model, tea.Cmd) {
	if _, err := m.ctrl.Logout(); err != nil {
		m.logger.LogError("logout not persisted", err)
	}

	m.screen = screenLogin
	m.targetInput.Blur()
	m.loginStatus = ""
	m.addStatus("=== USER LOGGED OUT ===")

	cmds := []tea.Cmd{m.resetLoginForm(), m.showToast("Logged out successfully"), m.vibrate()}
	return m, tea.Batch(cmds...)
}

// resetLoginForm clears both fields, hides the password and hint, and
// focuses the username.
func (m *Model) resetLoginForm() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.showPassword = false
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.showHint = false
	if m.screen == screenLogin {
		m.loginStatus = ""
		return m.setFocus(fieldUsername)
	}
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	return nil
}

// setFocus focuses login field i and blurs the other one.
func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *Model) togglePassword() {
	m.showPassword = !m.showPassword
	if m.showPassword {
		m.inputs[fieldPassword].EchoMode = textinput.EchoNormal
	} else {
		m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	}
}
