package tui

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/target"
	"github.com/Iron-Ham/elitectl/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.popup != "":
		b.WriteString(m.renderPopup())
	case m.screen == screenMain:
		b.WriteString(m.renderMainPanel())
	default:
		b.WriteString(m.renderLoginPanel())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusLog())

	if m.toast != nil {
		b.WriteString("\n")
		b.WriteString(styles.Toast.Render(m.toast.text))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := styles.Header.Render("ELITE CONTROL")
	clock := styles.HeaderClock.Render(m.clock.Format("15:04:05"))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(clock)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + clock
}

func (m Model) renderLoginPanel() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("SYSTEM ACCESS"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("USERNAME"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldUsername].View())
	b.WriteString("\n\n")

	eye := "hidden"
	if m.showPassword {
		eye = "visible"
	}
	b.WriteString(styles.Label.Render("PASSWORD") + " " + styles.Dim.Render("("+eye+")"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	if m.authenticating {
		b.WriteString(styles.ButtonBusy.Render("AUTHENTICATING..."))
	} else {
		b.WriteString(styles.Button.Render("LOGIN"))
	}

	if m.loginStatus != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.LoginStatusStyle(m.loginGranted).Render(m.loginStatus))
	}

	if m.showHint && m.opts.Hint != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.HintBox.Render(m.opts.Hint))
	}

	return styles.Panel.Render(b.String())
}

func (m Model) renderMainPanel() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("DELAY INJECTION"))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render("TARGET NUMBER"))
	b.WriteString("\n")
	b.WriteString(m.targetInput.View())
	b.WriteString("\n")

	number := strings.TrimSpace(m.targetInput.Value())
	if number == "" {
		b.WriteString(styles.PreviewEmpty.Render(target.EmptyPreview))
	} else {
		b.WriteString(styles.Preview.Render(target.Preview(number)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.progressBar.ViewAs(float64(m.shown) / 100))
	b.WriteString(" ")
	b.WriteString(styles.ProgressValue.Render(fmt.Sprintf("%d%%", m.shown)))
	b.WriteString("\n")
	b.WriteString(renderSteps(m.shown))
	b.WriteString("\n\n")

	if m.ctrl.Phase() == session.PhaseRunning {
		b.WriteString(styles.ButtonBusy.Render("PROCESSING..."))
	} else {
		b.WriteString(styles.Button.Render("INITIATE DELAY"))
	}

	bell := "off"
	if m.opts.Bell {
		bell = "on"
	}
	b.WriteString("  ")
	b.WriteString(styles.Dim.Render("bell: " + bell))

	return styles.Panel.Render(b.String())
}

// renderSteps draws the step markers under the progress bar.
func renderSteps(progress int) string {
	active := activeSteps(progress)
	parts := make([]string, len(progressSteps))
	for i, s := range progressSteps {
		marker := "○ "
		if i < active {
			marker = "● "
		}
		parts[i] = styles.StepStyle(i < active).Render(marker + s.label)
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderPopup() string {
	body := m.popup + "\n\n" + styles.Dim.Render("press enter to close")
	popup := styles.Popup.Render(body)
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, popup)
	}
	return popup
}

func (m Model) renderStatusLog() string {
	// Border and padding of StatusBox.
	maxWidth := m.width - 4
	var lines []string
	for _, e := range m.statusLog.Entries() {
		line := styles.StatusTime.Render("["+e.Time.Format("15:04:05")+"]") + " " + styles.StatusText.Render(e.Text)
		lines = append(lines, truncateLine(line, maxWidth))
	}
	if m.statusLog.Len() == 0 {
		lines = append(lines, styles.Dim.Render("no activity"))
	}
	return styles.StatusBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	var parts []string
	for _, b := range m.keys.HelpLine(m.mode()) {
		parts = append(parts, styles.HelpKey.Render(b.String())+" "+styles.HelpDesc.Render(b.Description))
	}
	return truncateLine(strings.Join(parts, styles.HelpDesc.Render(" · ")), m.width)
}

// truncateLine cuts a styled line to maxWidth columns, ending it with "...".
// A non-positive maxWidth means the terminal size is not known yet.
func truncateLine(s string, maxWidth int) string {
	if maxWidth <= 0 || lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return "..."
	}
	return ansi.Truncate(s, maxWidth, "...")
}
