package tui

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/Iron-Ham/elitectl/internal/logging"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/tui/keymap"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Default toast lifetime.
const DefaultToastDuration = 3 * time.Second

// Options configures the TUI.
type Options struct {
	// Bell rings the terminal bell where a phone would vibrate.
	Bell bool
	// ToastDuration is how long a toast stays visible.
	ToastDuration time.Duration
	// StatusLogLines caps the status log.
	StatusLogLines int
	// Hint is the text shown by the hint toggle on the login panel.
	Hint string
	// BellWriter receives the bell character. Defaults to os.Stdout.
	BellWriter io.Writer
	// Logger defaults to NopLogger.
	Logger *logging.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

type screen int

const (
	screenLogin screen = iota
	screenMain
)

// Login form fields, in focus order.
const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

type toast struct {
	id   int
	text string
}

// Model is the Bubble Tea model for the whole UI.
type Model struct {
	ctx    context.Context
	ctrl   *session.Controller
	opts   Options
	keys   *keymap.Keymap
	logger *logging.Logger

	width  int
	height int
	clock  time.Time

	screen screen

	// Login panel
	inputs         [fieldCount]textinput.Model
	focus          int
	showPassword   bool
	showHint       bool
	authenticating bool
	loginStatus    string
	loginGranted   bool

	// Main panel
	targetInput textinput.Model
	progressBar progress.Model
	shown       int // progress as last rendered
	popup       string
	storeWarned bool

	statusLog *StatusLog
	toast     *toast
	toastSeq  int
	bells     int
	quitting  bool
}

// NewModel builds the UI around ctrl. The starting panel follows the
// persisted login flag.
func NewModel(ctrl *session.Controller, opts Options) Model {
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = DefaultToastDuration
	}
	if opts.BellWriter == nil {
		opts.BellWriter = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "> "
	username.CharLimit = 64

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "> "
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	tgt := textinput.New()
	tgt.Placeholder = "+62 812 3456 7890"
	tgt.Prompt = "> "
	tgt.CharLimit = 24

	bar := progress.New(progress.WithGradient("#AA0000", "#FF4444"), progress.WithoutPercentage())
	bar.Width = 40

	state := ctrl.State()
	m := Model{
		ctx:         context.Background(),
		ctrl:        ctrl,
		opts:        opts,
		keys:        keymap.DefaultKeymap(),
		logger:      opts.Logger.WithComponent("tui"),
		clock:       opts.Clock(),
		inputs:      [fieldCount]textinput.Model{username, password},
		targetInput: tgt,
		progressBar: bar,
		shown:       state.Progress,
		statusLog:   NewStatusLog(opts.StatusLogLines),
	}

	if state.Authenticated {
		m.screen = screenMain
		m.targetInput.Focus()
		m.addStatus("Session restored")
	} else {
		m.screen = screenLogin
		m.inputs[fieldUsername].Focus()
		m.addStatus("System ready - authentication required")
	}
	return m
}

// WithContext returns a copy of m whose login attempts are cancelled by ctx.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init starts the header clock and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(clockTick(), textinput.Blink)
}

// mode maps the model state to the active key binding set.
func (m Model) mode() keymap.Mode {
	switch {
	case m.popup != "":
		return keymap.ModePopup
	case m.screen == screenMain:
		return keymap.ModeMain
	default:
		return keymap.ModeLogin
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = progressWidth(msg.Width)
		return m, nil

	case clockMsg:
		m.clock = time.Time(msg)
		return m, clockTick()

	case authResultMsg:
		return m.handleAuthResult(msg)

	case taskTickMsg:
		return m.handleTaskTick(msg)

	case toastExpiredMsg:
		if m.toast != nil && m.toast.id == msg.id {
			m.toast = nil
		}
		return m, nil

	case storeChangedMsg:
		return m.handleStoreChanged(msg)
	}

	return m, nil
}

// handleKeypress routes bound keys to commands and everything else to the
// focused text input.
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.mode()
	if cmd, ok := m.keys.GetBinding(msg, mode); ok {
		return m.execute(cmd)
	}

	var cmd tea.Cmd
	switch mode {
	case keymap.ModeLogin:
		if m.authenticating {
			return m, nil
		}
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	case keymap.ModeMain:
		m.targetInput, cmd = m.targetInput.Update(msg)
	}
	return m, cmd
}

// execute runs a keymap command.
func (m Model) execute(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit

	// Login panel
	case keymap.CmdSubmitLogin:
		return m.submitLogin()
	case keymap.CmdNextField:
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case keymap.CmdPrevField:
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case keymap.CmdTogglePassword:
		m.togglePassword()
		return m, m.vibrate()
	case keymap.CmdToggleHint:
		m.showHint = !m.showHint
		return m, m.vibrate()
	case keymap.CmdClearForm:
		if m.authenticating {
			return m, nil
		}
		cmds := []tea.Cmd{m.resetLoginForm(), m.showToast("Form cleared"), m.vibrate()}
		return m, tea.Batch(cmds...)

	// Main panel
	case keymap.CmdStartTask:
		return m.startTask()
	case keymap.CmdReset:
		return m.resetAll()
	case keymap.CmdLogout:
		return m.logout()
	case keymap.CmdToggleBell:
		m.opts.Bell = !m.opts.Bell
		label := "Bell off"
		if m.opts.Bell {
			label = "Bell on"
		}
		return m, tea.Batch(m.showToast(label), m.vibrate())

	// Popup
	case keymap.CmdDismiss:
		m.popup = ""
		return m, nil
	}
	return m, nil
}

// addStatus appends a timestamped line to the status log.
func (m *Model) addStatus(lines ...string) {
	now := m.opts.Clock()
	for _, line := range lines {
		m.statusLog.Add(now, line)
	}
}

// showToast replaces the current toast and schedules its expiry.
func (m *Model) showToast(text string) tea.Cmd {
	m.toastSeq++
	m.toast = &toast{id: m.toastSeq, text: text}
	return expireToast(m.toastSeq, m.opts.ToastDuration)
}

// vibrate rings the bell when enabled.
func (m *Model) vibrate() tea.Cmd {
	if !m.opts.Bell {
		return nil
	}
	m.bells++
	return ringBell(m.opts.BellWriter)
}

// progressWidth sizes the bar to the terminal, within sane bounds.
func progressWidth(termWidth int) int {
	const minWidth, maxWidth = 20, 60
	w := termWidth - 20
	if w < minWidth {
		return minWidth
	}
	if w > maxWidth {
		return maxWidth
	}
	return w
}
