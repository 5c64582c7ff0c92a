package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/elitectl/internal/auth"
	"github.com/Iron-Ham/elitectl/internal/session"
	"github.com/Iron-Ham/elitectl/internal/store"
	"github.com/Iron-Ham/elitectl/internal/target"
	"github.com/Iron-Ham/elitectl/internal/tui/keymap"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestController(t *testing.T, st store.Store) *session.Controller {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	verifier, err := auth.NewStaticVerifier(auth.Credentials{
		Username: auth.DefaultUsername,
		Password: auth.DefaultPassword,
	})
	if err != nil {
		t.Fatal(err)
	}
	opts := session.DefaultOptions()
	opts.AuthDelay = 0
	ctrl, err := session.New(context.Background(), session.Config{
		Store:    st,
		Verifier: verifier,
		Options:  opts,
	})
	if err != nil {
		t.Fatal(err)
	}
	return ctrl
}

func newTestModel(t *testing.T, ctrl *session.Controller) (Model, *bytes.Buffer) {
	t.Helper()
	var bell bytes.Buffer
	m := NewModel(ctrl, Options{
		Bell:       true,
		Hint:       "Username: azfla",
		BellWriter: &bell,
		Clock:      func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	return m, &bell
}

// update feeds msg to m and returns the concrete model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// login drives the login form through a full attempt.
func login(t *testing.T, m Model, username, password string) Model {
	t.Helper()
	m = typeText(t, m, username)
	m, _ = update(t, m, key(tea.KeyEnter)) // to password
	m = typeText(t, m, password)

	m, cmd := update(t, m, key(tea.KeyEnter))
	if !m.authenticating {
		t.Fatal("model should be authenticating after submit")
	}
	if cmd == nil {
		t.Fatal("submit should return the authentication command")
	}
	msg := cmd()
	if _, ok := msg.(authResultMsg); !ok {
		t.Fatalf("auth command returned %T, want authResultMsg", msg)
	}
	m, _ = update(t, m, msg)
	return m
}

func lastStatus(m Model) string {
	entries := m.statusLog.Entries()
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1].Text
}

func TestNewModel_RestoresPanel(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn string
		want     keymap.Mode
	}{
		{"logged out", "false", keymap.ModeLogin},
		{"missing", "", keymap.ModeLogin},
		{"logged in", "true", keymap.ModeMain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			if tt.loggedIn != "" {
				_ = st.Set(context.Background(), store.KeyLoggedIn, tt.loggedIn)
			}
			m, _ := newTestModel(t, newTestController(t, st))
			if got := m.mode(); got != tt.want {
				t.Errorf("mode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ctrl := newTestController(t, nil)
	m, _ := newTestModel(t, ctrl)

	m = login(t, m, "azfla", "manusia")

	if m.authenticating {
		t.Error("authenticating should be cleared")
	}
	if m.loginStatus != statusGranted {
		t.Errorf("loginStatus = %q, want %q", m.loginStatus, statusGranted)
	}
	if m.mode() != keymap.ModeMain {
		t.Errorf("mode() = %v, want main", m.mode())
	}
	if !ctrl.State().Authenticated {
		t.Error("controller should be authenticated")
	}
	if m.toast == nil || m.toast.text != "Access granted" {
		t.Errorf("toast = %+v, want Access granted", m.toast)
	}
	if lastStatus(m) != "User: azfla authorized" {
		t.Errorf("last status = %q", lastStatus(m))
	}
	if m.inputs[fieldPassword].Value() != "" {
		t.Error("password field should be cleared after login")
	}
}

func TestLogin_TrimsInput(t *testing.T) {
	ctrl := newTestController(t, nil)
	m, _ := newTestModel(t, ctrl)

	m = login(t, m, "  azfla ", " manusia ")
	if m.mode() != keymap.ModeMain {
		t.Error("surrounding whitespace in the form should be ignored")
	}
}

func TestLogin_Failure(t *testing.T) {
	ctrl := newTestController(t, nil)
	m, _ := newTestModel(t, ctrl)
	bellsBefore := m.bells

	m = login(t, m, "x", "y")

	if m.loginStatus != statusDenied {
		t.Errorf("loginStatus = %q, want %q", m.loginStatus, statusDenied)
	}
	if m.mode() != keymap.ModeLogin {
		t.Errorf("mode() = %v, want login", m.mode())
	}
	if ctrl.State().Authenticated {
		t.Error("controller should not be authenticated")
	}
	if lastStatus(m) != "Authentication failed - Invalid credentials" {
		t.Errorf("last status = %q", lastStatus(m))
	}
	if m.bells == bellsBefore {
		t.Error("failed login should ring the bell")
	}
	if !strings.Contains(m.View(), statusDenied) {
		t.Error("view should show ACCESS DENIED")
	}
}

func TestLogin_IgnoresInputWhileAuthenticating(t *testing.T) {
	m, _ := newTestModel(t, newTestController(t, nil))
	m = typeText(t, m, "azfla")
	m, _ = update(t, m, key(tea.KeyEnter))
	m = typeText(t, m, "manusia")
	m, _ = update(t, m, key(tea.KeyEnter))

	m = typeText(t, m, "zzz")
	if got := m.inputs[fieldPassword].Value(); got != "manusia" {
		t.Errorf("password = %q, typing should be ignored while authenticating", got)
	}
	if _, cmd := update(t, m, key(tea.KeyEnter)); cmd != nil {
		t.Error("second submit while authenticating should do nothing")
	}
	if !strings.Contains(m.View(), "AUTHENTICATING...") {
		t.Error("view should show AUTHENTICATING...")
	}
}

func TestLoginForm_Toggles(t *testing.T) {
	m, _ := newTestModel(t, newTestController(t, nil))

	m, _ = update(t, m, key(tea.KeyCtrlP))
	if !m.showPassword {
		t.Error("ctrl+p should reveal the password")
	}
	m, _ = update(t, m, key(tea.KeyCtrlP))
	if m.showPassword {
		t.Error("second ctrl+p should hide the password")
	}

	m, _ = update(t, m, key(tea.KeyCtrlG))
	if !m.showHint || !strings.Contains(m.View(), "Username: azfla") {
		t.Error("ctrl+g should show the hint")
	}

	m = typeText(t, m, "someone")
	m, _ = update(t, m, key(tea.KeyCtrlL))
	if m.inputs[fieldUsername].Value() != "" || m.showHint {
		t.Error("clear should empty the form and hide the hint")
	}
	if m.toast == nil || m.toast.text != "Form cleared" {
		t.Errorf("toast = %+v, want Form cleared", m.toast)
	}
}

func TestLoginForm_FieldNavigation(t *testing.T) {
	m, _ := newTestModel(t, newTestController(t, nil))

	m, _ = update(t, m, key(tea.KeyTab))
	if m.focus != fieldPassword {
		t.Errorf("focus = %d after tab, want password", m.focus)
	}
	m, _ = update(t, m, key(tea.KeyTab))
	if m.focus != fieldUsername {
		t.Errorf("focus = %d after second tab, want username", m.focus)
	}
	m, _ = update(t, m, key(tea.KeyShiftTab))
	if m.focus != fieldPassword {
		t.Errorf("focus = %d after shift+tab, want password", m.focus)
	}
}

func loggedInModel(t *testing.T, st store.Store) (Model, *session.Controller) {
	t.Helper()
	if st == nil {
		st = store.NewMemoryStore()
	}
	_ = st.Set(context.Background(), store.KeyLoggedIn, "true")
	ctrl := newTestController(t, st)
	m, _ := newTestModel(t, ctrl)
	return m, ctrl
}

func TestStartTask_InvalidTarget(t *testing.T) {
	m, ctrl := loggedInModel(t, nil)
	m = typeText(t, m, "08123")

	m, _ = update(t, m, key(tea.KeyEnter))

	if ctrl.Phase() != session.PhaseIdle {
		t.Errorf("Phase = %v, want idle", ctrl.Phase())
	}
	if m.toast == nil || m.toast.text != "Enter valid +62 number" {
		t.Errorf("toast = %+v, want Enter valid +62 number", m.toast)
	}
}

func TestTask_RunsToCompletion(t *testing.T) {
	m, ctrl := loggedInModel(t, nil)
	m = typeText(t, m, "+6281234567890")

	m, cmd := update(t, m, key(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("start should schedule a tick")
	}
	if ctrl.Phase() != session.PhaseRunning {
		t.Fatalf("Phase = %v, want running", ctrl.Phase())
	}
	if !strings.Contains(m.View(), "PROCESSING...") {
		t.Error("view should show PROCESSING...")
	}

	gen := ctrl.Generation()
	for i := 0; i < 50; i++ {
		m, _ = update(t, m, taskTickMsg{generation: gen})
	}

	if ctrl.Phase() != session.PhaseComplete {
		t.Fatalf("Phase = %v, want complete", ctrl.Phase())
	}
	if m.shown != 100 {
		t.Errorf("shown = %d, want 100", m.shown)
	}
	wantPopup := "+62 812 3456 7890" + target.CompletionSuffix
	if m.popup != wantPopup {
		t.Errorf("popup = %q, want %q", m.popup, wantPopup)
	}
	if m.mode() != keymap.ModePopup {
		t.Errorf("mode() = %v, want popup", m.mode())
	}
	if lastStatus(m) != "System ready for next target" {
		t.Errorf("last status = %q", lastStatus(m))
	}
	if m.statusLog.Len() > DefaultStatusLogLines {
		t.Errorf("status log has %d lines, cap is %d", m.statusLog.Len(), DefaultStatusLogLines)
	}

	// Extra ticks after completion are ignored.
	m, cmd = update(t, m, taskTickMsg{generation: gen})
	if cmd != nil {
		t.Error("tick after completion should not reschedule")
	}

	m, _ = update(t, m, key(tea.KeyEnter))
	if m.popup != "" {
		t.Error("enter should dismiss the popup")
	}
}

func TestTask_StartWhileRunningIsNoOp(t *testing.T) {
	m, ctrl := loggedInModel(t, nil)
	m = typeText(t, m, "+62812")
	m, _ = update(t, m, key(tea.KeyEnter))
	gen := ctrl.Generation()

	_, cmd := update(t, m, key(tea.KeyEnter))
	if cmd != nil {
		t.Error("second start should not schedule another tick chain")
	}
	if ctrl.Generation() != gen {
		t.Error("second start should not begin a new run")
	}
}

func TestReset_DropsStaleTicks(t *testing.T) {
	st := store.NewMemoryStore()
	m, ctrl := loggedInModel(t, st)
	m = typeText(t, m, "+62812")
	m, _ = update(t, m, key(tea.KeyEnter))

	stale := ctrl.Generation()
	m, _ = update(t, m, taskTickMsg{generation: stale})
	m, _ = update(t, m, taskTickMsg{generation: stale})

	m, _ = update(t, m, key(tea.KeyEsc))
	if ctrl.State().Progress != 0 || ctrl.Phase() != session.PhaseIdle {
		t.Fatalf("after reset: progress=%d phase=%v", ctrl.State().Progress, ctrl.Phase())
	}
	if m.targetInput.Value() != "" {
		t.Error("reset should clear the target input")
	}
	if m.toast == nil || m.toast.text != "System fully reset" {
		t.Errorf("toast = %+v", m.toast)
	}

	m, cmd := update(t, m, taskTickMsg{generation: stale})
	if cmd != nil || m.shown != 0 {
		t.Error("ticks from the cancelled run should be dropped")
	}
	if v, _ := st.Get(context.Background(), store.KeyProgress); v != "0" {
		t.Errorf("persisted progress = %q, want 0", v)
	}
}

func TestLogout(t *testing.T) {
	st := store.NewMemoryStore()
	_ = st.Set(context.Background(), store.KeyProgress, "40")
	m, ctrl := loggedInModel(t, st)

	m, _ = update(t, m, key(tea.KeyCtrlO))

	if m.mode() != keymap.ModeLogin {
		t.Errorf("mode() = %v, want login", m.mode())
	}
	if ctrl.State().Authenticated {
		t.Error("controller should be logged out")
	}
	if ctrl.State().Progress != 40 {
		t.Errorf("Progress = %d, logout must keep progress", ctrl.State().Progress)
	}
	if lastStatus(m) != "=== USER LOGGED OUT ===" {
		t.Errorf("last status = %q", lastStatus(m))
	}
}

func TestToggleBell(t *testing.T) {
	m, _ := loggedInModel(t, nil)

	m, _ = update(t, m, key(tea.KeyCtrlB))
	if m.opts.Bell {
		t.Fatal("ctrl+b should turn the bell off")
	}
	before := m.bells
	m, cmd := update(t, m, key(tea.KeyEsc))
	if m.bells != before {
		t.Error("bell should not ring while disabled")
	}
	if cmd == nil {
		t.Error("reset should still return the toast command")
	}
}

func TestRingBell_WritesBellCharacter(t *testing.T) {
	var buf bytes.Buffer
	if msg := ringBell(&buf)(); msg != nil {
		t.Errorf("ringBell returned %v, want nil", msg)
	}
	if buf.String() != "\a" {
		t.Errorf("wrote %q, want bell", buf.String())
	}
}

func TestToastExpiry(t *testing.T) {
	m, _ := newTestModel(t, newTestController(t, nil))
	m, _ = update(t, m, key(tea.KeyCtrlL))
	first := m.toast.id

	m, _ = update(t, m, key(tea.KeyCtrlL))
	m, _ = update(t, m, toastExpiredMsg{id: first})
	if m.toast == nil {
		t.Fatal("expiry of an older toast should not hide the newer one")
	}
	m, _ = update(t, m, toastExpiredMsg{id: m.toast.id})
	if m.toast != nil {
		t.Error("toast should be hidden after its own expiry")
	}
}

func TestStoreChanged(t *testing.T) {
	st := store.NewMemoryStore()
	m, ctrl := loggedInModel(t, st)
	ctx := context.Background()

	_ = st.Set(ctx, store.KeyLoggedIn, "false")
	_ = st.Set(ctx, store.KeyProgress, "30")
	m, _ = update(t, m, storeChangedMsg{key: store.KeyLoggedIn})

	if m.mode() != keymap.ModeLogin {
		t.Errorf("mode() = %v, want login after external logout", m.mode())
	}
	if m.shown != 30 || ctrl.State().Progress != 30 {
		t.Errorf("shown = %d, want 30", m.shown)
	}

	_ = st.Set(ctx, store.KeyLoggedIn, "true")
	m, _ = update(t, m, storeChangedMsg{key: store.KeyLoggedIn})
	if m.mode() != keymap.ModeMain {
		t.Errorf("mode() = %v, want main after external login", m.mode())
	}
}

func TestClockAndResize(t *testing.T) {
	m, _ := newTestModel(t, newTestController(t, nil))

	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	m, cmd := update(t, m, clockMsg(at))
	if cmd == nil {
		t.Error("clock tick should reschedule itself")
	}
	if !strings.Contains(m.View(), "07:08:09") {
		t.Error("header should show the clock")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 50})
	if m.progressBar.Width != 60 {
		t.Errorf("progress width = %d, want capped at 60", m.progressBar.Width)
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, newTestController(t, nil))
	m, cmd := update(t, m, key(tea.KeyCtrlC))
	if !m.quitting || cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty once quitting")
	}
}
