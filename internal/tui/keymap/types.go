// Package keymap provides key binding definitions and lookup for the TUI.
// Bindings are declared per mode so the model's Update method only has to map
// a command to an action.
package keymap

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
// Different modes have different key bindings active.
type Mode string

const (
	ModeLogin Mode = "login" // Username/password form
	ModeMain  Mode = "main"  // Target input and progress task
	ModePopup Mode = "popup" // Completion popup is shown
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Global commands
const (
	CmdQuit Command = "quit"
)

// Login mode commands
const (
	CmdSubmitLogin    Command = "submit_login"
	CmdNextField      Command = "next_field"
	CmdPrevField      Command = "prev_field"
	CmdTogglePassword Command = "toggle_password"
	CmdToggleHint     Command = "toggle_hint"
	CmdClearForm      Command = "clear_form"
)

// Main mode commands
const (
	CmdStartTask  Command = "start_task"
	CmdReset      Command = "reset"
	CmdLogout     Command = "logout"
	CmdToggleBell Command = "toggle_bell"
)

// Popup mode commands
const (
	CmdDismiss Command = "dismiss"
)

// Modifier represents keyboard modifiers (Ctrl, Alt, Shift).
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModCtrl  Modifier = 1 << iota
	ModAlt
	ModShift
)

// String returns a human-readable representation of modifiers.
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var s string
	if m&ModCtrl != 0 {
		s += "ctrl+"
	}
	if m&ModAlt != 0 {
		s += "alt+"
	}
	if m&ModShift != 0 {
		s += "shift+"
	}
	return s
}

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the primary key for this binding.
	// For special keys, use tea.KeyType constants (e.g., tea.KeyEnter).
	// For rune keys, use tea.KeyRunes and set Rune field.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Modifiers contains the modifier keys that must be pressed.
	Modifiers Modifier

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	// For special keys (not runes), match the key type directly
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := kb.Modifiers.String()

	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
// Returns the command and true if found, or empty command and false if not.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name string

	// Global bindings are checked before the mode's own bindings.
	Global *ModeBindings

	// Modes maps each mode to its bindings.
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
// Returns the command and true if found, or empty command and false if not.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	if km.Global != nil {
		if cmd, ok := km.Global.GetBinding(msg); ok {
			return cmd, true
		}
	}
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// HelpLine returns the bindings shown in the help bar for mode: those with a
// description, first binding per command, followed by the global ones.
func (km *Keymap) HelpLine(mode Mode) []KeyBinding {
	seen := make(map[Command]bool)
	var out []KeyBinding
	for _, b := range km.GetModeBindings(mode) {
		if b.Description == "" || seen[b.Command] {
			continue
		}
		seen[b.Command] = true
		out = append(out, b)
	}
	if km.Global != nil {
		for _, b := range km.Global.Bindings {
			if b.Description != "" && !seen[b.Command] {
				seen[b.Command] = true
				out = append(out, b)
			}
		}
	}
	return out
}
