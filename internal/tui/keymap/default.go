package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the default key bindings.
//
// Login and main mode route printable keys to text inputs, so every command
// there sits on a control or navigation key.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Global: &ModeBindings{
			Bindings: []KeyBinding{
				{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit"},
			},
		},
		Modes: map[Mode]*ModeBindings{
			ModeLogin: defaultLoginBindings(),
			ModeMain:  defaultMainBindings(),
			ModePopup: defaultPopupBindings(),
		},
	}
}

func defaultLoginBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeLogin,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdSubmitLogin, Description: "login"},
			{KeyType: tea.KeyTab, Command: CmdNextField, Description: "next field"},
			{KeyType: tea.KeyDown, Command: CmdNextField},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevField},
			{KeyType: tea.KeyUp, Command: CmdPrevField},
			{KeyType: tea.KeyCtrlP, Command: CmdTogglePassword, Description: "show password"},
			{KeyType: tea.KeyCtrlG, Command: CmdToggleHint, Description: "hint"},
			{KeyType: tea.KeyCtrlL, Command: CmdClearForm, Description: "clear"},
		},
	}
}

func defaultMainBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeMain,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdStartTask, Description: "initiate delay"},
			{KeyType: tea.KeyEsc, Command: CmdReset, Description: "reset"},
			{KeyType: tea.KeyCtrlO, Command: CmdLogout, Description: "logout"},
			{KeyType: tea.KeyCtrlB, Command: CmdToggleBell, Description: "bell"},
		},
	}
}

func defaultPopupBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModePopup,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEnter, Command: CmdDismiss, Description: "close"},
			{KeyType: tea.KeyEsc, Command: CmdDismiss},
			{KeyType: tea.KeySpace, Command: CmdDismiss},
		},
	}
}
