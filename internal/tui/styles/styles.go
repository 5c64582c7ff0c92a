package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - terminal "hacker" palette, red on black
	PrimaryColor   = lipgloss.Color("#FF4444") // Red
	SecondaryColor = lipgloss.Color("#00FF44") // Green (granted)
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#FF4444") // Red (denied)
	MutedColor     = lipgloss.Color("#FF8888") // Pale red
	DimColor       = lipgloss.Color("#6B7280") // Gray
	SurfaceColor   = lipgloss.Color("#1A0000") // Very dark red
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#AA0000") // Dark red

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Dim       = lipgloss.NewStyle().Foreground(DimColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Header bar
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(BorderColor).
		Padding(0, 1)

	HeaderClock = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(BorderColor).
			Padding(0, 1)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Panels
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2)

	Label = lipgloss.NewStyle().
		Foreground(MutedColor).
		Bold(true)

	// Buttons
	Button = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 2)

	ButtonBusy = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(DimColor).
			Padding(0, 2)

	// Login status
	Granted = lipgloss.NewStyle().Bold(true).Foreground(SecondaryColor)
	Denied  = lipgloss.NewStyle().Bold(true).Foreground(ErrorColor)

	HintBox = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(DimColor).
		Foreground(MutedColor).
		Padding(0, 1)

	// Target preview
	Preview      = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	PreviewEmpty = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)

	// Progress steps
	StepActive   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	StepInactive = lipgloss.NewStyle().Foreground(DimColor)

	ProgressValue = lipgloss.NewStyle().Bold(true).Foreground(TextColor)

	// Status log
	StatusBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	StatusTime = lipgloss.NewStyle().Foreground(DimColor)
	StatusText = lipgloss.NewStyle().Foreground(SecondaryColor)

	// Toast
	Toast = lipgloss.NewStyle().
		Foreground(TextColor).
		Background(SurfaceColor).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2)

	// Completion popup
	Popup = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(PrimaryColor).
		Padding(1, 4).
		Align(lipgloss.Center)

	// Help bar
	HelpKey  = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	HelpDesc = lipgloss.NewStyle().Foreground(DimColor)
)

// StepStyle returns the style for a progress step marker.
func StepStyle(active bool) lipgloss.Style {
	if active {
		return StepActive
	}
	return StepInactive
}

// LoginStatusStyle returns the style for the login status line.
func LoginStatusStyle(granted bool) lipgloss.Style {
	if granted {
		return Granted
	}
	return Denied
}
