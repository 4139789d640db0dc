package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	accentColor  = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#43BF6D")
	errorColor   = lipgloss.Color("#FF5555")
	warningColor = lipgloss.Color("#FFA500")
	mutedColor   = lipgloss.Color("#626262")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Box widths are clamped to this range.
const (
	MinWidth = 60
	MaxWidth = 100
)

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
	WarningMarker = "⚠"
)

var (
	textStyle  = lipgloss.NewStyle().Foreground(textColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	headerTitleStyle   = textStyle.Bold(true).PaddingLeft(2)
	headerCommandStyle = mutedStyle.PaddingLeft(2)
	headerKeyStyle     = mutedStyle.PaddingLeft(2)

	spinnerStyle = lipgloss.NewStyle().Foreground(accentColor)

	detailKeyStyle = mutedStyle.Width(15)
	messageStyle   = lipgloss.NewStyle().Foreground(errorColor)

	hintTitleStyle = mutedStyle.Bold(true)

	promptStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)

	acceptingStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	closedStyle    = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// theme is the look of one kind of result box.
type theme struct {
	border lipgloss.Color
	title  lipgloss.Style
	label  string
}

var themes = map[ResultType]theme{
	ResultSuccess: {successColor, lipgloss.NewStyle().Foreground(successColor).Bold(true), SuccessMarker + "  SUCCESS"},
	ResultFailure: {errorColor, lipgloss.NewStyle().Foreground(errorColor).Bold(true), FailureMarker + "  FAILED"},
	ResultWarning: {warningColor, lipgloss.NewStyle().Foreground(warningColor).Bold(true), WarningMarker + "  WARNING"},
}

// Acceptance renders a reservation flag as a coloured ON or OFF.
func Acceptance(accepts bool) string {
	if accepts {
		return acceptingStyle.Render("ON")
	}
	return closedStyle.Render("OFF")
}

// GetTerminalWidth returns the stdout width clamped to [MinWidth, MaxWidth].
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinWidth
	}
	return clampWidth(width)
}

// IsInteractive reports whether both stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func headerBox(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Width(width - 2)
}

func resultBox(width int, border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2)
}

func hintBox(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Width(width-12).
		Padding(0, 1).
		MarginLeft(3)
}

func divider(width int) string {
	return spinnerStyle.Render(strings.Repeat("─", width))
}

func clampWidth(width int) int {
	switch {
	case width < MinWidth:
		return MinWidth
	case width > MaxWidth:
		return MaxWidth
	}
	return width
}
