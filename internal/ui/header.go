package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header represents a command header with title, command, and parameters.
type Header struct {
	Title   string   // e.g., "DISABLE ALL BRANCHES"
	Command string   // e.g., "reservectl disable-all"
	Params  []Detail // e.g., {"API", "https://api.foodics.com/v5"}
	Width   int      // Terminal width for responsive rendering
}

// NewHeader creates a new header with the given values
func NewHeader(title, command string, params ...Detail) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		headerTitleStyle.Render(strings.ToUpper(h.Title)),
		headerCommandStyle.Render(h.Command),
	)
	if len(h.Params) == 0 {
		return headerBox(width).Render(top)
	}

	params := make([]string, len(h.Params))
	for i, p := range h.Params {
		params[i] = headerKeyStyle.Render(p.Key+":") + " " + textStyle.Render(p.Value)
	}

	return headerBox(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		top,
		divider(width-6),
		strings.Join(params, "\n"),
	))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
