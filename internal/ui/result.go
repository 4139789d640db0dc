package ui

import (
	"fmt"
	"strings"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Detail is one "Key: value" line in a result box.
type Detail struct {
	Key   string
	Value string
}

// Result represents a result box (success, failure, or warning)
type Result struct {
	Type            ResultType // Success, failure, or warning
	Title           string     // e.g., "Reservations disabled"
	Details         []Detail   // Key-value details, rendered in order
	Items           []string   // Free-form lines, e.g. one per failed branch
	Message         string     // Error text (for failure results)
	Troubleshooting []string   // Troubleshooting tips (for failure results)
	Width           int        // Terminal width
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultSuccess,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title, message string, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Message:         message,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{
		Type:    ResultWarning,
		Title:   title,
		Details: details,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail appends a detail line
func (r *Result) AddDetail(key, value string) *Result {
	r.Details = append(r.Details, Detail{Key: key, Value: value})
	return r
}

// AddItem appends a free-form line
func (r *Result) AddItem(line string) *Result {
	r.Items = append(r.Items, line)
	return r
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := clampWidth(r.Width)
	th, ok := themes[r.Type]
	if !ok {
		th = themes[ResultSuccess]
	}

	lines := []string{"", th.title.Render(fmt.Sprintf("   %s  ─  %s", th.label, r.Title)), ""}

	if r.Message != "" {
		lines = append(lines, messageStyle.Render("   Error: "+r.Message), "")
	}

	for _, d := range r.Details {
		lines = append(lines, detailKeyStyle.Render("   "+d.Key+":")+" "+textStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	for _, item := range r.Items {
		lines = append(lines, textStyle.Render("   "+item))
	}
	if len(r.Items) > 0 {
		lines = append(lines, "")
	}

	if len(r.Troubleshooting) > 0 {
		lines = append(lines, renderHints(width, r.Troubleshooting), "")
	}

	return resultBox(width, th.border).Render(strings.Join(lines, "\n"))
}

func renderHints(width int, hints []string) string {
	lines := []string{hintTitleStyle.Render("Troubleshooting:"), ""}
	for _, h := range hints {
		lines = append(lines, mutedStyle.Render("  • "+h))
	}
	return hintBox(width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}
