package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmation describes a bulk operation the user must approve.
type Confirmation struct {
	Title    string   // e.g., "DISABLE RESERVATIONS"
	Warnings []string // Bullet points shown in the box
	Phrase   string   // Text the user must type to proceed
}

// Confirm shows c as a warning box on out and reads one line from in. Only
// the exact phrase, ignoring surrounding blanks, approves the operation.
func Confirm(in io.Reader, out io.Writer, c Confirmation) bool {
	box := NewWarningResult(c.Title)
	for _, w := range c.Warnings {
		box.AddItem("• " + w)
	}
	_, _ = fmt.Fprintf(out, "%s\n\n", box.Render())
	_, _ = fmt.Fprint(out, promptStyle.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", c.Phrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}
	if strings.TrimSpace(input) == c.Phrase {
		return true
	}

	_, _ = fmt.Fprintf(out, "%s\n\n", mutedStyle.Render("  Operation cancelled."))
	return false
}
