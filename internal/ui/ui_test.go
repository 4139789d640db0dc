package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestSpinnerModel_QuitsWhenOperationDone(t *testing.T) {
	finished := make(chan struct{})
	m := NewSpinnerModel("Updating branches", finished)

	if m.Done() {
		t.Fatal("model should not start done")
	}
	if !strings.Contains(m.View(), "Updating branches") {
		t.Errorf("View() = %q, should show the label", m.View())
	}

	updated, cmd := m.Update(operationDoneMsg{})
	sm := updated.(SpinnerModel)

	if !sm.Done() {
		t.Error("model should be done after operationDoneMsg")
	}
	if sm.View() != "" {
		t.Errorf("View() = %q, want empty after completion", sm.View())
	}
	if cmd == nil {
		t.Fatal("Update should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("command should produce tea.QuitMsg")
	}
}

func TestSpinnerModel_IgnoresKeys(t *testing.T) {
	m := NewSpinnerModel("x", make(chan struct{}))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd != nil {
		t.Error("key presses should not produce commands")
	}
	if updated.(SpinnerModel).Done() {
		t.Error("key presses should not finish the model")
	}
}

func TestWaitForOperation(t *testing.T) {
	finished := make(chan struct{})
	close(finished)

	if _, ok := waitForOperation(finished)().(operationDoneMsg); !ok {
		t.Error("waitForOperation should return operationDoneMsg once closed")
	}
}

func TestRunWithSpinner_NonInteractiveReturnsOpError(t *testing.T) {
	if IsInteractive() {
		t.Skip("requires a non-terminal stdin/stdout")
	}
	want := errors.New("boom")
	var buf bytes.Buffer

	called := false
	err := RunWithSpinner(&buf, "x", func() error {
		called = true
		return want
	})

	if !called {
		t.Error("operation was not run")
	}
	if !errors.Is(err, want) {
		t.Errorf("RunWithSpinner() error = %v, want %v", err, want)
	}
}

func TestConfirm(t *testing.T) {
	c := Confirmation{Title: "DISABLE RESERVATIONS", Warnings: []string{"12 branches"}, Phrase: "DISABLE"}

	tests := []struct {
		input string
		want  bool
	}{
		{"DISABLE\n", true},
		{"  DISABLE  \n", true},
		{"disable\n", false},
		{"\n", false},
		{"", false},
		{"DISABLE", true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		if got := Confirm(strings.NewReader(tt.input), &out, c); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "DISABLE RESERVATIONS") {
			t.Errorf("output should contain the title, got %q", out.String())
		}
	}
}

func TestResultRender(t *testing.T) {
	r := NewFailureResult("Disable failed", "1 of 3 branch updates failed", []string{"Try again"}).
		SetWidth(80).
		AddDetail("Succeeded", "2").
		AddItem("✗ Bravo (B): Branch not found")

	out := r.Render()

	for _, want := range []string{"FAILED", "Disable failed", "Succeeded", "Bravo (B): Branch not found", "Try again"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestHeaderRender(t *testing.T) {
	out := NewHeader("disable all", "reservectl disable-all", Detail{Key: "Branches", Value: "3"}).
		SetWidth(80).
		Render()

	for _, want := range []string{"DISABLE ALL", "reservectl disable-all", "Branches:", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSuccess("Reservations enabled", Detail{Key: "Branches", Value: "3"})

	if !strings.Contains(buf.String(), "Reservations enabled") {
		t.Errorf("PrintSuccess() output = %q", buf.String())
	}
	if p.Writer() != &buf {
		t.Error("Writer() should return the configured writer")
	}
}

func TestAcceptance(t *testing.T) {
	if !strings.Contains(Acceptance(true), "ON") {
		t.Errorf("Acceptance(true) = %q", Acceptance(true))
	}
	if !strings.Contains(Acceptance(false), "OFF") {
		t.Errorf("Acceptance(false) = %q", Acceptance(false))
	}
}

func TestClampWidth(t *testing.T) {
	tests := []struct{ in, want int }{
		{10, MinWidth},
		{80, 80},
		{500, MaxWidth},
	}
	for _, tt := range tests {
		if got := clampWidth(tt.in); got != tt.want {
			t.Errorf("clampWidth(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
