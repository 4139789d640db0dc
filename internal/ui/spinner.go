package ui

import (
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/branchdesk/reservectl/internal/logging"
)

// operationDoneMsg is sent when the wrapped operation has returned.
type operationDoneMsg struct{}

// SpinnerModel is a Bubble Tea model that shows a spinner until an
// operation finishes. It reports no intermediate progress.
type SpinnerModel struct {
	spinner  spinner.Model
	label    string
	finished <-chan struct{}
	done     bool
}

// NewSpinnerModel creates a model that waits for finished to be closed.
func NewSpinnerModel(label string, finished <-chan struct{}) SpinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return SpinnerModel{
		spinner:  s,
		label:    label,
		finished: finished,
	}
}

// Init implements tea.Model
func (m SpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForOperation(m.finished))
}

func waitForOperation(finished <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-finished
		return operationDoneMsg{}
	}
}

// Update implements tea.Model
func (m SpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Issued requests cannot be withdrawn, so input is ignored until they settle.
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case operationDoneMsg:
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m SpinnerModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spinner.View() + " " + textStyle.Render(m.label) + "\n"
}

// Done reports whether the operation has finished.
func (m SpinnerModel) Done() bool {
	return m.done
}

// RunWithSpinner runs op while showing a spinner on out. Without a terminal
// op runs with no animation. The spinner never affects op: if the UI fails,
// RunWithSpinner still waits for op and returns its error.
func RunWithSpinner(out io.Writer, label string, op func() error) error {
	if !IsInteractive() {
		return op()
	}

	var opErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		opErr = op()
	}()

	p := tea.NewProgram(NewSpinnerModel(label, finished), tea.WithOutput(out))
	if _, err := p.Run(); err != nil {
		logging.Debug("Spinner stopped", zap.Error(err))
	}

	<-finished
	return opErr
}
