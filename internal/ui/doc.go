// Package ui provides terminal UI components for the reservectl CLI.
//
// This package uses Bubble Tea and Lipgloss to render output. Apart from the
// wait spinner, components follow a "print once" pattern and need no
// interaction.
//
// # Components
//
//   - Header: command banner showing operation name and parameters
//   - Result: success, failure and warning boxes with ordered details
//   - Confirm: typed-phrase confirmation before bulk changes
//   - SpinnerModel / RunWithSpinner: animation while a batch settles
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Disable all branches", "reservectl disable-all",
//	    ui.Detail{Key: "Branches", Value: "12"})
//
//	err := ui.RunWithSpinner(os.Stdout, "Updating branches", func() error {
//	    result, err = client.DisableAllBranches(ctx, all)
//	    return err
//	})
//
// # Logging Integration
//
// zap logging is silent unless RESERVECTL_LOG_LEVEL is set, so the curated
// UI output is displayed cleanly.
package ui
