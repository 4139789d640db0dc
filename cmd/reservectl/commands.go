package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/branchdesk/reservectl/internal/branches"
	"github.com/branchdesk/reservectl/internal/config"
	"github.com/branchdesk/reservectl/internal/logging"
	"github.com/branchdesk/reservectl/internal/ui"
	"github.com/branchdesk/reservectl/internal/version"
)

// Command flags
var (
	validateTree    bool
	assumeYes       bool
	branchAccepts   bool
	branchDuration  int
	branchName      string
	branchReference string
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(disableAllCmd)
	rootCmd.AddCommand(enableAllCmd)
	rootCmd.AddCommand(setBranchCmd)
	rootCmd.AddCommand(setTableCmd)
	rootCmd.AddCommand(setSectionTablesCmd)
}

// showCmd prints the branch hierarchy
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show branches, sections and tables",
	Long: `Fetch the full branch hierarchy in one request and print it.

Each branch shows its reservation flag, duration and weekly schedule,
followed by its sections and the reservation flag of every table.`,
	Example: `  # Full tree
  reservectl show

  # One line per branch
  reservectl show --format compact

  # JSON for scripting, with a consistency check
  reservectl show --format json --validate`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&validateTree, "validate", false, "Check ids, back-references and schedules")
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	all, err := s.fetch(cmd)
	if err != nil {
		return s.fail("Could not load branches", err)
	}

	switch s.format {
	case "json":
		if err := writeJSON(s.printer.Writer(), all); err != nil {
			return err
		}
	case "compact":
		s.printer.Print(branches.FormatCompact(all))
	default:
		s.printer.Println(branches.FormatDetailed(all))
	}

	if !validateTree {
		return nil
	}

	problems := branches.ValidateHierarchy(all)
	if s.format == "json" {
		if len(problems) > 0 {
			return fmt.Errorf("hierarchy has %d problem(s): %w", len(problems), errors.Join(problems...))
		}
		return nil
	}

	if len(problems) == 0 {
		s.printer.PrintSuccess("Hierarchy is consistent",
			ui.Detail{Key: "Branches", Value: strconv.Itoa(len(all))})
		return nil
	}

	r := ui.NewWarningResult(fmt.Sprintf("%d problem(s) found", len(problems)))
	for _, p := range problems {
		r.AddItem(ui.WarningMarker + " " + p.Error())
	}
	s.printer.PrintResult(r)
	return nil
}

// disableAllCmd turns reservations off for every branch
var disableAllCmd = &cobra.Command{
	Use:   "disable-all",
	Short: "Stop every branch from accepting reservations",
	Long: `Fetch all branches and send one update per branch, all at once.

Every update is attempted even when others fail. Branches that were updated
stay updated; the result lists exactly which branches failed and why.
Running the command again is safe.`,
	Example: `  # Interactive, asks for confirmation
  reservectl disable-all

  # Scripted
  reservectl disable-all --yes --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulk(cmd, false)
	},
}

// enableAllCmd turns reservations on for every branch
var enableAllCmd = &cobra.Command{
	Use:   "enable-all",
	Short: "Let every branch accept reservations",
	Long: `Fetch all branches and enable reservations on each of them concurrently.

Failures are reported per branch and nothing is rolled back.`,
	Example: `  reservectl enable-all --yes`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBulk(cmd, true)
	},
}

func init() {
	disableAllCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	enableAllCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runBulk(cmd *cobra.Command, accepts bool) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	title := "Disable all branches"
	if accepts {
		title = "Enable all branches"
	}

	all, err := s.fetch(cmd)
	if err != nil {
		return s.fail("Could not load branches", err)
	}

	if len(all) == 0 {
		if s.format == "json" {
			return writeJSON(s.printer.Writer(), newBatchReport(&branches.BatchResult{}))
		}
		s.printer.PrintWarning("No branches found", ui.Detail{Key: "API", Value: s.client.BaseURL})
		return nil
	}

	if s.format != "json" {
		s.printer.PrintHeader(title, cmd.CommandPath(),
			ui.Detail{Key: "Branches", Value: strconv.Itoa(len(all))},
			ui.Detail{Key: "API", Value: s.client.BaseURL},
		)
	}

	proceed, err := s.confirmBulk(accepts, len(all))
	if err != nil || !proceed {
		return err
	}

	co := branches.NewCoordinator(s.client)
	ctx := cmd.Context()

	var result *branches.BatchResult
	batchErr := s.wait("Updating branches", func() error {
		var err error
		if accepts {
			result, err = co.EnableAllBranches(ctx, all)
		} else {
			result, err = co.DisableAllBranches(ctx, all)
		}
		return err
	})

	return s.reportBatch(title, result, batchErr)
}

// setBranchCmd updates selected fields of one branch
var setBranchCmd = &cobra.Command{
	Use:   "set-branch <branch-id>",
	Short: "Update settings of one branch",
	Long: `Send a partial update for one branch. Only the flags you pass are sent;
every other field keeps its current value on the server.`,
	Example: `  # Stop one branch from taking reservations
  reservectl set-branch 8d2f... --accepts=false

  # Change duration and name
  reservectl set-branch 8d2f... --duration 90 --name "Olaya"`,
	Args: cobra.ExactArgs(1),
	RunE: runSetBranch,
}

func init() {
	setBranchCmd.Flags().BoolVar(&branchAccepts, "accepts", false, "Whether the branch accepts reservations")
	setBranchCmd.Flags().IntVar(&branchDuration, "duration", 0, "Reservation duration in minutes")
	setBranchCmd.Flags().StringVar(&branchName, "name", "", "Branch display name")
	setBranchCmd.Flags().StringVar(&branchReference, "reference", "", "Branch reference code")
}

func runSetBranch(cmd *cobra.Command, args []string) error {
	patch := branchPatchFromFlags(cmd)
	if patch.IsEmpty() {
		return errors.New("nothing to change: pass --accepts, --duration, --name or --reference")
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	if s.format != "json" {
		s.printer.PrintHeader("Update branch", cmd.CommandPath(), ui.Detail{Key: "Branch", Value: id})
		s.printer.Print(patch.FormatChanges())
		s.printer.Newline()
	}

	ctx := cmd.Context()
	err = s.wait("Updating branch", func() error {
		return s.client.UpdateBranch(ctx, id, patch)
	})
	if err != nil {
		return s.fail("Branch update failed", err)
	}

	if s.format == "json" {
		return writeJSON(s.printer.Writer(), map[string]any{"id": id, "updated": true})
	}
	s.printer.PrintSuccess("Branch updated", ui.Detail{Key: "Branch", Value: id})
	return nil
}

func branchPatchFromFlags(cmd *cobra.Command) branches.BranchPatch {
	var patch branches.BranchPatch
	flags := cmd.Flags()

	if flags.Changed("accepts") {
		patch.AcceptsReservations = branches.Bool(branchAccepts)
	}
	if flags.Changed("duration") {
		patch.ReservationDuration = branches.Int(branchDuration)
	}
	if flags.Changed("name") {
		patch.Name = branches.String(branchName)
	}
	if flags.Changed("reference") {
		patch.Reference = branches.String(branchReference)
	}
	return patch
}

// setTableCmd sets the reservation flag of one table
var setTableCmd = &cobra.Command{
	Use:   "set-table <table-id> <true|false>",
	Short: "Set whether one table accepts reservations",
	Example: `  reservectl set-table 91ac... false`,
	Args:    cobra.ExactArgs(2),
	RunE:    runSetTable,
}

func runSetTable(cmd *cobra.Command, args []string) error {
	accepts, err := strconv.ParseBool(args[1])
	if err != nil {
		return fmt.Errorf("invalid value %q (use true/false): %w", args[1], err)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	id := args[0]
	ctx := cmd.Context()
	err = s.wait("Updating table", func() error {
		return s.client.UpdateTable(ctx, id, branches.TablePatch{AcceptsReservations: accepts})
	})
	if err != nil {
		return s.fail("Table update failed", err)
	}

	if s.format == "json" {
		return writeJSON(s.printer.Writer(), map[string]any{"id": id, "accepts_reservations": accepts})
	}
	s.printer.PrintSuccess("Table updated",
		ui.Detail{Key: "Table", Value: id},
		ui.Detail{Key: "Reservations", Value: ui.Acceptance(accepts)},
	)
	return nil
}

// setSectionTablesCmd sets the reservation flag on all tables of a section
var setSectionTablesCmd = &cobra.Command{
	Use:   "set-section-tables <branch> <section-id> <true|false>",
	Short: "Set the reservation flag on every table of a section",
	Long: `Look up a section in the current hierarchy and update all of its tables
concurrently. The branch may be given by id or reference.`,
	Example: `  # Close the terrace for reservations
  reservectl set-section-tables B01 5e7c... false`,
	Args: cobra.ExactArgs(3),
	RunE: runSetSectionTables,
}

func runSetSectionTables(cmd *cobra.Command, args []string) error {
	accepts, err := strconv.ParseBool(args[2])
	if err != nil {
		return fmt.Errorf("invalid value %q (use true/false): %w", args[2], err)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	all, err := s.fetch(cmd)
	if err != nil {
		return s.fail("Could not load branches", err)
	}

	branch := branches.FindBranch(all, args[0])
	if branch == nil {
		return fmt.Errorf("branch %q not found", args[0])
	}
	section := branch.FindSection(args[1])
	if section == nil {
		return fmt.Errorf("section %q not found in branch %q", args[1], branch.Name)
	}

	title := fmt.Sprintf("Update tables in %s / %s", branch.Name, section.Name)
	if len(section.Tables) == 0 {
		if s.format == "json" {
			return writeJSON(s.printer.Writer(), newBatchReport(&branches.BatchResult{Kind: "table"}))
		}
		s.printer.PrintWarning("Section has no tables", ui.Detail{Key: "Section", Value: section.ID})
		return nil
	}

	if s.format != "json" {
		s.printer.PrintHeader(title, cmd.CommandPath(),
			ui.Detail{Key: "Tables", Value: strconv.Itoa(len(section.Tables))},
			ui.Detail{Key: "Reservations", Value: ui.Acceptance(accepts)},
		)
	}

	co := branches.NewCoordinator(s.client)
	ctx := cmd.Context()

	var result *branches.BatchResult
	batchErr := s.wait("Updating tables", func() error {
		var err error
		result, err = co.SetTablesAcceptance(ctx, section.Tables, accepts)
		return err
	})

	return s.reportBatch(title, result, batchErr)
}

// session holds what every API command needs.
type session struct {
	settings *config.Settings
	client   *branches.Client
	format   string
	printer  *ui.Printer
	errOut   io.Writer
}

func newSession(cmd *cobra.Command) (*session, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	f, err := resolveFormat(settings)
	if err != nil {
		return nil, err
	}

	token, err := config.Token()
	if err != nil {
		return nil, err
	}

	cfg := settings.ClientConfig(token, version.UserAgent())
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	logging.Debug("Session ready",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("format", f),
	)

	return &session{
		settings: settings,
		client:   branches.NewClient(cfg),
		format:   f,
		printer:  ui.NewPrinter(cmd.OutOrStdout()),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

func loadSettings() (*config.Settings, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// resolveFormat picks --format, then the settings preference, then "detailed".
func resolveFormat(settings *config.Settings) (string, error) {
	f := format
	if f == "" && settings.Preferences != nil {
		f = settings.Preferences.OutputFormat
	}
	if f == "" {
		f = "detailed"
	}

	switch f {
	case "detailed", "compact", "json":
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q (use detailed, compact or json)", f)
}

func (s *session) fetch(cmd *cobra.Command) ([]branches.Branch, error) {
	var all []branches.Branch
	err := s.wait("Fetching branches", func() error {
		var err error
		all, err = s.client.FetchHierarchy(cmd.Context())
		return err
	})
	return all, err
}

// wait runs op behind a spinner. JSON output stays free of animation.
func (s *session) wait(label string, op func() error) error {
	if s.format == "json" {
		return op()
	}
	return ui.RunWithSpinner(s.printer.Writer(), label, op)
}

// fail prints a failure box for err and returns an error that main reports
// only through the exit code.
func (s *session) fail(title string, err error) error {
	if s.format == "json" {
		return errors.New(branches.Classify(err))
	}
	s.printer.PrintError(title, branches.Classify(err), branches.Hints(err))
	return &reportedError{err: err}
}

// confirmBulk asks before touching every branch. Without a terminal the
// caller must pass --yes.
func (s *session) confirmBulk(accepts bool, count int) (bool, error) {
	if assumeYes || (s.settings.Preferences != nil && !s.settings.Preferences.ConfirmBulk) {
		return true, nil
	}
	if !ui.IsInteractive() {
		return false, errors.New("refusing to update every branch without confirmation; pass --yes")
	}

	c := bulkConfirmation(accepts, count)

	out := s.printer.Writer()
	if s.format == "json" {
		out = s.errOut
	}
	return ui.Confirm(os.Stdin, out, c), nil
}

// bulkConfirmation builds the typed-phrase prompt for disable-all / enable-all.
func bulkConfirmation(accepts bool, count int) ui.Confirmation {
	c := ui.Confirmation{
		Title:  "DISABLE RESERVATIONS",
		Phrase: "DISABLE",
		Warnings: []string{
			fmt.Sprintf("%d branches will stop accepting reservations", count),
			"Branches that update successfully stay updated, even if others fail",
		},
	}
	if accepts {
		c.Title = "ENABLE RESERVATIONS"
		c.Phrase = "ENABLE"
		c.Warnings[0] = fmt.Sprintf("%d branches will start accepting reservations", count)
	}
	return c
}

func (s *session) reportBatch(title string, result *branches.BatchResult, batchErr error) error {
	if s.format == "json" {
		if err := writeJSON(s.printer.Writer(), newBatchReport(result)); err != nil {
			return err
		}
		return batchErr
	}

	if batchErr == nil {
		s.printer.PrintSuccess(title,
			ui.Detail{Key: "Updated", Value: strconv.Itoa(result.Total())},
			ui.Detail{Key: "Duration", Value: result.Duration.Round(time.Millisecond).String()},
		)
		return nil
	}

	r := ui.NewFailureResult(title, branches.Classify(batchErr), branches.Hints(batchErr)).
		AddDetail("Succeeded", strconv.Itoa(len(result.Succeeded()))).
		AddDetail("Failed", strconv.Itoa(len(result.Failed())))
	for _, o := range result.Failed() {
		r.AddItem(fmt.Sprintf("%s %s (%s): %s", ui.FailureMarker, o.Name, o.ID, branches.Classify(o.Err)))
	}
	s.printer.PrintResult(r)
	return &reportedError{err: batchErr}
}

// reportedError has already been shown to the user.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

type outcomeReport struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

type batchReport struct {
	Operation  string          `json:"operation,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	FailedIDs  []string        `json:"failed_ids"`
	Outcomes   []outcomeReport `json:"outcomes"`
	DurationMS int64           `json:"duration_ms"`
}

func newBatchReport(r *branches.BatchResult) batchReport {
	report := batchReport{
		Operation:  r.Op,
		Kind:       r.Kind,
		Total:      r.Total(),
		Succeeded:  len(r.Succeeded()),
		FailedIDs:  r.FailedIDs(),
		Outcomes:   make([]outcomeReport, len(r.Outcomes)),
		DurationMS: r.Duration.Milliseconds(),
	}
	if report.FailedIDs == nil {
		report.FailedIDs = []string{}
	}
	for i, o := range r.Outcomes {
		report.Outcomes[i] = outcomeReport{ID: o.ID, Name: o.Name, State: o.State.String()}
		if o.Err != nil {
			report.Outcomes[i].Error = branches.Classify(o.Err)
		}
	}
	return report
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
