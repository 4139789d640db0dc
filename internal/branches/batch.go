package branches

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/branchdesk/reservectl/internal/logging"
)

// BranchUpdater is the single-entity operation the coordinator fans out over.
// *Client satisfies it.
type BranchUpdater interface {
	UpdateBranch(ctx context.Context, branchID string, patch BranchPatch) error
}

// TableUpdater is implemented by *Client.
type TableUpdater interface {
	UpdateTable(ctx context.Context, tableID string, patch TablePatch) error
}

// OutcomeState is the lifecycle of one update within a batch.
type OutcomeState int

const (
	OutcomePending OutcomeState = iota
	OutcomeSucceeded
	OutcomeFailed
)

// String returns a human-readable state name
func (s OutcomeState) String() string {
	switch s {
	case OutcomePending:
		return "pending"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeState(%d)", s)
	}
}

// Outcome records how one entity's update settled.
type Outcome struct {
	ID    string       // Entity id the update was sent for
	Name  string       // Display name, for reporting
	State OutcomeState // Succeeded or Failed once the batch returns
	Err   error        // Cause when State is OutcomeFailed
}

// BatchResult holds one Outcome per input entity, in input order.
type BatchResult struct {
	Op       string    // e.g. "disable reservations"
	Kind     string    // "branch" or "table"
	Outcomes []Outcome // Same length and order as the input
	Duration time.Duration
}

// Total returns the number of updates attempted.
func (r *BatchResult) Total() int {
	return len(r.Outcomes)
}

// Succeeded returns the outcomes that completed.
func (r *BatchResult) Succeeded() []Outcome {
	return r.filter(OutcomeSucceeded)
}

// Failed returns the outcomes that did not complete.
func (r *BatchResult) Failed() []Outcome {
	return r.filter(OutcomeFailed)
}

// FailedIDs returns the ids of failed entities in input order.
func (r *BatchResult) FailedIDs() []string {
	failed := r.Failed()
	ids := make([]string, 0, len(failed))
	for _, o := range failed {
		ids = append(ids, o.ID)
	}
	return ids
}

// OK reports whether every update succeeded.
func (r *BatchResult) OK() bool {
	return len(r.Failed()) == 0
}

// Partial reports whether some, but not all, updates failed.
func (r *BatchResult) Partial() bool {
	n := len(r.Failed())
	return n > 0 && n < len(r.Outcomes)
}

// Err returns a *BatchError describing the failures, or nil when all succeeded.
func (r *BatchResult) Err() error {
	failed := r.Failed()
	if len(failed) == 0 {
		return nil
	}

	var causes error
	for _, o := range failed {
		causes = multierr.Append(causes, fmt.Errorf("%s %s: %w", r.Kind, o.ID, o.Err))
	}
	return &BatchError{
		Op:       r.Op,
		Kind:     r.Kind,
		Total:    len(r.Outcomes),
		Failures: failed,
		causes:   causes,
	}
}

func (r *BatchResult) filter(state OutcomeState) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.State == state {
			out = append(out, o)
		}
	}
	return out
}

// BatchError is returned when at least one update in a batch failed. Updates
// that succeeded are not rolled back.
type BatchError struct {
	Op       string
	Kind     string
	Total    int
	Failures []Outcome
	causes   error
}

// Error implements the error interface
func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Summary(), e.causes)
}

// Unwrap exposes the individual causes to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	return multierr.Errors(e.causes)
}

// Summary returns "<n> of <m> <kind> updates failed".
func (e *BatchError) Summary() string {
	kind := e.Kind
	if kind == "" {
		kind = "entity"
	}
	if len(e.Failures) == e.Total {
		return fmt.Sprintf("All %d %s updates failed", e.Total, kind)
	}
	return fmt.Sprintf("%d of %d %s updates failed", len(e.Failures), e.Total, kind)
}

// FailedIDs returns the ids of failed entities.
func (e *BatchError) FailedIDs() []string {
	ids := make([]string, len(e.Failures))
	for i, o := range e.Failures {
		ids[i] = o.ID
	}
	return ids
}

// Coordinator applies one update per entity concurrently and joins on all of them.
type Coordinator struct {
	Branches BranchUpdater
	Tables   TableUpdater
}

// NewCoordinator creates a coordinator backed by a client.
func NewCoordinator(c *Client) *Coordinator {
	return &Coordinator{Branches: c, Tables: c}
}

// DisableAllBranches sends {"accepts_reservations": false} for every branch at
// once and waits for all of them. It never stops early, never retries and
// never rolls back. The result is always non-nil; the error is a *BatchError
// when any branch failed. The input slice is not modified.
func (co *Coordinator) DisableAllBranches(ctx context.Context, branches []Branch) (*BatchResult, error) {
	return co.SetBranchesAcceptance(ctx, branches, false)
}

// EnableAllBranches is DisableAllBranches with the flag set to true.
func (co *Coordinator) EnableAllBranches(ctx context.Context, branches []Branch) (*BatchResult, error) {
	return co.SetBranchesAcceptance(ctx, branches, true)
}

// SetBranchesAcceptance sets the branch-level reservation flag on every branch.
func (co *Coordinator) SetBranchesAcceptance(ctx context.Context, branches []Branch, accepts bool) (*BatchResult, error) {
	targets := make([]target, len(branches))
	for i, b := range branches {
		targets[i] = target{id: b.ID, name: b.Name}
	}

	patch := BranchPatch{AcceptsReservations: Bool(accepts)}
	result := fanOut(ctx, acceptanceOp(accepts), "branch", targets, func(ctx context.Context, id string) error {
		return co.Branches.UpdateBranch(ctx, id, patch)
	})
	return result, result.Err()
}

// SetTablesAcceptance sets the reservation flag on every given table.
func (co *Coordinator) SetTablesAcceptance(ctx context.Context, tables []Table, accepts bool) (*BatchResult, error) {
	targets := make([]target, len(tables))
	for i, t := range tables {
		targets[i] = target{id: t.ID, name: t.Name}
	}

	patch := TablePatch{AcceptsReservations: accepts}
	result := fanOut(ctx, acceptanceOp(accepts), "table", targets, func(ctx context.Context, id string) error {
		return co.Tables.UpdateTable(ctx, id, patch)
	})
	return result, result.Err()
}

type target struct {
	id   string
	name string
}

func acceptanceOp(accepts bool) string {
	if accepts {
		return "enable reservations"
	}
	return "disable reservations"
}

// fanOut runs update once per target. Each goroutine owns one slot of the
// outcomes slice, and no goroutine's error cancels another.
func fanOut(ctx context.Context, op, kind string, targets []target, update func(context.Context, string) error) *BatchResult {
	start := time.Now()
	result := &BatchResult{
		Op:       op,
		Kind:     kind,
		Outcomes: make([]Outcome, len(targets)),
	}

	var g errgroup.Group
	for i, t := range targets {
		result.Outcomes[i] = Outcome{ID: t.id, Name: t.name, State: OutcomePending}
		g.Go(func() error {
			err := update(ctx, t.id)
			if err != nil {
				result.Outcomes[i].State = OutcomeFailed
				result.Outcomes[i].Err = err
				return err
			}
			result.Outcomes[i].State = OutcomeSucceeded
			return nil
		})
	}
	// Wait only returns the first error; the per-slot outcomes carry all of them.
	_ = g.Wait()
	result.Duration = time.Since(start)

	failed := result.Failed()
	for _, o := range failed {
		logging.Warn("Batch update failed",
			zap.String("op", op),
			zap.String(kind+"_id", o.ID),
			zap.Error(o.Err),
		)
	}
	logging.LogBatchOutcome(op, len(targets), len(failed), result.Duration)

	return result
}

// describeOutcome is used by formatters.
func describeOutcome(o Outcome) string {
	label := o.ID
	if o.Name != "" {
		label = fmt.Sprintf("%s (%s)", o.Name, o.ID)
	}
	if o.State == OutcomeFailed {
		return label + ": " + Classify(o.Err)
	}
	return strings.TrimSpace(label + " " + o.State.String())
}
