package branches

import (
	"fmt"
	"strings"
)

// Summary returns a one-line summary of the branch
func (b *Branch) Summary() string {
	ref := ""
	if b.Reference != "" {
		ref = " [" + b.Reference + "]"
	}
	return fmt.Sprintf("%s%s: reservations %s, %d sections, %d/%d tables reservable",
		b.Name, ref, onOff(b.AcceptsReservations), len(b.Sections), b.ReservableTables(), b.TableCount())
}

// FormatSchedule returns the reservation windows one day per line.
func (b *Branch) FormatSchedule() string {
	var sb strings.Builder

	days := b.ReservationTimes.Days()
	if len(days) == 0 {
		sb.WriteString("  (no reservation times)\n")
		return sb.String()
	}

	for _, day := range days {
		windows := b.ReservationTimes[day]
		parts := make([]string, len(windows))
		for i, w := range windows {
			parts[i] = w.Start() + "-" + w.End()
		}
		if len(parts) == 0 {
			parts = []string{"closed"}
		}
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", day, strings.Join(parts, ", ")))
	}

	return sb.String()
}

// FormatDetailed returns the branch with its schedule, sections and tables.
func (b *Branch) FormatDetailed() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("=== %s ===\n", b.Name))
	sb.WriteString(fmt.Sprintf("ID:           %s\n", b.ID))
	if b.Reference != "" {
		sb.WriteString(fmt.Sprintf("Reference:    %s\n", b.Reference))
	}
	sb.WriteString(fmt.Sprintf("Reservations: %s\n", onOff(b.AcceptsReservations)))
	sb.WriteString(fmt.Sprintf("Duration:     %d min\n", b.ReservationDuration))
	sb.WriteString("Schedule:\n")
	sb.WriteString(b.FormatSchedule())

	if len(b.Sections) == 0 {
		sb.WriteString("Sections:     (none)\n")
		return sb.String()
	}

	sb.WriteString("Sections:\n")
	for _, s := range b.Sections {
		sb.WriteString(fmt.Sprintf("  %s (%s)\n", s.Name, s.ID))
		if len(s.Tables) == 0 {
			sb.WriteString("    (no tables)\n")
			continue
		}
		for _, t := range s.Tables {
			sb.WriteString(fmt.Sprintf("    %s %-12s %s\n", marker(t.AcceptsReservations), t.Name, t.ID))
		}
	}

	return sb.String()
}

// FormatCompact returns one line per branch.
func FormatCompact(branches []Branch) string {
	var sb strings.Builder

	if len(branches) == 0 {
		sb.WriteString("(no branches)\n")
		return sb.String()
	}

	for i := range branches {
		b := &branches[i]
		sb.WriteString(fmt.Sprintf("%s %s\n", marker(b.AcceptsReservations), b.Summary()))
	}

	return sb.String()
}

// FormatDetailed returns every branch in detail, separated by blank lines.
func FormatDetailed(branches []Branch) string {
	if len(branches) == 0 {
		return "(no branches)\n"
	}

	parts := make([]string, len(branches))
	for i := range branches {
		parts[i] = branches[i].FormatDetailed()
	}
	return strings.Join(parts, "\n")
}

// FormatChanges returns a formatted string showing what a patch will change
func (p BranchPatch) FormatChanges() string {
	var sb strings.Builder

	if p.Name != nil {
		sb.WriteString(fmt.Sprintf("  Name:         %s\n", *p.Name))
	}
	if p.Reference != nil {
		sb.WriteString(fmt.Sprintf("  Reference:    %s\n", *p.Reference))
	}
	if p.AcceptsReservations != nil {
		sb.WriteString(fmt.Sprintf("  Reservations: %s\n", onOff(*p.AcceptsReservations)))
	}
	if p.ReservationDuration != nil {
		sb.WriteString(fmt.Sprintf("  Duration:     %d min\n", *p.ReservationDuration))
	}
	if p.ReservationTimes != nil {
		if n := len(*p.ReservationTimes); n > 0 {
			sb.WriteString(fmt.Sprintf("  Schedule:     %d day(s)\n", n))
		} else {
			sb.WriteString("  Schedule:     cleared\n")
		}
	}

	if sb.Len() == 0 {
		return "  (no changes specified)\n"
	}
	return sb.String()
}

// FormatOutcomes lists each entity of a batch with its result.
func (r *BatchResult) FormatOutcomes() string {
	var sb strings.Builder

	for _, o := range r.Outcomes {
		sb.WriteString(fmt.Sprintf("%s %s\n", marker(o.State == OutcomeSucceeded), describeOutcome(o)))
	}

	return sb.String()
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func marker(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
