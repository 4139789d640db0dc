package branches

import (
	"fmt"
	"regexp"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateTimeWindow checks that both ends of a window are HH:MM clock times.
// A window whose end is not after its start is reported too; overnight
// windows are not representable by the API.
func ValidateTimeWindow(w TimeWindow) error {
	if !clockPattern.MatchString(w.Start()) {
		return NewValidationError(fmt.Sprintf("invalid start time %q (want HH:MM)", w.Start()))
	}
	if !clockPattern.MatchString(w.End()) {
		return NewValidationError(fmt.Sprintf("invalid end time %q (want HH:MM)", w.End()))
	}
	// Zero-padded HH:MM strings compare in clock order.
	if w.End() <= w.Start() {
		return NewValidationError(fmt.Sprintf("window %s-%s ends before it starts", w.Start(), w.End()))
	}
	return nil
}

// ValidateReservationTimes checks day keys and window formats. Overlap and
// ordering between windows of the same day are not checked.
func ValidateReservationTimes(rt ReservationTimes) []error {
	var errs []error

	for _, day := range rt.Days() {
		if !day.Known() {
			errs = append(errs, NewValidationError(fmt.Sprintf("unknown weekday %q", day)))
			continue
		}
		for i, w := range rt[day] {
			if err := ValidateTimeWindow(w); err != nil {
				errs = append(errs, fmt.Errorf("%s window %d: %w", day, i+1, err))
			}
		}
	}

	return errs
}

// ValidateHierarchy checks a fetched hierarchy for structural problems.
// Returns a slice of validation errors (empty if valid).
func ValidateHierarchy(branches []Branch) []error {
	var errs []error
	seenBranch := make(map[string]bool, len(branches))

	for bi := range branches {
		b := &branches[bi]
		where := fmt.Sprintf("branch %q", b.ID)

		if b.ID == "" {
			errs = append(errs, NewValidationError(fmt.Sprintf("branch #%d has no id", bi+1)))
		} else if seenBranch[b.ID] {
			errs = append(errs, NewValidationError(fmt.Sprintf("duplicate branch id %q", b.ID)))
		}
		seenBranch[b.ID] = true

		if b.ReservationDuration < 0 {
			errs = append(errs, NewValidationError(fmt.Sprintf("%s: negative reservation duration %d", where, b.ReservationDuration)))
		}

		for _, err := range ValidateReservationTimes(b.ReservationTimes) {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}

		seenSection := make(map[string]bool, len(b.Sections))
		for _, s := range b.Sections {
			swhere := fmt.Sprintf("%s section %q", where, s.ID)

			if seenSection[s.ID] {
				errs = append(errs, NewValidationError(fmt.Sprintf("%s: duplicate section id", swhere)))
			}
			seenSection[s.ID] = true

			if s.BranchID != "" && s.BranchID != b.ID {
				errs = append(errs, NewValidationError(fmt.Sprintf("%s: belongs to branch %q", swhere, s.BranchID)))
			}

			seenTable := make(map[string]bool, len(s.Tables))
			for _, t := range s.Tables {
				if seenTable[t.ID] {
					errs = append(errs, NewValidationError(fmt.Sprintf("%s: duplicate table id %q", swhere, t.ID)))
				}
				seenTable[t.ID] = true

				if t.SectionID != "" && t.SectionID != s.ID {
					errs = append(errs, NewValidationError(fmt.Sprintf("%s table %q: belongs to section %q", swhere, t.ID, t.SectionID)))
				}
			}
		}
	}

	return errs
}
