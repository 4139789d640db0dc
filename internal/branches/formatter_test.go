package branches

import (
	"errors"
	"strings"
	"testing"
)

func sampleBranch() Branch {
	return Branch{
		ID:                  "b1",
		Name:                "Riyadh Park",
		Reference:           "B01",
		AcceptsReservations: true,
		ReservationDuration: 90,
		ReservationTimes:    ReservationTimes{Saturday: {{"08:00", "12:00"}, {"18:00", "23:00"}}},
		Sections: []Section{
			{ID: "s1", Name: "Terrace", Tables: []Table{
				{ID: "t1", Name: "T-1", AcceptsReservations: true},
				{ID: "t2", Name: "T-2"},
			}},
			{ID: "s2", Name: "Hall", Tables: []Table{}},
		},
	}
}

func TestBranchSummary(t *testing.T) {
	b := sampleBranch()
	want := "Riyadh Park [B01]: reservations ON, 2 sections, 1/2 tables reservable"
	if got := b.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestFormatDetailed(t *testing.T) {
	b := sampleBranch()
	out := b.FormatDetailed()

	for _, want := range []string{
		"=== Riyadh Park ===",
		"Reference:    B01",
		"Duration:     90 min",
		"saturday   08:00-12:00, 18:00-23:00",
		"Terrace (s1)",
		"✓ T-1",
		"✗ T-2",
		"(no tables)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatDetailed() missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatDetailed_NoSections(t *testing.T) {
	b := Branch{ID: "b2", Name: "Olaya", Sections: []Section{}}
	out := b.FormatDetailed()

	if !strings.Contains(out, "Sections:     (none)") {
		t.Errorf("FormatDetailed() = %q, want (none) sections", out)
	}
	if !strings.Contains(out, "(no reservation times)") {
		t.Errorf("FormatDetailed() = %q, want empty schedule note", out)
	}
}

func TestFormatCompact(t *testing.T) {
	out := FormatCompact([]Branch{sampleBranch(), {ID: "b2", Name: "Olaya"}})
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if len(lines) != 2 {
		t.Fatalf("FormatCompact() lines = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "✓ Riyadh Park") || !strings.HasPrefix(lines[1], "✗ Olaya") {
		t.Errorf("FormatCompact() = %q", out)
	}
	if FormatCompact(nil) != "(no branches)\n" {
		t.Error("FormatCompact(nil) should report no branches")
	}
}

func TestBranchPatchFormatChanges(t *testing.T) {
	out := BranchPatch{AcceptsReservations: Bool(false), ReservationDuration: Int(30)}.FormatChanges()

	if !strings.Contains(out, "Reservations: OFF") || !strings.Contains(out, "Duration:     30 min") {
		t.Errorf("FormatChanges() = %q", out)
	}
	if !strings.Contains(BranchPatch{ReservationTimes: Schedule(nil)}.FormatChanges(), "Schedule:     cleared") {
		t.Error("empty schedule should be shown as cleared")
	}
	if !strings.Contains(BranchPatch{}.FormatChanges(), "no changes") {
		t.Error("empty patch should report no changes")
	}
}

func TestBatchResultFormatOutcomes(t *testing.T) {
	r := &BatchResult{
		Kind: "branch",
		Outcomes: []Outcome{
			{ID: "A", Name: "Alpha", State: OutcomeSucceeded},
			{ID: "B", Name: "Bravo", State: OutcomeFailed, Err: NewRejectedError("", "PUT", "/branches/B", 404, "Branch not found")},
			{ID: "C", State: OutcomeFailed, Err: errors.New("odd")},
		},
	}

	out := r.FormatOutcomes()

	for _, want := range []string{
		"✓ Alpha (A) succeeded",
		"✗ Bravo (B): Branch not found",
		"✗ C: " + DefaultErrorMessage,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatOutcomes() missing %q in:\n%s", want, out)
		}
	}
}
