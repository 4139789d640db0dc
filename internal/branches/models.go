package branches

import (
	"sort"
	"strings"
)

// Weekday is the key used by a branch's reservation schedule.
type Weekday string

const (
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// Weekdays lists the schedule keys in the order the API presents them.
var Weekdays = []Weekday{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseWeekday converts a case-insensitive day name (full or three-letter) to a Weekday.
func ParseWeekday(s string) (Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, d := range Weekdays {
		if s == string(d) || (len(s) == 3 && strings.HasPrefix(string(d), s)) {
			return d, true
		}
	}
	return "", false
}

// TimeWindow is a single [start, end] reservation slot, e.g. ["08:00", "23:00"].
type TimeWindow [2]string

// Start returns the opening time of the window.
func (w TimeWindow) Start() string { return w[0] }

// End returns the closing time of the window.
func (w TimeWindow) End() string { return w[1] }

// ReservationTimes maps a weekday to its ordered reservation windows.
type ReservationTimes map[Weekday][]TimeWindow

// Days returns the weekdays present in the schedule. Known days come first in
// calendar order; unknown keys follow alphabetically.
func (rt ReservationTimes) Days() []Weekday {
	days := make([]Weekday, 0, len(rt))
	for _, d := range Weekdays {
		if _, ok := rt[d]; ok {
			days = append(days, d)
		}
	}

	var unknown []Weekday
	for d := range rt {
		if !d.Known() {
			unknown = append(unknown, d)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })

	return append(days, unknown...)
}

// Known reports whether d is one of the seven schedule keys.
func (d Weekday) Known() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Branch is a physical restaurant location, the root of the hierarchy.
type Branch struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Reference           string           `json:"reference"`            // Operator-facing code, e.g. "B01"
	AcceptsReservations bool             `json:"accepts_reservations"` // Branch-level switch, independent of tables
	ReservationDuration int              `json:"reservation_duration"` // Minutes per booking
	ReservationTimes    ReservationTimes `json:"reservation_times"`
	Sections            []Section        `json:"sections"`
}

// Section is a named area within a branch.
type Section struct {
	ID       string  `json:"id"`
	BranchID string  `json:"branch_id,omitempty"` // Back-reference to the owning branch
	Name     string  `json:"name"`
	Tables   []Table `json:"tables"`
}

// Table is a seatable unit within a section.
type Table struct {
	ID                  string `json:"id"`
	SectionID           string `json:"section_id,omitempty"` // Back-reference to the owning section
	Name                string `json:"name"`
	AcceptsReservations bool   `json:"accepts_reservations"`
}

// hierarchyResponse is the envelope returned by GET /branches.
type hierarchyResponse struct {
	Data []Branch `json:"data"`
}

// apiErrorBody is the shape of a non-2xx response body.
type apiErrorBody struct {
	Message string `json:"message"`
}

// BranchPatch is a partial branch update. Only non-nil fields are sent.
// ReservationTimes pointing at an empty map clears the weekly schedule.
type BranchPatch struct {
	Name                *string           `json:"name,omitempty" validate:"omitempty,min=1"`
	Reference           *string           `json:"reference,omitempty"`
	AcceptsReservations *bool             `json:"accepts_reservations,omitempty"`
	ReservationDuration *int              `json:"reservation_duration,omitempty" validate:"omitempty,gte=0"`
	ReservationTimes    *ReservationTimes `json:"reservation_times,omitempty"`
}

// IsEmpty reports whether the patch would send no fields.
func (p BranchPatch) IsEmpty() bool {
	return p.Name == nil &&
		p.Reference == nil &&
		p.AcceptsReservations == nil &&
		p.ReservationDuration == nil &&
		p.ReservationTimes == nil
}

// TablePatch is the body of PUT /tables/{id}. The flag is always sent.
type TablePatch struct {
	AcceptsReservations bool `json:"accepts_reservations"`
}

// Schedule returns a pointer to rt, for building patches. Schedule(nil) and
// Schedule(ReservationTimes{}) both send an empty schedule.
func Schedule(rt ReservationTimes) *ReservationTimes {
	if rt == nil {
		rt = ReservationTimes{}
	}
	return &rt
}

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// TableCount returns the number of tables across all sections of the branch.
func (b *Branch) TableCount() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Tables)
	}
	return n
}

// ReservableTables returns the number of tables whose own flag accepts reservations.
// The branch flag is not consulted; the two levels are independent.
func (b *Branch) ReservableTables() int {
	n := 0
	for _, s := range b.Sections {
		for _, t := range s.Tables {
			if t.AcceptsReservations {
				n++
			}
		}
	}
	return n
}

// FindSection returns the section with the given id, or nil.
func (b *Branch) FindSection(id string) *Section {
	for i := range b.Sections {
		if b.Sections[i].ID == id {
			return &b.Sections[i]
		}
	}
	return nil
}

// FindBranch returns the branch with the given id or reference, or nil.
func FindBranch(branches []Branch, key string) *Branch {
	for i := range branches {
		if branches[i].ID == key || (branches[i].Reference != "" && branches[i].Reference == key) {
			return &branches[i]
		}
	}
	return nil
}

// normalize replaces absent collections with empty ones and fills missing back-references.
func (b *Branch) normalize() {
	if b.ReservationTimes == nil {
		b.ReservationTimes = ReservationTimes{}
	}
	if b.Sections == nil {
		b.Sections = []Section{}
	}
	for i := range b.Sections {
		s := &b.Sections[i]
		if s.BranchID == "" {
			s.BranchID = b.ID
		}
		if s.Tables == nil {
			s.Tables = []Table{}
		}
		for j := range s.Tables {
			if s.Tables[j].SectionID == "" {
				s.Tables[j].SectionID = s.ID
			}
		}
	}
}
