package branches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/branchdesk/reservectl/internal/logging"
)

// fakeUpdater records calls and fails for ids listed in failIDs.
type fakeUpdater struct {
	mu       sync.Mutex
	calls    []string
	patches  []BranchPatch
	tables   []TablePatch
	failIDs  map[string]error
	inFlight int
	maxSeen  int
	delay    time.Duration
}

func (f *fakeUpdater) record(id string) {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeUpdater) UpdateBranch(ctx context.Context, id string, patch BranchPatch) error {
	f.record(id)
	f.mu.Lock()
	f.patches = append(f.patches, patch)
	f.mu.Unlock()
	return f.failIDs[id]
}

func (f *fakeUpdater) UpdateTable(ctx context.Context, id string, patch TablePatch) error {
	f.record(id)
	f.mu.Lock()
	f.tables = append(f.tables, patch)
	f.mu.Unlock()
	return f.failIDs[id]
}

func (f *fakeUpdater) sortedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.calls...)
	sort.Strings(out)
	return out
}

func threeBranches() []Branch {
	return []Branch{
		{ID: "A", Name: "Alpha", AcceptsReservations: true},
		{ID: "B", Name: "Bravo", AcceptsReservations: true},
		{ID: "C", Name: "Charlie", AcceptsReservations: true},
	}
}

func TestDisableAllBranches_AllSucceed(t *testing.T) {
	fake := &fakeUpdater{}
	co := &Coordinator{Branches: fake}

	result, err := co.DisableAllBranches(context.Background(), threeBranches())
	if err != nil {
		t.Fatalf("DisableAllBranches() error = %v, want nil", err)
	}

	if got := fake.sortedCalls(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("calls = %v, want [A B C]", got)
	}
	for _, p := range fake.patches {
		if p.AcceptsReservations == nil || *p.AcceptsReservations {
			t.Errorf("patch = %+v, want accepts_reservations=false", p)
		}
		if p.Name != nil || p.ReservationDuration != nil || p.ReservationTimes != nil {
			t.Errorf("patch should only set accepts_reservations, got %+v", p)
		}
	}
	if !result.OK() || len(result.Succeeded()) != 3 {
		t.Errorf("Succeeded() = %d, want 3", len(result.Succeeded()))
	}
}

func TestDisableAllBranches_PartialFailureNoShortCircuit(t *testing.T) {
	fake := &fakeUpdater{
		failIDs: map[string]error{"B": NewRejectedError("update branch", "PUT", "/branches/B", 404, "Branch not found")},
	}
	co := &Coordinator{Branches: fake}

	result, err := co.DisableAllBranches(context.Background(), threeBranches())

	if got := fake.sortedCalls(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("all three updates should be attempted, calls = %v", got)
	}

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("DisableAllBranches() error = %v, want *BatchError", err)
	}
	if !reflect.DeepEqual(batchErr.FailedIDs(), []string{"B"}) {
		t.Errorf("FailedIDs() = %v, want [B]", batchErr.FailedIDs())
	}
	if !result.Partial() {
		t.Error("Partial() should be true when one of three failed")
	}
	if !reflect.DeepEqual(result.FailedIDs(), []string{"B"}) {
		t.Errorf("result.FailedIDs() = %v, want [B]", result.FailedIDs())
	}
	if len(result.Succeeded()) != 2 {
		t.Errorf("Succeeded() = %d, want 2", len(result.Succeeded()))
	}

	// The per-branch cause stays reachable through the aggregate.
	if !IsNotFound(err) {
		t.Error("errors.As through *BatchError should reach the 404 RequestError")
	}
	if got := Classify(batchErr.Failures[0].Err); got != "Branch not found" {
		t.Errorf("Classify(failure) = %q, want %q", got, "Branch not found")
	}
	if got := Classify(err); got != "1 of 3 branch updates failed" {
		t.Errorf("Classify(batch) = %q", got)
	}
}

func TestDisableAllBranches_AllFail(t *testing.T) {
	boom := errors.New("connection reset")
	fake := &fakeUpdater{failIDs: map[string]error{"A": boom, "B": boom, "C": boom}}
	co := &Coordinator{Branches: fake}

	result, err := co.DisableAllBranches(context.Background(), threeBranches())

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("error = %v, want *BatchError", err)
	}
	if len(batchErr.Failures) != 3 {
		t.Errorf("len(Failures) = %d, want 3", len(batchErr.Failures))
	}
	if result.Partial() || result.OK() {
		t.Error("total failure must be neither partial nor OK")
	}
	if !errors.Is(err, boom) {
		t.Error("errors.Is should find the underlying cause")
	}
	if got := batchErr.Summary(); got != "All 3 branch updates failed" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestDisableAllBranches_EmptyInput(t *testing.T) {
	fake := &fakeUpdater{}
	co := &Coordinator{Branches: fake}

	for _, input := range [][]Branch{nil, {}} {
		result, err := co.DisableAllBranches(context.Background(), input)
		if err != nil {
			t.Errorf("error = %v, want nil", err)
		}
		if result == nil || result.Total() != 0 {
			t.Errorf("result = %+v, want empty result", result)
		}
	}
	if len(fake.calls) != 0 {
		t.Errorf("calls = %v, want none", fake.calls)
	}
}

func TestDisableAllBranches_DoesNotMutateInput(t *testing.T) {
	input := threeBranches()
	before := threeBranches()

	co := &Coordinator{Branches: &fakeUpdater{}}
	if _, err := co.DisableAllBranches(context.Background(), input); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(input, before) {
		t.Errorf("input modified: %+v", input)
	}
}

func TestDisableAllBranches_Idempotent(t *testing.T) {
	fake := &fakeUpdater{}
	co := &Coordinator{Branches: fake}
	input := []Branch{{ID: "A"}, {ID: "B", AcceptsReservations: false}}

	for i := 0; i < 2; i++ {
		if _, err := co.DisableAllBranches(context.Background(), input); err != nil {
			t.Fatalf("run %d error = %v", i, err)
		}
	}

	if len(fake.patches) != 4 {
		t.Fatalf("patches = %d, want 4", len(fake.patches))
	}
	for _, p := range fake.patches {
		if !reflect.DeepEqual(p, BranchPatch{AcceptsReservations: Bool(false)}) {
			t.Errorf("patch = %+v, want identical disable patch", p)
		}
	}
}

func TestDisableAllBranches_RunsConcurrently(t *testing.T) {
	fake := &fakeUpdater{delay: 50 * time.Millisecond}
	co := &Coordinator{Branches: fake}

	branches := make([]Branch, 8)
	for i := range branches {
		branches[i] = Branch{ID: string(rune('a' + i))}
	}

	start := time.Now()
	if _, err := co.DisableAllBranches(context.Background(), branches); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	if fake.maxSeen < 2 {
		t.Errorf("max in-flight = %d, want concurrent updates", fake.maxSeen)
	}
	if elapsed > 8*50*time.Millisecond {
		t.Errorf("elapsed = %v, updates appear to run sequentially", elapsed)
	}
}

func TestBatchResult_OutcomesInInputOrder(t *testing.T) {
	fake := &fakeUpdater{failIDs: map[string]error{"C": errors.New("x")}}
	co := &Coordinator{Branches: fake}

	result, _ := co.DisableAllBranches(context.Background(), threeBranches())

	want := []string{"A", "B", "C"}
	for i, o := range result.Outcomes {
		if o.ID != want[i] {
			t.Errorf("Outcomes[%d].ID = %s, want %s", i, o.ID, want[i])
		}
		if o.State == OutcomePending {
			t.Errorf("Outcomes[%d] still pending after return", i)
		}
	}
	if result.Outcomes[2].State != OutcomeFailed {
		t.Errorf("Outcomes[2].State = %v, want failed", result.Outcomes[2].State)
	}
}

func TestEnableAllBranches(t *testing.T) {
	fake := &fakeUpdater{}
	co := &Coordinator{Branches: fake}

	result, err := co.EnableAllBranches(context.Background(), threeBranches())
	if err != nil {
		t.Fatal(err)
	}
	if result.Op != "enable reservations" {
		t.Errorf("Op = %q", result.Op)
	}
	for _, p := range fake.patches {
		if p.AcceptsReservations == nil || !*p.AcceptsReservations {
			t.Errorf("patch = %+v, want accepts_reservations=true", p)
		}
	}
}

func TestSetTablesAcceptance(t *testing.T) {
	fake := &fakeUpdater{failIDs: map[string]error{"t2": errors.New("nope")}}
	co := &Coordinator{Tables: fake}

	tables := []Table{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	result, err := co.SetTablesAcceptance(context.Background(), tables, false)

	var batchErr *BatchError
	if !errors.As(err, &batchErr) {
		t.Fatalf("error = %v, want *BatchError", err)
	}
	if batchErr.Kind != "table" || result.Kind != "table" {
		t.Errorf("Kind = %q, want table", batchErr.Kind)
	}
	if !reflect.DeepEqual(result.FailedIDs(), []string{"t2"}) {
		t.Errorf("FailedIDs() = %v, want [t2]", result.FailedIDs())
	}
	if len(fake.tables) != 3 {
		t.Errorf("table updates = %d, want 3", len(fake.tables))
	}
}

// End to end over HTTP: A, B, C with only B rejected.
func TestClientDisableAllBranches_HTTP(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/branches/")

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if v, ok := body["accepts_reservations"]; !ok || v != false || len(body) != 1 {
			t.Errorf("body for %s = %v, want {accepts_reservations:false}", id, body)
		}

		mu.Lock()
		seen[id] = true
		mu.Unlock()

		if id == "B" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"Branch is locked"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "t"})
	result, err := client.DisableAllBranches(context.Background(), threeBranches())

	if len(seen) != 3 {
		t.Errorf("server saw %v, want A, B and C", seen)
	}
	if err == nil {
		t.Fatal("DisableAllBranches() should fail when B is rejected")
	}
	if !reflect.DeepEqual(result.FailedIDs(), []string{"B"}) {
		t.Errorf("FailedIDs() = %v, want [B]", result.FailedIDs())
	}
	if got := Classify(result.Failed()[0].Err); got != "Branch is locked" {
		t.Errorf("Classify() = %q, want %q", got, "Branch is locked")
	}
}

func TestDisableAllBranches_FailedSubsetIsExact(t *testing.T) {
	five := []Branch{
		{ID: "A", Name: "Alpha"},
		{ID: "B", Name: "Bravo"},
		{ID: "C", Name: "Charlie"},
		{ID: "D", Name: "Delta"},
		{ID: "E", Name: "Echo"},
	}

	tests := []struct {
		name    string
		failing []string
	}{
		{"first only", []string{"A"}},
		{"last only", []string{"E"}},
		{"non-adjacent", []string{"A", "C"}},
		{"adjacent pair", []string{"B", "C"}},
		{"all but one", []string{"A", "B", "D", "E"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeUpdater{failIDs: map[string]error{}}
			failing := map[string]bool{}
			for _, id := range tt.failing {
				fake.failIDs[id] = NewRejectedError("update branch", "PUT", "/branches/"+id, 422, "rejected "+id)
				failing[id] = true
			}
			co := &Coordinator{Branches: fake}

			result, err := co.DisableAllBranches(context.Background(), five)

			if got := fake.sortedCalls(); len(got) != len(five) {
				t.Errorf("calls = %v, want all five", got)
			}
			if !reflect.DeepEqual(result.FailedIDs(), tt.failing) {
				t.Errorf("FailedIDs() = %v, want %v", result.FailedIDs(), tt.failing)
			}

			var batchErr *BatchError
			if !errors.As(err, &batchErr) || !reflect.DeepEqual(batchErr.FailedIDs(), tt.failing) {
				t.Errorf("BatchError ids = %v, want %v", batchErr, tt.failing)
			}
			want := fmt.Sprintf("%d of 5 branch updates failed", len(tt.failing))
			if got := Classify(err); got != want {
				t.Errorf("Classify() = %q, want %q", got, want)
			}

			succeeded := result.Succeeded()
			if len(succeeded)+len(tt.failing) != len(five) {
				t.Errorf("Succeeded() = %d, want %d", len(succeeded), len(five)-len(tt.failing))
			}
			for _, o := range succeeded {
				if failing[o.ID] {
					t.Errorf("branch %s reported as succeeded but was rejected", o.ID)
				}
			}
			for _, o := range result.Failed() {
				if got := Classify(o.Err); got != "rejected "+o.ID {
					t.Errorf("Classify(%s) = %q", o.ID, got)
				}
			}
		})
	}
}

// Library callers may never call logging.Initialize; concurrent updates
// must still log safely.
func TestClientDisableAllBranches_WithoutLoggerInitialized(t *testing.T) {
	logging.SetLogger(nil)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	all := make([]Branch, 50)
	for i := range all {
		all[i] = Branch{ID: fmt.Sprintf("b%02d", i)}
	}

	client := NewClient(Config{BaseURL: server.URL, Token: "t"})
	result, err := client.DisableAllBranches(context.Background(), all)
	if err != nil {
		t.Fatalf("DisableAllBranches() error = %v", err)
	}
	if len(result.Succeeded()) != len(all) {
		t.Errorf("Succeeded() = %d, want %d", len(result.Succeeded()), len(all))
	}
}
