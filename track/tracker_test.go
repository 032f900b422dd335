package track

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

func newTestTracker(t *testing.T, budgets map[string]int, opts Options) *Tracker {
	t.Helper()
	tr, err := NewTracker(budgets, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	return tr
}

func TestNewTracker_NoBudgets(t *testing.T) {
	for _, budgets := range []map[string]int{nil, {}} {
		_, err := NewTracker(budgets, DefaultOptions(), nil)
		var cfg *ConfigurationError
		if !errors.As(err, &cfg) {
			t.Errorf("NewTracker(%v) error = %v, want ConfigurationError", budgets, err)
		}
	}
}

func TestNewTracker_BadLimit(t *testing.T) {
	_, err := NewTracker(map[string]int{"total": 0}, DefaultOptions(), nil)
	var cfg *ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("NewTracker() error = %v, want ConfigurationError", err)
	}
}

func TestOptions_Get(t *testing.T) {
	opts := DefaultOptions()

	cases := []struct {
		name string
		want bool
	}{
		{OptStrict, false},
		{OptWarnOver, true},
		{OptWarnDuplicates, true},
		{OptOverOnly, true},
		{OptShowAll, true},
	}
	for _, tc := range cases {
		got, err := opts.Get(tc.name)
		if err != nil {
			t.Errorf("Get(%q) error = %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("Get(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := opts.Get("warn_over"); err == nil {
		t.Error("Get() with unknown option name should fail")
	}
}

func TestExtend_RecordsDistinctConsumers(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15}, DefaultOptions())

	for _, sel := range []string{".a", ".b", ".c"} {
		if err := tr.Extend("card", "total", []string{sel}); err != nil {
			t.Fatalf("Extend(%q) error = %v", sel, err)
		}
	}

	got := tr.Consumers("total", "card")
	if len(got) != 3 {
		t.Fatalf("Consumers() = %v, want 3 entries", got)
	}
	if len(tr.Diagnostics()) != 0 {
		t.Errorf("Diagnostics() = %v, want none", tr.Diagnostics())
	}
}

func TestExtend_DefaultBudgetIsTotal(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15}, DefaultOptions())

	if err := tr.Extend("card", "", []string{".a"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if got := tr.Consumers(TotalBudget, "card"); len(got) != 1 || got[0] != ".a" {
		t.Errorf("Consumers(total, card) = %v, want [.a]", got)
	}
}

func TestExtend_DuplicateWarning(t *testing.T) {
	// budget {"total": 15, "heading": 12}; extend card from .a, .b, .a again
	tr := newTestTracker(t, map[string]int{"total": 15, "heading": 12}, DefaultOptions())

	for _, sel := range []string{".a", ".b", ".a"} {
		if err := tr.Extend("card", "total", []string{sel}); err != nil {
			t.Fatalf("Extend(%q) error = %v", sel, err)
		}
	}

	got := tr.Consumers("total", "card")
	if len(got) != 2 || got[0] != ".a" || got[1] != ".b" {
		t.Errorf("Consumers(total, card) = %v, want [.a .b]", got)
	}

	diags := tr.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("Diagnostics() = %v, want exactly one duplicate warning", diags)
	}
	if diags[0].Kind != DiagDuplicate || diags[0].Selector != ".a" {
		t.Errorf("diagnostic = %+v, want duplicate for .a", diags[0])
	}
}

func TestExtend_Overage(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15, "heading": 12}, DefaultOptions())

	// 13 distinct selectors against a limit of 12 - the 13th call crosses
	for i := range 13 {
		if err := tr.Extend("h", "heading", []string{fmt.Sprintf(".s%d", i)}); err != nil {
			t.Fatalf("Extend() call %d error = %v", i, err)
		}
	}

	var overages []Diagnostic
	for _, d := range tr.Diagnostics() {
		if d.Kind == DiagOverage {
			overages = append(overages, d)
		}
	}
	if len(overages) != 1 {
		t.Fatalf("got %d overage diagnostics, want 1", len(overages))
	}
	if overages[0].Budget != "heading" || overages[0].Placeholder != "h" {
		t.Errorf("overage diagnostic = %+v", overages[0])
	}

	// every further call at or over the threshold reports again
	if err := tr.Extend("h", "heading", []string{".s13"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	overages = overages[:0]
	for _, d := range tr.Diagnostics() {
		if d.Kind == DiagOverage {
			overages = append(overages, d)
		}
	}
	if len(overages) != 2 {
		t.Errorf("got %d overage diagnostics after another call, want 2", len(overages))
	}
}

func TestExtend_OverageStrict(t *testing.T) {
	opts := DefaultOptions()
	opts.Strict = true
	tr := newTestTracker(t, map[string]int{"heading": 2, "total": 15}, opts)

	for _, sel := range []string{".a", ".b"} {
		if err := tr.Extend("h", "heading", []string{sel}); err != nil {
			t.Fatalf("Extend(%q) error = %v", sel, err)
		}
	}

	err := tr.Extend("h", "heading", []string{".c"})
	var over *BudgetExceededError
	if !errors.As(err, &over) {
		t.Fatalf("Extend() error = %v, want BudgetExceededError", err)
	}
	if over.Over() != 1 {
		t.Errorf("Over() = %d, want 1", over.Over())
	}
	if over.Limit != 2 || over.Used != 3 {
		t.Errorf("BudgetExceededError = %+v, want used 3 limit 2", over)
	}
	if over.Selector != ".c" {
		t.Errorf("Selector = %q, want .c", over.Selector)
	}
}

func TestExtend_TotalMirror(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15, "heading": 12}, DefaultOptions())

	if err := tr.Extend("h", "heading", []string{".a", ".b"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	per := tr.Consumers("heading", "h")
	tot := tr.Consumers("total", "h")
	if len(per) != len(tot) {
		t.Fatalf("total mirror out of sync: heading %v, total %v", per, tot)
	}
	for i := range per {
		if per[i] != tot[i] {
			t.Errorf("total mirror[%d] = %q, want %q", i, tot[i], per[i])
		}
	}
}

func TestExtend_TotalMirrorOverwrites(t *testing.T) {
	// Two named budgets tracking the same placeholder name: the total row is
	// overwritten by the last budget written, never merged.
	tr := newTestTracker(t, map[string]int{"total": 15, "heading": 12, "body": 10}, DefaultOptions())

	if err := tr.Extend("h", "heading", []string{".a"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if err := tr.Extend("h", "body", []string{".b"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	tot := tr.Consumers("total", "h")
	if len(tot) != 1 || tot[0] != ".b" {
		t.Errorf("Consumers(total, h) = %v, want [.b] (last write wins)", tot)
	}
}

func TestExtend_UnknownBudget(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15}, DefaultOptions())

	if err := tr.Extend("card", "nope", []string{".a"}); err != nil {
		t.Fatalf("Extend() with unknown budget error = %v, want warning only", err)
	}

	diags := tr.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != DiagConfiguration {
		t.Fatalf("Diagnostics() = %v, want one configuration warning", diags)
	}
	// nothing persisted under the unknown name
	if got := tr.Consumers("nope", "card"); got != nil {
		t.Errorf("Consumers(nope, card) = %v, want nil", got)
	}
}

func TestExtend_OutsideSelector(t *testing.T) {
	for _, strict := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Strict = strict
		tr := newTestTracker(t, map[string]int{"total": 15}, opts)

		err := tr.Extend("card", "total", nil)
		var cerr *ContextError
		if !errors.As(err, &cerr) {
			t.Errorf("Extend() with no consumers (strict=%v) error = %v, want ContextError", strict, err)
		}
	}
}
