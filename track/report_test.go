package track

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRenderDebug_FreshRegistry(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15, "heading": 12}, DefaultOptions())

	out, err := tr.RenderDebug("all")
	if err != nil {
		t.Fatalf("RenderDebug() error = %v", err)
	}
	if !strings.HasPrefix(out, reportHeader) {
		t.Errorf("report does not start with header: %q", out)
	}
	if !strings.Contains(out, "Nothing to see here") {
		t.Errorf("fresh registry report should carry the placeholder line, got %q", out)
	}
}

func TestRenderDebug_UnknownFilter(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15}, DefaultOptions())

	_, err := tr.RenderDebug("nope")
	var lerr *LookupError
	if !errors.As(err, &lerr) {
		t.Fatalf("RenderDebug(nope) error = %v, want LookupError", err)
	}
	if lerr.Key != "nope" {
		t.Errorf("LookupError.Key = %q, want nope", lerr.Key)
	}
}

func TestRenderDebug_AllGood(t *testing.T) {
	opts := DefaultOptions()
	opts.OverOnly = false
	tr := newTestTracker(t, map[string]int{"total": 15}, opts)

	if err := tr.Extend("card", "total", []string{".a", ".b"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	out, err := tr.RenderDebug("all")
	if err != nil {
		t.Fatalf("RenderDebug() error = %v", err)
	}
	if !strings.Contains(out, "All good!") {
		t.Errorf("report missing all-good headline: %q", out)
	}
	if !strings.Contains(out, "2/15 - %card") {
		t.Errorf("report missing placeholder summary: %q", out)
	}
	if !strings.Contains(out, ".a, .b") {
		t.Errorf("report missing consumer list when over-only is off: %q", out)
	}
	if !strings.Contains(out, "0 of 1 total (15, 2/15 ratio)") {
		t.Errorf("report missing budget summary: %q", out)
	}
}

func TestRenderDebug_OverOnlyHidesHealthy(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15}, DefaultOptions())

	if err := tr.Extend("card", "total", []string{".a"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	out, err := tr.RenderDebug("all")
	if err != nil {
		t.Fatalf("RenderDebug() error = %v", err)
	}
	if strings.Contains(out, "%card") {
		t.Errorf("over-only report should not list placeholders under budget: %q", out)
	}
	if !strings.Contains(out, "0 of 1 total") {
		t.Errorf("report missing budget summary: %q", out)
	}
}

func TestRenderDebug_OverBudget(t *testing.T) {
	opts := DefaultOptions()
	opts.WarnOver = false // report content should not depend on warnings
	tr := newTestTracker(t, map[string]int{"heading": 2, "total": 15}, opts)

	for i := range 3 {
		if err := tr.Extend("h", "heading", []string{fmt.Sprintf(".s%d", i)}); err != nil {
			t.Fatalf("Extend() error = %v", err)
		}
	}

	out, err := tr.RenderDebug("heading")
	if err != nil {
		t.Fatalf("RenderDebug() error = %v", err)
	}
	if !strings.Contains(out, "3/2 - %h") {
		t.Errorf("report missing over-budget summary line: %q", out)
	}
	if !strings.Contains(out, overMarker+" .s0, .s1, .s2") {
		t.Errorf("report missing marked consumer list: %q", out)
	}
	if !strings.Contains(out, warnGlyph) {
		t.Errorf("over-budget report should use warning headline: %q", out)
	}
	if strings.Contains(out, "All good!") {
		t.Errorf("over-budget report must not claim all good: %q", out)
	}
	if !strings.Contains(out, "1 of 1 heading (2, 3/2 ratio)") {
		t.Errorf("report missing budget summary: %q", out)
	}
}

func TestRenderDebug_SingleBudgetFilter(t *testing.T) {
	tr := newTestTracker(t, map[string]int{"total": 15, "heading": 1}, DefaultOptions())

	if err := tr.Extend("h", "heading", []string{".a", ".b"}); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}

	out, err := tr.RenderDebug("heading")
	if err != nil {
		t.Fatalf("RenderDebug() error = %v", err)
	}
	if !strings.Contains(out, "heading") {
		t.Errorf("filtered report missing budget name: %q", out)
	}
	// mirror entry lives under total, filter must exclude it
	if strings.Contains(out, "total") {
		t.Errorf("filtered report should not mention other budgets: %q", out)
	}
}
