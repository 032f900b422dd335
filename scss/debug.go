package scss

import (
	"fmt"
	"strconv"
	"strings"
)

type treeWriter struct {
	w *strings.Builder
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// String returns a readable tree of the parsed stylesheet. It exists solely
// for manual inspection during debugging.
func (s *Stylesheet) String() string {
	if s == nil {
		return "<nil Stylesheet>"
	}
	tw := treeWriter{w: &strings.Builder{}}
	tw.line(0, "Stylesheet rules=%d", len(s.Rules))
	for i, r := range s.Rules {
		tw.rule(1, r, i)
	}
	for i, o := range s.Orphans {
		tw.line(1, "Orphan[%d] placeholder=%q optional=%t budget=%q", i, o.Placeholder, o.Optional, o.Budget)
	}
	for i, w := range s.Warnings {
		tw.line(1, "Warning[%d]: %s", i, strconv.Quote(w))
	}
	return tw.w.String()
}

func (tw treeWriter) rule(depth int, r *Rule, index int) {
	kind := "Rule"
	if r.IsPlaceholder() {
		kind = "Placeholder"
	}
	tw.line(depth, "%s[%d] selectors=%q", kind, index, strings.Join(r.Selectors, ", "))
	for i, d := range r.Declarations {
		tw.line(depth+1, "Declaration[%d] %s: %s", i, d.Property, d.Value)
	}
	for i, e := range r.Extends {
		tw.line(depth+1, "Extend[%d] placeholder=%q optional=%t budget=%q", i, e.Placeholder, e.Optional, e.Budget)
	}
}
