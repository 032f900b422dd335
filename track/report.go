package track

import (
	"fmt"
	"strings"
)

const (
	reportHeader  = "@extend usage\n"
	reportNothing = "Nothing to see here, move along. Try show-all: true or over-only: false.\n"

	overMarker = "!!"
	warnGlyph  = "⚠"
)

// formatBudget renders usage recorded for one budget into a multi-line block.
// Unused budgets render to nothing. Pure - reads registry state, never
// mutates it.
func (t *Tracker) formatBudget(u *usageMap, budget string) string {
	if u == nil || u.empty() {
		return ""
	}

	limit := t.budgets[budget]

	var (
		lines strings.Builder
		over  int
		used  int
	)
	for _, placeholder := range u.order {
		consumers := u.consumers[placeholder]
		used = len(consumers)

		if used > limit || !t.opts.OverOnly {
			fmt.Fprintf(&lines, "%d/%d - %%%s\n", used, limit, placeholder)
		}
		if used <= limit && !t.opts.OverOnly {
			fmt.Fprintf(&lines, "   %s\n", strings.Join(consumers, ", "))
		}
		if used > limit {
			over++
			fmt.Fprintf(&lines, " %s %s\n", overMarker, strings.Join(consumers, ", "))
		}
	}

	count := len(u.order)
	ratio := limit * count

	prefix := warnGlyph
	if over == 0 && t.opts.ShowAll {
		prefix = "All good!"
	}
	// "used" intentionally carries the count of the last placeholder
	// processed, matching the long-standing report format.
	return fmt.Sprintf("%s - %d of %d %s (%d, %d/%d ratio)\n%s",
		prefix, over, count, budget, limit, used, ratio, lines.String())
}

// RenderDebug renders the usage report. keyFilter selects a single budget,
// "all" concatenates every configured budget in natural name order - not in
// registration order, which a map-backed budget table cannot provide stably.
// Unknown filter names are a LookupError. When nothing was recorded anywhere
// the report says so instead of coming back empty.
func (t *Tracker) RenderDebug(keyFilter string) (string, error) {
	out := reportHeader
	if keyFilter != "all" {
		u, ok := t.usage[keyFilter]
		if !ok {
			return "", &LookupError{Key: keyFilter}
		}
		out += t.formatBudget(u, keyFilter)
	} else {
		for _, name := range t.order {
			out += t.formatBudget(t.usage[name], name)
		}
	}
	if out == reportHeader {
		out += reportNothing
	}
	return out, nil
}
