// Package track records placeholder extend usage during a single stylesheet
// compilation and checks it against configured budgets.
package track

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// TotalBudget is the reserved aggregate budget name. Per-budget usage is
// mirrored into it so the report always has the combined view.
const TotalBudget = "total"

// usageMap keeps consumers per placeholder in first-use order.
type usageMap struct {
	consumers map[string][]string
	order     []string
}

func newUsageMap() *usageMap {
	return &usageMap{consumers: make(map[string][]string)}
}

func (u *usageMap) set(placeholder string, selectors []string) {
	if _, ok := u.consumers[placeholder]; !ok {
		u.order = append(u.order, placeholder)
	}
	u.consumers[placeholder] = selectors
}

func (u *usageMap) empty() bool {
	return len(u.order) == 0
}

// Tracker is the usage registry for one compilation. It is created once per
// compilation session, mutated by Extend calls in source order and discarded
// with the session - nothing persists across runs. Not safe for concurrent
// use, compilation is strictly single-threaded.
type Tracker struct {
	log     *zap.Logger
	opts    Options
	budgets map[string]int
	usage   map[string]*usageMap
	order   []string
	diags   []Diagnostic
}

// NewTracker validates budgets eagerly and returns a ready to use session.
// Budget limits must be positive, an empty budget table is a
// ConfigurationError. One empty consumer map is allocated per configured
// budget name; report iteration follows natural budget name order for
// deterministic output.
func NewTracker(budgets map[string]int, opts Options, log *zap.Logger) (*Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(budgets) == 0 {
		return nil, &ConfigurationError{Reason: "no budgets configured"}
	}

	t := &Tracker{
		log:     log.Named("track"),
		opts:    opts,
		budgets: make(map[string]int, len(budgets)),
		usage:   make(map[string]*usageMap, len(budgets)),
		order:   make([]string, 0, len(budgets)),
	}
	for name, limit := range budgets {
		if limit <= 0 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("budget %q limit must be positive, got %d", name, limit)}
		}
		t.budgets[name] = limit
		t.usage[name] = newUsageMap()
		t.order = append(t.order, name)
	}
	sort.Sort(natural.StringSlice(t.order))
	return t, nil
}

// Options returns option values the session was built with.
func (t *Tracker) Options() Options {
	return t.opts
}

// Limit returns the configured limit for a budget name.
func (t *Tracker) Limit(budget string) (int, bool) {
	limit, ok := t.budgets[budget]
	return limit, ok
}

// Consumers returns a copy of selectors recorded so far for the placeholder
// under the budget.
func (t *Tracker) Consumers(budget, placeholder string) []string {
	u, ok := t.usage[budget]
	if !ok {
		return nil
	}
	return slices.Clone(u.consumers[placeholder])
}

// Diagnostics returns warnings accumulated so far in emission order.
func (t *Tracker) Diagnostics() []Diagnostic {
	return slices.Clone(t.diags)
}

// Extend records that consumers (selector strings of the extending rule) now
// inherit from placeholder under the named budget and checks the budget.
// Empty budget name selects the total budget. Empty consumers means extend was
// requested outside of any rule - a fatal ContextError.
//
// Usage is mirrored into the total budget whenever budget != total. The mirror
// overwrites the total entry with this budget's sequence instead of merging
// across budgets: two named budgets tracking the same placeholder name fight
// over the total row, last writer wins. Deliberately kept this way.
func (t *Tracker) Extend(placeholder, budget string, consumers []string) error {
	if budget == "" {
		budget = TotalBudget
	}
	if len(consumers) == 0 {
		return &ContextError{Placeholder: placeholder}
	}

	u, persistent := t.usage[budget]
	if !persistent {
		// Record keeping still happens so diagnostics stay useful, but into a
		// throwaway map - there is no budget to check against.
		t.emit(Diagnostic{
			Kind:        DiagConfiguration,
			Budget:      budget,
			Placeholder: placeholder,
			Message:     fmt.Sprintf("budget %q is not specified in configuration", budget),
		})
		u = newUsageMap()
	}

	merged := make([]string, 0, len(u.consumers[placeholder])+len(consumers))
	merged = append(merged, u.consumers[placeholder]...)
	merged = append(merged, consumers...)

	deduped, diags, err := dedupe(merged, placeholder, t.opts)
	for _, d := range diags {
		d.Budget = budget
		t.emit(d)
	}
	if err != nil {
		return err
	}

	u.set(placeholder, deduped)
	if budget != TotalBudget {
		if tot, ok := t.usage[TotalBudget]; ok {
			tot.set(placeholder, slices.Clone(deduped))
		}
	}

	if limit, ok := t.budgets[budget]; ok && len(deduped) > limit {
		selector := strings.Join(consumers, ", ")
		over := &BudgetExceededError{
			Placeholder: placeholder,
			Selector:    selector,
			Budget:      budget,
			Used:        len(deduped),
			Limit:       limit,
		}
		if t.opts.Strict {
			return over
		}
		if t.opts.WarnOver {
			t.emit(Diagnostic{
				Kind:        DiagOverage,
				Budget:      budget,
				Placeholder: placeholder,
				Selector:    selector,
				Message:     over.Error(),
			})
		}
	}
	return nil
}

// emit stores the diagnostic and mirrors it to the log.
func (t *Tracker) emit(d Diagnostic) {
	t.diags = append(t.diags, d)
	t.log.Warn(d.Message,
		zap.Stringer("kind", d.Kind),
		zap.String("budget", d.Budget),
		zap.String("placeholder", d.Placeholder),
		zap.String("selector", d.Selector))
}
