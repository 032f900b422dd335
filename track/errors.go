package track

import "fmt"

// All fatal conditions surfaced by the tracker have their own error type, so
// callers can pick them apart with errors.As instead of matching message text.

// ConfigurationError indicates budgets or options are missing or malformed -
// tracking invariants cannot be established and compilation must stop.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// ContextError indicates an extend was requested outside of any selector
// scope. Always fatal regardless of options.
type ContextError struct {
	Placeholder string
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("cannot extend %%%s outside a selector", e.Placeholder)
}

// DuplicateSelectorError indicates a selector extends the same placeholder
// twice within one budget. Fatal only in strict mode.
type DuplicateSelectorError struct {
	Placeholder string
	Selector    string
}

func (e *DuplicateSelectorError) Error() string {
	return fmt.Sprintf("selector %q already extends %%%s", e.Selector, e.Placeholder)
}

// BudgetExceededError indicates recorded consumers for a placeholder went over
// the configured limit. Fatal only in strict mode.
type BudgetExceededError struct {
	Placeholder string
	Selector    string
	Budget      string
	Used        int
	Limit       int
}

// Over returns overage amount - by how many consumers the limit was crossed.
func (e *BudgetExceededError) Over() int {
	return e.Used - e.Limit
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("%%%s extended from %q is over %q budget by %d (%d/%d)",
		e.Placeholder, e.Selector, e.Budget, e.Over(), e.Used, e.Limit)
}

// LookupError indicates a usage report was requested for a budget name the
// registry never saw. Always fatal.
type LookupError struct {
	Key string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown budget %q requested in usage report", e.Key)
}
