package track

import "fmt"

// Option names recognized by Options.Get. Kept as strings because this is how
// they spell in configuration files and diagnostics.
const (
	OptStrict         = "strict"
	OptWarnOver       = "warn-over"
	OptWarnDuplicates = "warn-duplicates"
	OptOverOnly       = "over-only"
	OptShowAll        = "show-all"
)

// Options controls how the tracker reacts to duplicates and overuse. Field set
// is closed - unknown names in configuration are rejected at decode time, not
// on first lookup.
type Options struct {
	// Strict converts every warning-level diagnostic into a fatal error.
	Strict bool `yaml:"strict"`
	// WarnOver emits a warning when a placeholder goes over its budget.
	WarnOver bool `yaml:"warn-over"`
	// WarnDuplicates emits a warning when a selector extends the same
	// placeholder twice.
	WarnDuplicates bool `yaml:"warn-duplicates"`
	// OverOnly limits the usage report to placeholders that are over budget.
	OverOnly bool `yaml:"over-only"`
	// ShowAll allows the "all good" headline in the usage report.
	ShowAll bool `yaml:"show-all"`
}

// DefaultOptions returns option values used when configuration does not say
// otherwise.
func DefaultOptions() Options {
	return Options{
		Strict:         false,
		WarnOver:       true,
		WarnDuplicates: true,
		OverOnly:       true,
		ShowAll:        true,
	}
}

// Get looks an option up by its configuration name. Unrecognized names are a
// ConfigurationError.
func (o Options) Get(name string) (bool, error) {
	switch name {
	case OptStrict:
		return o.Strict, nil
	case OptWarnOver:
		return o.WarnOver, nil
	case OptWarnDuplicates:
		return o.WarnDuplicates, nil
	case OptOverOnly:
		return o.OverOnly, nil
	case OptShowAll:
		return o.ShowAll, nil
	default:
		return false, &ConfigurationError{Reason: fmt.Sprintf("unknown option %q", name)}
	}
}
