package track

// DiagnosticKind classifies non-fatal findings accumulated during tracking.
type DiagnosticKind int

const (
	DiagConfiguration DiagnosticKind = iota // budget name not present in configuration
	DiagDuplicate                           // selector extends the same placeholder twice
	DiagOverage                             // placeholder is over its budget
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagConfiguration:
		return "configuration"
	case DiagDuplicate:
		return "duplicate"
	case DiagOverage:
		return "overage"
	default:
		return "unknown"
	}
}

// Diagnostic is a structured warning record. Message is display text only -
// tests and tooling should assert on the typed fields.
type Diagnostic struct {
	Kind        DiagnosticKind
	Budget      string
	Placeholder string
	Selector    string
	Message     string
}
