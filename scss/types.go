package scss

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single "property: value" pair in source order.
type Declaration struct {
	Property string
	Value    string
}

// Extend represents one @extend directive found inside a rule body:
// "@extend %name [!optional] [budget(NAME)];". Empty Budget means the
// aggregate total budget.
type Extend struct {
	Placeholder string // name without the leading %
	Optional    bool
	Budget      string
}

// Rule is a single rule: selector group plus body content. A rule whose first
// selector is a %name defines a placeholder - it does not render on its own,
// other rules inherit from it via @extend.
type Rule struct {
	Selectors    []string // selector group in source order
	Placeholder  string   // placeholder name without %, empty for regular rules
	Declarations []Declaration
	Extends      []Extend // @extend directives in body, source order
}

// IsPlaceholder returns true when the rule defines a placeholder.
func (r *Rule) IsPlaceholder() bool {
	return r.Placeholder != ""
}

// Stylesheet is a parsed stylesheet unit.
type Stylesheet struct {
	Rules []*Rule
	// Orphans are @extend directives found outside any rule. They have no
	// selector context and always fail compilation.
	Orphans  []Extend
	Warnings []string
}

// Placeholders returns all placeholder rules in source order.
func (s *Stylesheet) Placeholders() []*Rule {
	var out []*Rule
	for _, r := range s.Rules {
		if r.IsPlaceholder() {
			out = append(out, r)
		}
	}
	return out
}

// RulesBySelector returns all rules whose selector group contains the given
// selector string.
func (s *Stylesheet) RulesBySelector(selector string) []*Rule {
	var out []*Rule
	for _, r := range s.Rules {
		for _, sel := range r.Selectors {
			if sel == selector {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// WriteRule writes one compiled rule to w: the selector group on one line,
// declarations indented in source order.
func WriteRule(w io.Writer, selectors []string, decls []Declaration) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s {\n", strings.Join(selectors, ", "))
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range decls {
		n, err = fmt.Fprintf(w, "  %s: %s;\n", d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}

// EscapeContent escapes a string for use as a CSS content property value
// inside double quotes. Newlines become the \A escape so multi-line report
// text survives inside a single content string.
func EscapeContent(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\A `)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
