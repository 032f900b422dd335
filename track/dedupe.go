package track

import "fmt"

// dedupe removes repeated selectors from the sequence preserving first
// occurrence order. Every repeat is either a fatal DuplicateSelectorError
// (strict), a warning diagnostic (warn-duplicates), or silently dropped.
// Pure - the placeholder name is used for diagnostic text only.
func dedupe(selectors []string, placeholder string, opts Options) ([]string, []Diagnostic, error) {
	out := make([]string, 0, len(selectors))
	seen := make(map[string]struct{}, len(selectors))

	var diags []Diagnostic
	for _, s := range selectors {
		if _, dup := seen[s]; dup {
			if opts.Strict {
				return nil, diags, &DuplicateSelectorError{Placeholder: placeholder, Selector: s}
			}
			if opts.WarnDuplicates {
				diags = append(diags, Diagnostic{
					Kind:        DiagDuplicate,
					Placeholder: placeholder,
					Selector:    s,
					Message:     fmt.Sprintf("selector %q already extends %%%s", s, placeholder),
				})
			}
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, diags, nil
}
