package compile

import "fmt"

// UndefinedPlaceholderError indicates a rule extends a placeholder that was
// never declared. Always fatal unless the extend carries !optional.
type UndefinedPlaceholderError struct {
	Placeholder string
	Selector    string
}

func (e *UndefinedPlaceholderError) Error() string {
	return fmt.Sprintf("%q extends %%%s which was never declared", e.Selector, e.Placeholder)
}
