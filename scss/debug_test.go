package scss

import (
	"strings"
	"testing"
)

func TestStylesheetString(t *testing.T) {
	src := `%card {
  padding: 1rem;
}
.tile {
  color: red;
  @extend %card !optional budget(components);
}
@extend %stray;
`
	sheet := NewParser(nil).Parse([]byte(src))

	dump := sheet.String()

	for _, want := range []string{
		"Stylesheet rules=2",
		`Placeholder[0] selectors="%card"`,
		"Declaration[0] padding: 1rem",
		`Rule[1] selectors=".tile"`,
		`Extend[0] placeholder="card" optional=true budget="components"`,
		`Orphan[0] placeholder="stray"`,
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}

func TestStylesheetString_Nil(t *testing.T) {
	var s *Stylesheet
	if got := s.String(); got != "<nil Stylesheet>" {
		t.Errorf("String() = %q", got)
	}
}
