package compile

import (
	"fmt"

	"extlint/scss"
)

// debugOverlay wraps the usage report into a fixed-position overlay rule so
// the report shows up on top of the rendered page. Presentation only - the
// report text itself comes from the tracker.
func debugOverlay(report string) string {
	return fmt.Sprintf(`body::before {
  content: "%s";
  position: fixed;
  top: 0;
  left: 0;
  z-index: 9999;
  padding: 1em;
  background: #fffbe6;
  border-bottom: 1px solid #d4b106;
  white-space: pre;
  font-family: monospace;
  font-size: 12px;
}
`, scss.EscapeContent(report))
}
