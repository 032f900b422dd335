// Package compile turns parsed stylesheets into plain CSS, resolving
// placeholder inheritance and recording every @extend with the usage tracker.
package compile

import (
	"strings"

	"go.uber.org/zap"

	"extlint/scss"
	"extlint/track"
)

// placeholderEntry accumulates everything known about one placeholder during
// compilation: its declarations and the selector groups extending it.
type placeholderEntry struct {
	decls     []scss.Declaration
	extenders []string
}

// Compiler compiles one stylesheet unit. Like the tracker it is single-use -
// placeholder resolution state is scoped to one Compile call.
type Compiler struct {
	log     *zap.Logger
	tracker *track.Tracker

	// DebugReport injects the usage report into the compiled output as a
	// fixed-position overlay.
	DebugReport bool
	// ReportFilter selects which budget the injected report covers, "all" for
	// every budget.
	ReportFilter string
}

// New creates a compiler bound to a tracking session.
func New(tracker *track.Tracker, log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{
		log:          log.Named("compile"),
		tracker:      tracker,
		ReportFilter: "all",
	}
}

// Tracker exposes the session so callers can pull diagnostics and raw usage
// after compilation.
func (c *Compiler) Tracker() *track.Tracker {
	return c.tracker
}

// Compile resolves all @extend directives against declared placeholders,
// records usage with the tracker and renders the flattened stylesheet.
// Any fatal tracking error aborts with no output.
func (c *Compiler) Compile(sheet *scss.Stylesheet) (string, error) {
	// extend with no selector context is always fatal
	if len(sheet.Orphans) > 0 {
		return "", &track.ContextError{Placeholder: sheet.Orphans[0].Placeholder}
	}

	placeholders := c.collectPlaceholders(sheet)

	for _, rule := range sheet.Rules {
		for _, ext := range rule.Extends {
			if err := c.tracker.Extend(ext.Placeholder, ext.Budget, rule.Selectors); err != nil {
				return "", err
			}

			entry, declared := placeholders[ext.Placeholder]
			if !declared {
				if ext.Optional {
					c.log.Debug("Optional extend of undeclared placeholder",
						zap.String("placeholder", ext.Placeholder),
						zap.Strings("selectors", rule.Selectors))
					continue
				}
				return "", &UndefinedPlaceholderError{
					Placeholder: ext.Placeholder,
					Selector:    strings.Join(rule.Selectors, ", "),
				}
			}
			entry.extenders = append(entry.extenders, rule.Selectors...)
		}
	}

	return c.render(sheet, placeholders)
}

// collectPlaceholders builds the placeholder table. A placeholder declared
// twice keeps one entry with declarations appended in source order.
func (c *Compiler) collectPlaceholders(sheet *scss.Stylesheet) map[string]*placeholderEntry {
	placeholders := make(map[string]*placeholderEntry)
	for _, rule := range sheet.Rules {
		if !rule.IsPlaceholder() {
			continue
		}
		if entry, ok := placeholders[rule.Placeholder]; ok {
			c.log.Warn("Placeholder declared more than once, merging declarations",
				zap.String("placeholder", rule.Placeholder))
			entry.decls = append(entry.decls, rule.Declarations...)
			continue
		}
		placeholders[rule.Placeholder] = &placeholderEntry{decls: rule.Declarations}
	}
	return placeholders
}

// render writes the flattened stylesheet in source order. Placeholder rules
// render under their accumulated extender selectors, at the position of
// their first declaration; never-extended placeholders render nothing.
// Rules whose body was only @extend directives render nothing of their own.
func (c *Compiler) render(sheet *scss.Stylesheet, placeholders map[string]*placeholderEntry) (string, error) {
	var (
		sb       strings.Builder
		rendered = make(map[string]struct{})
		first    = true
	)

	blank := func() {
		if !first {
			sb.WriteByte('\n')
		}
		first = false
	}

	for _, rule := range sheet.Rules {
		if rule.IsPlaceholder() {
			if _, done := rendered[rule.Placeholder]; done {
				continue
			}
			rendered[rule.Placeholder] = struct{}{}

			entry := placeholders[rule.Placeholder]
			selectors := dedupeOrdered(entry.extenders)
			if len(selectors) == 0 || len(entry.decls) == 0 {
				continue
			}
			blank()
			if _, err := scss.WriteRule(&sb, selectors, entry.decls); err != nil {
				return "", err
			}
			continue
		}

		if len(rule.Declarations) == 0 {
			continue
		}
		blank()
		if _, err := scss.WriteRule(&sb, rule.Selectors, rule.Declarations); err != nil {
			return "", err
		}
	}

	if c.DebugReport {
		report, err := c.tracker.RenderDebug(c.ReportFilter)
		if err != nil {
			return "", err
		}
		blank()
		sb.WriteString(debugOverlay(report))
	}

	return sb.String(), nil
}

// dedupeOrdered removes repeats preserving first occurrence order. Unlike the
// tracker's duplicate filter repeats here are expected (several budgets may
// route the same selector group into one placeholder) and never diagnosed.
func dedupeOrdered(selectors []string) []string {
	out := make([]string, 0, len(selectors))
	seen := make(map[string]struct{}, len(selectors))
	for _, s := range selectors {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
