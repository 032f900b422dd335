// Package scss parses the small SCSS-like dialect understood by the budget
// linter: plain rules, placeholder rules (%name) and @extend directives.
package scss

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses stylesheet text into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new stylesheet parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("scss-parser")}
}

// Parse parses stylesheet text into a Stylesheet. The optional source
// parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Rules:    make([]*Rule, 0),
		Warnings: make([]string, 0),
	}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing stylesheet", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	// selectors of not yet finished group: the lexer hands out one
	// QualifiedRuleGrammar per comma-terminated selector and the body arrives
	// with the last selector as BeginRulesetGrammar
	var pending []string

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("Stylesheet parse error", zap.Error(parser.Err()))
			}
			return sheet

		case css.AtRuleGrammar:
			atRule := string(data)
			if atRule == "@extend" {
				// @extend with no enclosing rule - keep it so compilation can
				// fail with a proper context error
				if ext, ok := parseExtendTokens(parser.Values()); ok {
					sheet.Orphans = append(sheet.Orphans, ext)
					p.log.Debug("Found @extend outside any rule", zap.String("placeholder", ext.Placeholder))
				} else {
					sheet.Warnings = append(sheet.Warnings, "malformed @extend: "+rawTokens(parser.Values()))
				}
			} else {
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.BeginAtRuleGrammar:
			// no block @-rules in this dialect
			sheet.Warnings = append(sheet.Warnings, "unsupported @-rule: "+string(data))
			p.skipBlock(parser)
			p.log.Debug("Skipping @-rule block", zap.String("rule", string(data)))

		case css.QualifiedRuleGrammar:
			if s := parseSelector(data, parser.Values()); s != "" {
				pending = append(pending, s)
			}

		case css.BeginRulesetGrammar:
			selectors := pending
			pending = nil
			if s := parseSelector(data, parser.Values()); s != "" {
				selectors = append(selectors, s)
			}
			rule := &Rule{Selectors: selectors}
			p.parseBody(parser, sheet, rule)
			if len(rule.Selectors) > 0 {
				sheet.Rules = append(sheet.Rules, rule)
			}
		}
	}
}

// parseSelector rebuilds one selector from prelude token data. The group
// separator stays in the token stream, strip it.
func parseSelector(data []byte, values []css.Token) string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(sb.String()), ","))
}

// parseBody parses declarations and @extend directives until the ruleset
// ends. Placeholder detection happens here since it needs the full selector
// group to warn about mixed groups.
func (p *Parser) parseBody(parser *css.Parser, sheet *Stylesheet, rule *Rule) {
	if len(rule.Selectors) > 0 && strings.HasPrefix(rule.Selectors[0], "%") {
		rule.Placeholder = strings.TrimPrefix(rule.Selectors[0], "%")
		if len(rule.Selectors) > 1 {
			sheet.Warnings = append(sheet.Warnings,
				"placeholder %"+rule.Placeholder+" grouped with other selectors, extra selectors ignored")
			rule.Selectors = rule.Selectors[:1]
		}
	}

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return

		case css.DeclarationGrammar:
			rule.Declarations = append(rule.Declarations, Declaration{
				Property: string(data),
				Value:    rawTokens(parser.Values()),
			})

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) - value tokens come raw
			rule.Declarations = append(rule.Declarations, Declaration{
				Property: string(data),
				Value:    rawTokens(parser.Values()),
			})

		case css.AtRuleGrammar:
			if string(data) == "@extend" {
				if ext, ok := parseExtendTokens(parser.Values()); ok {
					rule.Extends = append(rule.Extends, ext)
					p.log.Debug("Parsed @extend",
						zap.String("placeholder", ext.Placeholder),
						zap.String("budget", ext.Budget),
						zap.Bool("optional", ext.Optional))
				} else {
					sheet.Warnings = append(sheet.Warnings, "malformed @extend: "+rawTokens(parser.Values()))
				}
			} else {
				sheet.Warnings = append(sheet.Warnings, "unsupported @-rule in body: "+string(data))
			}

		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported nested block in "+strings.Join(rule.Selectors, ", "))
			p.skipBlock(parser)
		}
	}
}

// parseExtendTokens parses "%name [!optional] [budget(NAME)|NAME]" from
// @extend prelude tokens. Returns false when no placeholder name is found or
// an unexpected token shows up.
func parseExtendTokens(tokens []css.Token) (Extend, bool) {
	var ext Extend
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.TokenType {
		case css.WhitespaceToken, css.CommentToken:
			continue

		case css.DelimToken:
			switch string(t.Data) {
			case "%":
				if ext.Placeholder == "" && i+1 < len(tokens) && tokens[i+1].TokenType == css.IdentToken {
					ext.Placeholder = string(tokens[i+1].Data)
					i++
					continue
				}
				return ext, false
			case "!":
				if i+1 < len(tokens) && tokens[i+1].TokenType == css.IdentToken &&
					strings.EqualFold(string(tokens[i+1].Data), "optional") {
					ext.Optional = true
					i++
					continue
				}
				return ext, false
			default:
				return ext, false
			}

		case css.FunctionToken:
			if !strings.EqualFold(strings.TrimSuffix(string(t.Data), "("), "budget") {
				return ext, false
			}
			for i++; i < len(tokens); i++ {
				tt := tokens[i]
				if tt.TokenType == css.RightParenthesisToken {
					break
				}
				if tt.TokenType == css.IdentToken || tt.TokenType == css.StringToken {
					ext.Budget = unquote(string(tt.Data))
				}
			}

		case css.IdentToken:
			// bare budget name shorthand: "@extend %h heading;"
			if ext.Placeholder != "" && ext.Budget == "" {
				ext.Budget = string(t.Data)
				continue
			}
			return ext, false

		default:
			return ext, false
		}
	}
	return ext, ext.Placeholder != ""
}

// rawTokens rebuilds display text from tokens collapsing whitespace runs.
func rawTokens(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// skipBlock skips tokens until the matching end of a block.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
