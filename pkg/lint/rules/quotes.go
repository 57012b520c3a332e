package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// QuoteStyleRule checks that attribute values and string literals use the
// configured quote character.
type QuoteStyleRule struct {
	lint.BaseRule
}

// NewQuoteStyleRule creates a new quote style rule.
func NewQuoteStyleRule() *QuoteStyleRule {
	return &QuoteStyleRule{
		BaseRule: lint.NewBaseRule(
			"ST003",
			"quote-style",
			"Attribute values and strings must use the configured quote character",
			[]string{"quotes"},
			true,
		),
	}
}

// templateMarkers start expressions of other languages embedded in the
// source. Quotes inside them are code, not text, so they cannot be escaped.
var templateMarkers = []string{"#{", "{{", "{%", "<%"}

// Apply checks quoting in the file's dialect.
func (r *QuoteStyleRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	style := ctx.Style().QuoteStyle
	if style == "" {
		style = config.QuoteDouble
	}

	switch ctx.Dialect() {
	case syntax.DialectHTML:
		return r.checkAttributes(ctx, style)
	case syntax.DialectSCSS:
		return r.checkStrings(ctx, style)
	default:
		return nil, nil
	}
}

func (r *QuoteStyleRule) checkAttributes(ctx *lint.RuleContext, style config.QuoteStyle) ([]lint.Diagnostic, error) {
	want := style.Char()
	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().Elements() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		for _, attr := range n.Element.Attrs {
			if !attr.HasValue || attr.Quote == want {
				continue
			}

			span := syntax.SourceRange{StartOffset: attr.ValueStart, EndOffset: attr.ValueEnd}
			msg := fmt.Sprintf("Attribute %q should use %s quotes", attr.Name, style)
			if attr.Quote == 0 {
				msg = fmt.Sprintf("Attribute %q value should be quoted with %s quotes", attr.Name, style)
			}

			b := lint.NewDiagnosticRange(r.ID(), ctx.File, span, msg).
				WithSeverity(config.SeverityWarning)

			if escaped, ok := escapeHTMLValue(attr.Value, want); ok {
				builder := fix.NewEditBuilder()
				builder.ReplaceRange(span.StartOffset, span.EndOffset, string(want)+escaped+string(want))
				b = b.WithSuggestion(fmt.Sprintf("Use %s quotes", style)).WithFix(builder)
			} else {
				b = b.WithSuggestion("Requote by hand; the value embeds template code using the same quote").
					WithUnfixable()
			}
			diags = append(diags, b.Build())
		}
	}

	return diags, nil
}

func (r *QuoteStyleRule) checkStrings(ctx *lint.RuleContext, style config.QuoteStyle) ([]lint.Diagnostic, error) {
	want := style.Char()
	var diags []lint.Diagnostic

	check := func(lits []syntax.StringLit) {
		for _, lit := range lits {
			// Unterminated strings have no quote and are reported as syntax errors.
			if lit.Quote == 0 || lit.Quote == want || lit.EndOffset-lit.StartOffset < 2 {
				continue
			}

			body := string(ctx.File.Content[lit.StartOffset+1 : lit.EndOffset-1])
			b := lint.NewDiagnosticRange(r.ID(), ctx.File, lit.Range(),
				fmt.Sprintf("String should use %s quotes", style)).
				WithSeverity(config.SeverityWarning)

			if swapped, ok := swapSCSSQuotes(body, lit.Quote, want); ok {
				builder := fix.NewEditBuilder()
				builder.ReplaceRange(lit.StartOffset, lit.EndOffset, string(want)+swapped+string(want))
				b = b.WithSuggestion(fmt.Sprintf("Use %s quotes", style)).WithFix(builder)
			} else {
				b = b.WithSuggestion("Requote by hand; the string interpolates code using the same quote").
					WithUnfixable()
			}
			diags = append(diags, b.Build())
		}
	}

	nodes := ctx.Nodes()
	for _, n := range nodes.RuleSets() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		check(n.Block.Strings)
	}
	for _, n := range nodes.AtRules() {
		if n.Decl != nil {
			check(n.Decl.Strings)
		}
	}
	for _, n := range nodes.Declarations() {
		if n.Decl != nil {
			check(n.Decl.Strings)
		}
	}

	return diags, nil
}

// escapeHTMLValue replaces the new quote character with its entity.
// It fails when the value embeds template code containing that quote.
func escapeHTMLValue(value string, quote byte) (string, bool) {
	if strings.IndexByte(value, quote) < 0 {
		return value, true
	}
	if hasTemplateMarker(value) {
		return "", false
	}

	entity := "&quot;"
	if quote == '\'' {
		entity = "&#39;"
	}
	return strings.ReplaceAll(value, string(quote), entity), true
}

// swapSCSSQuotes rewrites a string body quoted with from so that it can be
// quoted with to: escapes of from are dropped and bare to characters escaped.
func swapSCSSQuotes(body string, from, to byte) (string, bool) {
	if strings.IndexByte(body, to) >= 0 && hasTemplateMarker(body) {
		return "", false
	}

	var sb strings.Builder
	sb.Grow(len(body) + 2)
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			if body[i+1] != from {
				sb.WriteByte(c)
			}
			sb.WriteByte(body[i+1])
			i++
		case c == to:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), true
}

func hasTemplateMarker(s string) bool {
	for _, m := range templateMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
