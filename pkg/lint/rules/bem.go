package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// DefaultBEMPattern matches block(-block)*(__element)?(--modifier)? with
// lowercase alphanumeric words joined by single hyphens. Uppercase letters
// and underscores inside a word need a custom pattern option.
const DefaultBEMPattern = `^[a-z0-9]+(?:-[a-z0-9]+)*(?:__[a-z0-9]+(?:-[a-z0-9]+)*)?(?:--[a-z0-9]+(?:-[a-z0-9]+)*)?$`

var defaultBEM = regexp.MustCompile(DefaultBEMPattern)

// BEMClassNamingRule checks class names against the BEM convention.
// Renaming needs knowledge of every place a class is used, so there is no fix.
type BEMClassNamingRule struct {
	lint.BaseRule
}

// NewBEMClassNamingRule creates a new BEM class naming rule.
func NewBEMClassNamingRule() *BEMClassNamingRule {
	return &BEMClassNamingRule{
		BaseRule: lint.NewBaseRule(
			"ST004",
			"bem-class-naming",
			"Class names must follow lowercase block__element--modifier naming; set the pattern option to allow other word characters",
			[]string{"naming", "bem"},
			false,
		),
	}
}

// ValidateOptions checks the pattern option.
func (r *BEMClassNamingRule) ValidateOptions(options map[string]any) error {
	raw, ok := options["pattern"]
	if !ok {
		return nil
	}
	pattern, ok := raw.(string)
	if !ok {
		return errors.New("pattern must be a string")
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid pattern: %w", err)
	}
	return nil
}

// Apply checks class attributes (HTML) and class selectors (SCSS).
func (r *BEMClassNamingRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	re := defaultBEM
	if pattern := ctx.OptionString("pattern", ""); pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern: %w", err)
		}
		re = compiled
	}

	var diags []lint.Diagnostic
	report := func(name string, start, end int) {
		if re.MatchString(name) {
			return
		}
		diag := lint.NewDiagnosticRange(r.ID(), ctx.File,
			syntax.SourceRange{StartOffset: start, EndOffset: end},
			fmt.Sprintf("Class %q does not follow BEM naming", name)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Use block__element--modifier with lowercase words separated by single hyphens").
			Build()
		diags = append(diags, diag)
	}

	switch ctx.Dialect() {
	case syntax.DialectHTML:
		for _, n := range ctx.Nodes().Elements() {
			if ctx.Cancelled() {
				return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
			}
			attr := n.Element.Attr("class")
			if attr == nil || !attr.HasValue || hasTemplateMarker(attr.Value) {
				continue
			}
			for _, tok := range lint.ClassTokens(attr.Value, lint.AttrValueStart(attr)) {
				report(tok.Name, tok.StartOffset, tok.EndOffset)
			}
		}
	case syntax.DialectSCSS:
		for _, n := range ctx.Nodes().RuleSets() {
			if ctx.Cancelled() {
				return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
			}
			selector, base := lint.SelectorText(n)
			if base < 0 {
				continue
			}
			for _, name := range lint.SelectorNames(selector, base) {
				if name.Sigil != '.' || strings.ContainsAny(name.Name, "{}") {
					continue
				}
				report(name.Name, name.StartOffset, name.EndOffset)
			}
		}
	}

	return diags, nil
}
