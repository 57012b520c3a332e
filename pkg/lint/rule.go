// Package lint runs style rules over parsed HTML and SCSS files and drives
// the verified fix loop.
package lint

import (
	"slices"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Diagnostic is one finding. Positions are 1-based; columns count runes.
type Diagnostic struct {
	RuleID   string
	RuleName string
	Message  string
	Severity config.Severity
	FilePath string

	StartLine, StartColumn int
	EndLine, EndColumn     int

	// Suggestion is shown to the user when no automatic fix exists.
	Suggestion string

	FixEdits []fix.TextEdit

	// Unfixable is set on a finding the rule normally repairs but could
	// not repair safely here. It never coexists with FixEdits.
	Unfixable bool
}

func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

func (d *Diagnostic) SourcePosition() syntax.SourcePosition {
	return syntax.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// MarkUnfixable drops the fix and flags the diagnostic.
func (d *Diagnostic) MarkUnfixable() {
	d.FixEdits = nil
	d.Unfixable = true
}

// Rule is a single style check.
//
// Apply reads ctx.File and returns one Diagnostic per violation. It must not
// modify the tree or the snapshot, attaches edits only when CanFix is true,
// and returns an error only for an internal failure. Long walks should stop
// early once ctx.Cancelled reports true.
type Rule interface {
	ID() string
	Name() string
	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity
	Tags() []string
	CanFix() bool
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}

// DialectRule narrows a rule to some dialects. An empty list, or a rule
// without the method, means every dialect.
type DialectRule interface {
	Rule
	Dialects() []syntax.Dialect
}

// OptionsValidator lets a rule reject bad options at config load time.
type OptionsValidator interface {
	ValidateOptions(options map[string]any) error
}

// AppliesTo reports whether rule runs for files of the given dialect.
func AppliesTo(rule Rule, dialect syntax.Dialect) bool {
	dr, ok := rule.(DialectRule)
	if !ok {
		return true
	}
	dialects := dr.Dialects()
	return len(dialects) == 0 || slices.Contains(dialects, dialect)
}

// RuleDialects returns the dialects a rule applies to, defaulting to all.
func RuleDialects(rule Rule) []syntax.Dialect {
	if dr, ok := rule.(DialectRule); ok && len(dr.Dialects()) > 0 {
		return dr.Dialects()
	}
	return []syntax.Dialect{syntax.DialectHTML, syntax.DialectSCSS}
}
