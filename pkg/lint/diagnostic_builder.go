package lint

import (
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// DiagnosticBuilder assembles a Diagnostic with chained setters.
type DiagnosticBuilder struct {
	diag Diagnostic
}

func newBuilder(ruleID, path string, pos syntax.SourcePosition, msg string) *DiagnosticBuilder {
	d := Diagnostic{RuleID: ruleID, Message: msg, FilePath: path}
	d.StartLine, d.StartColumn = pos.StartLine, pos.StartColumn
	d.EndLine, d.EndColumn = pos.EndLine, pos.EndColumn
	return &DiagnosticBuilder{diag: d}
}

// NewDiagnostic reports at the span of node. A nil node yields a
// diagnostic without a position.
func NewDiagnostic(ruleID string, node *syntax.Node, message string) *DiagnosticBuilder {
	if node == nil {
		return newBuilder(ruleID, "", syntax.SourcePosition{}, message)
	}
	path := ""
	if node.File != nil {
		path = node.File.Path
	}
	return newBuilder(ruleID, path, node.SourcePosition(), message)
}

// NewDiagnosticAt reports at an already computed position.
func NewDiagnosticAt(ruleID, filePath string, pos syntax.SourcePosition, message string) *DiagnosticBuilder {
	return newBuilder(ruleID, filePath, pos, message)
}

// NewDiagnosticRange reports at a byte range of file, converting offsets to
// rune columns.
func NewDiagnosticRange(ruleID string, file *syntax.FileSnapshot, r syntax.SourceRange, message string) *DiagnosticBuilder {
	if file == nil {
		return newBuilder(ruleID, "", syntax.SourcePosition{}, message)
	}
	return newBuilder(ruleID, file.Path, file.RangePosition(r), message)
}

// NewDiagnosticAtWithRegistry is NewDiagnosticAt that also fills RuleName
// from reg.
func NewDiagnosticAtWithRegistry(
	ruleID, filePath string,
	pos syntax.SourcePosition,
	message string,
	reg *Registry,
) *DiagnosticBuilder {
	b := newBuilder(ruleID, filePath, pos, message)
	if reg == nil {
		return b
	}
	if rule, ok := reg.GetByID(ruleID); ok {
		b.diag.RuleName = rule.Name()
	}
	return b
}

func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFix appends every edit collected by eb. A nil builder is a no-op.
func (b *DiagnosticBuilder) WithFix(eb *fix.EditBuilder) *DiagnosticBuilder {
	if eb == nil {
		return b
	}
	return b.WithEdit(eb.Edits...)
}

func (b *DiagnosticBuilder) WithEdit(edits ...fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edits...)
	return b
}

// WithUnfixable records that the violation has no safe repair here.
func (b *DiagnosticBuilder) WithUnfixable() *DiagnosticBuilder {
	b.diag.MarkUnfixable()
	return b
}

func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
