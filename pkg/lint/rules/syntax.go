package rules

import (
	"fmt"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

// MalformedSyntaxRule surfaces the recoveries made by the scanners and parsers.
type MalformedSyntaxRule struct {
	lint.BaseRule
}

// NewMalformedSyntaxRule creates a new malformed syntax rule.
func NewMalformedSyntaxRule() *MalformedSyntaxRule {
	return &MalformedSyntaxRule{
		BaseRule: lint.NewBaseRule(
			"ST001",
			"malformed-syntax",
			"Source must be well-formed HTML or SCSS",
			[]string{"syntax"},
			false,
		),
	}
}

// DefaultSeverity returns error; malformed input is never a style nit.
func (r *MalformedSyntaxRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Apply reports one diagnostic per syntax error recorded on the snapshot.
func (r *MalformedSyntaxRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	diags := make([]lint.Diagnostic, 0, len(ctx.File.SyntaxErrors))
	for _, serr := range ctx.File.SyntaxErrors {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		diag := lint.NewDiagnosticRange(r.ID(), ctx.File, serr.Range(), capitalize(serr.Message)).
			WithSeverity(config.SeverityError).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
