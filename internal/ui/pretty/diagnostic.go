package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

const contextIndent = "        "

// FormatDiagnostic formats a diagnostic with its rule ID.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	return s.FormatDiagnosticWithFormat(diag, showContext, sourceLine, config.RuleFormatID)
}

// FormatDiagnosticWithFormat formats a diagnostic as
//
//	path:line:col  severity  message  (rule)
//
// followed by the source line with a caret and the suggestion, if any.
func (s *Styles) FormatDiagnosticWithFormat(
	diag *lint.Diagnostic,
	showContext bool,
	sourceLine string,
	ruleFormat config.RuleFormat,
) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn)
	rule := config.FormatRuleID(ruleFormat, diag.RuleID, diag.RuleName)

	fmt.Fprintf(&builder, "  %s  %s  %s  %s",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+rule+")"),
	)
	if diag.HasFix() {
		builder.WriteString(" " + s.TableFixable.Render("[fixable]"))
	}
	builder.WriteString("\n")

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns the styled severity label.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	if !sev.IsValid() {
		return string(sev)
	}
	return s.ForSeverity(sev).Render(string(sev))
}

// FormatSourceContext prints line with a caret under the rune at column
// (1-based). Tabs are kept in the padding and wide runes count double so the
// caret lines up in a terminal.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		builder.WriteString(contextIndent + caretPadding(line, column) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// caretPadding returns the whitespace that precedes column in line.
// Columns past the end of the line pad with plain spaces.
func caretPadding(line string, column int) string {
	var pad strings.Builder

	seen := 0
	for _, r := range line {
		if seen == column-1 {
			break
		}
		seen++
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	if seen < column-1 {
		pad.WriteString(strings.Repeat(" ", column-1-seen))
	}

	return pad.String()
}

// FormatFileHeader formats the heading for a group of diagnostics.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}
