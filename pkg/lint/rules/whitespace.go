package rules

import (
	"bytes"
	"fmt"

	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// replaceSpan reports [start,end) of file with a fix replacing it by text.
func replaceSpan(ruleID string, file *syntax.FileSnapshot, start, end int, text, msg, hint string) lint.Diagnostic {
	return lint.NewDiagnosticRange(ruleID, file, syntax.SourceRange{StartOffset: start, EndOffset: end}, msg).
		WithSuggestion(hint).
		WithEdit(fix.TextEdit{StartOffset: start, EndOffset: end, NewText: text}).
		Build()
}

// TrailingWhitespaceRule flags spaces and tabs before a line break or EOF.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule("ST005", "no-trailing-spaces",
			"Lines should not have trailing spaces",
			[]string{"whitespace"}, true),
	}
}

// Apply skips lines ending inside <pre> or <textarea>, whose whitespace is
// content.
func (r *TrailingWhitespaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}

	protected := preformattedRanges(ctx)
	var diags []lint.Diagnostic

	for line := range ctx.File.LineCount() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		start, end := lint.TrailingWhitespaceRange(ctx.File, line+1)
		if start < 0 || start >= end || inRanges(protected, start) {
			continue
		}
		diags = append(diags, replaceSpan(r.ID(), ctx.File, start, end, "",
			"Trailing whitespace", "Remove trailing whitespace"))
	}

	return diags, nil
}

// preformattedRanges returns the inner spans of pre and textarea elements.
func preformattedRanges(ctx *lint.RuleContext) []syntax.SourceRange {
	if ctx.Dialect() != syntax.DialectHTML {
		return nil
	}

	var out []syntax.SourceRange
	for _, el := range ctx.Nodes().Elements() {
		if tag := el.TagName(); tag != "pre" && tag != "textarea" {
			continue
		}
		inner := syntax.SourceRange{
			StartOffset: el.Element.OpenTag.EndOffset,
			EndOffset:   el.SourceRange().EndOffset,
		}
		if closing := el.Element.CloseTag; closing != nil {
			inner.EndOffset = closing.StartOffset
		}
		out = append(out, inner)
	}
	return out
}

func inRanges(ranges []syntax.SourceRange, offset int) bool {
	for _, r := range ranges {
		if r.Contains(offset) {
			return true
		}
	}
	return false
}

// FinalNewlineRule wants exactly one line break after the last
// non-whitespace byte.
type FinalNewlineRule struct {
	lint.BaseRule
}

func NewFinalNewlineRule() *FinalNewlineRule {
	return &FinalNewlineRule{
		BaseRule: lint.NewBaseRule("ST006", "final-newline",
			"Files should end with a single newline character",
			[]string{"whitespace"}, true),
	}
}

func isBlank(c rune) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f':
		return true
	}
	return false
}

// Apply ignores empty and whitespace-only files; ST005 owns those.
// A missing newline is added in the file's own line-ending style.
func (r *FinalNewlineRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil {
		return nil, nil
	}
	content := ctx.File.Content
	size := len(content)

	last := bytes.LastIndexFunc(content, func(c rune) bool { return !isBlank(c) })
	if last < 0 {
		return nil, nil
	}

	nl := bytes.IndexByte(content[last:], '\n')
	if nl < 0 {
		eol := "\n"
		if bytes.Contains(content, []byte("\r\n")) {
			eol = "\r\n"
		}
		return []lint.Diagnostic{replaceSpan(r.ID(), ctx.File, size, size, eol,
			"File should end with a newline", "Add a newline at end of file")}, nil
	}

	if keep := last + nl + 1; keep < size {
		return []lint.Diagnostic{replaceSpan(r.ID(), ctx.File, keep, size, "",
			"File should end with a single newline", "Remove trailing blank lines")}, nil
	}
	return nil, nil
}
