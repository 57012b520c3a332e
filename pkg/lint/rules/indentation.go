package rules

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// IndentationRule checks that each line is indented by its nesting depth.
type IndentationRule struct {
	lint.BaseRule
}

// NewIndentationRule creates a new indentation rule.
func NewIndentationRule() *IndentationRule {
	return &IndentationRule{
		BaseRule: lint.NewBaseRule(
			"ST002",
			"indentation",
			"Lines must be indented with spaces by nesting depth times the indent width",
			[]string{"whitespace", "indentation"},
			true,
		),
	}
}

// Apply checks every line that starts a token with a known depth.
// Continuation lines (inside a multi-line tag, comment, declaration or
// raw text) and preformatted content are not checked.
func (r *IndentationRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.File == nil || ctx.Root == nil {
		return nil, nil
	}

	width := ctx.Style().IndentWidth
	if width <= 0 {
		width = config.DefaultIndentWidth
	}

	depths := lineStartDepths(ctx)

	var diags []lint.Diagnostic

	for lineNum := 1; lineNum <= ctx.File.LineCount(); lineNum++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		indent, start, ok := lint.LeadingWhitespace(ctx.File, lineNum)
		if !ok {
			continue
		}

		idx := ctx.File.TokenAt(start)
		if idx < 0 || ctx.File.Tokens[idx].StartOffset != start {
			continue
		}
		depth, known := depths[idx]
		if !known {
			continue
		}

		want := depth * width
		var msg string
		switch {
		case bytes.IndexByte(indent, '\t') >= 0:
			msg = fmt.Sprintf("Indentation uses tabs; expected %d spaces", want)
		case len(indent) != want:
			msg = fmt.Sprintf("Expected indentation of %d spaces, found %d", want, len(indent))
		default:
			continue
		}

		lineStart := ctx.File.Lines[lineNum-1].StartOffset
		builder := fix.NewEditBuilder()
		builder.ReplaceRange(lineStart, start, strings.Repeat(" ", want))

		diag := lint.NewDiagnosticRange(r.ID(), ctx.File,
			syntax.SourceRange{StartOffset: lineStart, EndOffset: start}, msg).
			WithSeverity(config.SeverityWarning).
			WithSuggestion(fmt.Sprintf("Indent with %d spaces", want)).
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// lineStartDepths maps token indices that may begin a line to their
// expected nesting depth.
func lineStartDepths(ctx *lint.RuleContext) map[int]int {
	depths := make(map[int]int)

	_ = syntax.Walk(ctx.Root, func(n *syntax.Node) error {
		if n.IsRoot() || n.FirstToken < 0 {
			return nil
		}

		switch ctx.Dialect() {
		case syntax.DialectHTML:
			htmlDepths(ctx.File, n, depths)
		case syntax.DialectSCSS:
			scssDepths(ctx.File, n, depths)
		}
		return nil
	})

	return depths
}

func htmlDepths(file *syntax.FileSnapshot, n *syntax.Node, depths map[int]int) {
	if n.HasAncestor("pre", "textarea", "script", "style") {
		return
	}

	depth := n.Depth()
	switch n.Kind {
	case syntax.NodeElement:
		depths[n.FirstToken] = depth
		// Whitespace before </pre> or </textarea> is element content.
		if n.Element.CloseTag != nil && !keepsCloseIndent(n.TagName()) {
			if idx := file.TokenAt(n.Element.CloseTag.StartOffset); idx >= 0 {
				depths[idx] = depth
			}
		}
	case syntax.NodeText:
		for i := n.FirstToken; i <= n.LastToken; i++ {
			depths[i] = depth
		}
	default:
		depths[n.FirstToken] = depth
	}
}

func keepsCloseIndent(tag string) bool {
	return tag == "pre" || tag == "textarea"
}

func scssDepths(file *syntax.FileSnapshot, n *syntax.Node, depths map[int]int) {
	depth := n.Depth()
	depths[n.FirstToken] = depth

	if !n.IsBlock() {
		return
	}
	for _, brace := range []int{n.Block.OpenBrace, n.Block.CloseBrace} {
		if brace < 0 {
			continue
		}
		if idx := file.TokenAt(brace); idx >= 0 {
			depths[idx] = depth
		}
	}
}
