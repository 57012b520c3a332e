package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// NestingDepthRule limits how deeply selectors are nested.
type NestingDepthRule struct {
	lint.BaseRule
}

// NewNestingDepthRule creates a new nesting depth rule.
func NewNestingDepthRule() *NestingDepthRule {
	return &NestingDepthRule{
		BaseRule: lint.NewBaseRule(
			"SC001",
			"nesting-depth",
			"Selectors must not be nested deeper than the configured maximum",
			[]string{"scss", "nesting"},
			false,
			syntax.DialectSCSS,
		),
	}
}

// Apply reports every rule set nested deeper than the maximum at its
// opening brace. At-rule blocks such as @media do not count.
func (r *NestingDepthRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	limit := ctx.Style().MaxNestingDepth
	if limit <= 0 {
		limit = config.DefaultMaxNestingDepth
	}

	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().RuleSets() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		depth := n.SelectorDepth()
		if depth <= limit {
			continue
		}

		at := n.SourceRange()
		if brace := n.Block.OpenBrace; brace >= 0 {
			at = syntax.SourceRange{StartOffset: brace, EndOffset: brace + 1}
		}

		diag := lint.NewDiagnosticRange(r.ID(), ctx.File, at,
			fmt.Sprintf("Selector nesting depth %d exceeds maximum of %d", depth, limit)).
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Flatten the selector or move it to its own block").
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// DeclarationOrderRule checks the order of items inside SCSS blocks.
type DeclarationOrderRule struct {
	lint.BaseRule
}

// NewDeclarationOrderRule creates a new declaration order rule.
func NewDeclarationOrderRule() *DeclarationOrderRule {
	return &DeclarationOrderRule{
		BaseRule: lint.NewBaseRule(
			"SC002",
			"declaration-order",
			"Block contents must follow the configured declaration order",
			[]string{"scss", "order"},
			true,
			syntax.DialectSCSS,
		),
	}
}

// orderUnit is one movable item of a block: a categorized child plus the
// comments attached to it.
type orderUnit struct {
	node  *syntax.Node
	span  syntax.SourceRange
	end   int // end of node itself, before any same-line comment
	rank  int
	needs bool // statement without a terminating ';'
}

// Apply checks each block separately. Uncategorized at-rules such as @media
// or @if split a block into runs that are checked and sorted on their own.
func (r *DeclarationOrderRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	ranks := CategoryRanks(ctx.Style().DeclarationOrder)

	var diags []lint.Diagnostic

	for _, block := range ctx.Nodes().Blocks() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		for _, run := range orderRuns(block, ranks) {
			if diag, ok := r.checkRun(ctx, run); ok {
				diags = append(diags, diag)
			}
		}
	}

	return diags, nil
}

func (r *DeclarationOrderRule) checkRun(ctx *lint.RuleContext, run []orderUnit) (lint.Diagnostic, bool) {
	if len(run) < 2 {
		return lint.Diagnostic{}, false
	}

	unitRanks := make([]int, len(run))
	spans := make([]syntax.SourceRange, len(run))
	for i, u := range run {
		unitRanks[i] = u.rank
		spans[i] = u.span
	}

	first := firstOutOfOrder(unitRanks)
	if first < 0 {
		return lint.Diagnostic{}, false
	}

	idx := make([]int, len(run))
	for i := range idx {
		idx[i] = i
	}
	stableSortByRank(idx, unitRanks)

	content := ctx.File.Content
	var sb strings.Builder
	for slot, from := range idx {
		if slot > 0 {
			sb.Write(content[spans[slot-1].EndOffset:spans[slot].StartOffset])
		}
		unit := run[from]
		if unit.needs {
			sb.Write(content[unit.span.StartOffset:unit.end])
			sb.WriteByte(';')
			sb.Write(content[unit.end:unit.span.EndOffset])
		} else {
			sb.Write(content[unit.span.StartOffset:unit.span.EndOffset])
		}
	}

	builder := fix.NewEditBuilder()
	builder.ReplaceRange(spans[0].StartOffset, spans[len(spans)-1].EndOffset, sb.String())

	bad := run[first].node
	prev := run[first-1].node
	for i := first - 1; i >= 0; i-- {
		if run[i].rank > run[first].rank {
			prev = run[i].node
			break
		}
	}

	diag := lint.NewDiagnostic(r.ID(), bad,
		fmt.Sprintf("%s %s should come before %s %s",
			bad.Category(), itemLabel(bad), prev.Category(), itemLabel(prev))).
		WithSeverity(config.SeverityWarning).
		WithSuggestion("Order block contents as: " + strings.Join(orderNames(ctx), ", ")).
		WithFix(builder).
		Build()

	return diag, true
}

// CategoryRanks maps each category to its position in order. Categories
// missing from order follow it in their default order.
func CategoryRanks(order []string) map[syntax.DeclCategory]int {
	ranks := make(map[syntax.DeclCategory]int)
	for _, name := range order {
		cat, err := syntax.ParseDeclCategory(name)
		if err != nil {
			continue
		}
		if _, seen := ranks[cat]; !seen {
			ranks[cat] = len(ranks)
		}
	}
	for _, name := range config.DefaultDeclarationOrder() {
		cat, _ := syntax.ParseDeclCategory(name)
		if _, seen := ranks[cat]; !seen {
			ranks[cat] = len(ranks)
		}
	}
	return ranks
}

func orderNames(ctx *lint.RuleContext) []string {
	order := ctx.Style().DeclarationOrder
	if len(order) == 0 {
		return config.DefaultDeclarationOrder()
	}
	return order
}

// orderRuns splits the children of block into runs of movable units.
func orderRuns(block *syntax.Node, ranks map[syntax.DeclCategory]int) [][]orderUnit {
	var (
		runs     [][]orderUnit
		current  []orderUnit
		comments = -1 // start offset of comments waiting for the next unit
	)

	flush := func() {
		if len(current) > 0 {
			runs = append(runs, current)
		}
		current = nil
		comments = -1
	}

	for child := block.FirstChild; child != nil; child = child.Next {
		span := child.SourceRange()

		if child.Kind == syntax.NodeComment {
			// A comment on the line where the previous unit ends belongs to it.
			if n := len(current); n > 0 && comments < 0 && sameLine(child.File, current[n-1].span.EndOffset, span.StartOffset) {
				current[n-1].span.EndOffset = span.EndOffset
				continue
			}
			if comments < 0 {
				comments = span.StartOffset
			}
			continue
		}

		cat := child.Category()
		if cat == syntax.CategoryNone {
			flush()
			continue
		}

		if comments >= 0 {
			span.StartOffset = comments
			comments = -1
		}
		current = append(current, orderUnit{
			node:  child,
			span:  span,
			end:   span.EndOffset,
			rank:  ranks[cat],
			needs: !child.IsBlock() && !endsWithSemicolon(child),
		})
	}
	flush()

	return runs
}

func endsWithSemicolon(n *syntax.Node) bool {
	if n.File == nil || n.LastToken < 0 || n.LastToken >= len(n.File.Tokens) {
		return false
	}
	return n.File.Tokens[n.LastToken].Kind == syntax.TokSemicolon
}

func sameLine(file *syntax.FileSnapshot, a, b int) bool {
	if file == nil {
		return false
	}
	lineA, _ := file.LineAt(a)
	lineB, _ := file.LineAt(b)
	return lineA == lineB
}

// itemLabel names a block item in messages.
func itemLabel(n *syntax.Node) string {
	switch {
	case n.Decl != nil && n.Decl.Category == syntax.CategoryInclude,
		n.Decl != nil && n.Decl.Category == syntax.CategoryIncludeBlock,
		n.Decl != nil && n.Decl.Category == syntax.CategoryExtend:
		return fmt.Sprintf("%q", n.Decl.Name+" "+firstWord(n.Decl.Value))
	case n.Decl != nil:
		return fmt.Sprintf("%q", n.Decl.Name)
	case n.Block != nil:
		return fmt.Sprintf("%q", n.Block.Prelude)
	default:
		return n.Kind.String()
	}
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t\n({;"); i >= 0 {
		return s[:i]
	}
	return s
}

// NoIDSelectorsRule flags id selectors.
type NoIDSelectorsRule struct {
	lint.BaseRule
}

// NewNoIDSelectorsRule creates a new no-id-selectors rule.
func NewNoIDSelectorsRule() *NoIDSelectorsRule {
	return &NoIDSelectorsRule{
		BaseRule: lint.NewBaseRule(
			"SC003",
			"no-id-selectors",
			"Selectors should not use ids",
			[]string{"scss", "selectors"},
			false,
			syntax.DialectSCSS,
		),
	}
}

// DefaultEnabled returns false; id selectors are common in legacy stylesheets.
func (r *NoIDSelectorsRule) DefaultEnabled() bool {
	return false
}

// DefaultSeverity returns info.
func (r *NoIDSelectorsRule) DefaultSeverity() config.Severity {
	return config.SeverityInfo
}

// Apply reports each id in rule set selectors.
func (r *NoIDSelectorsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().RuleSets() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		selector, base := lint.SelectorText(n)
		if base < 0 {
			continue
		}
		for _, name := range lint.SelectorNames(selector, base) {
			if name.Sigil != '#' {
				continue
			}
			diag := lint.NewDiagnosticRange(r.ID(), ctx.File,
				syntax.SourceRange{StartOffset: name.StartOffset, EndOffset: name.EndOffset},
				fmt.Sprintf("Avoid id selector #%s", name.Name)).
				WithSeverity(config.SeverityInfo).
				WithSuggestion("Select by class instead").
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}
