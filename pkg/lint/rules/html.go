package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// LowercaseNamesRule checks that tag and attribute names are lowercase.
type LowercaseNamesRule struct {
	lint.BaseRule
}

// NewLowercaseNamesRule creates a new lowercase names rule.
func NewLowercaseNamesRule() *LowercaseNamesRule {
	return &LowercaseNamesRule{
		BaseRule: lint.NewBaseRule(
			"HT001",
			"lowercase-names",
			"Tag and attribute names must be lowercase",
			[]string{"html", "case"},
			true,
			syntax.DialectHTML,
		),
	}
}

// Apply reports each element whose tag or attribute names contain
// uppercase letters. SVG and MathML keep their camelCase names.
func (r *LowercaseNamesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().Elements() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		tag := n.TagName()
		if tag == "svg" || tag == "math" || n.HasAncestor("svg", "math") {
			continue
		}

		el := n.Element
		builder := fix.NewEditBuilder()
		var names []string

		if el.Name != tag {
			builder.ReplaceRange(el.NameStart, el.NameEnd, tag)
			names = append(names, "<"+el.Name+">")
			if el.CloseTag != nil {
				builder.ReplaceRange(el.CloseNameStart, el.CloseNameEnd, tag)
			}
		} else if el.CloseTag != nil {
			closeName := string(ctx.File.Content[el.CloseNameStart:el.CloseNameEnd])
			if closeName != tag {
				builder.ReplaceRange(el.CloseNameStart, el.CloseNameEnd, tag)
				names = append(names, "</"+closeName+">")
			}
		}

		for _, attr := range el.Attrs {
			if lower := attr.LowerName(); lower != attr.Name {
				builder.ReplaceRange(attr.NameStart, attr.NameEnd, lower)
				names = append(names, attr.Name)
			}
		}

		if len(names) == 0 {
			continue
		}

		diag := lint.NewDiagnosticRange(r.ID(), ctx.File, el.OpenTag,
			fmt.Sprintf("Names should be lowercase: %s", strings.Join(names, ", "))).
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Lowercase tag and attribute names").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// ImgAltRule checks that images carry alternative text.
type ImgAltRule struct {
	lint.BaseRule
}

// NewImgAltRule creates a new img alt rule.
func NewImgAltRule() *ImgAltRule {
	return &ImgAltRule{
		BaseRule: lint.NewBaseRule(
			"HT002",
			"img-alt",
			"Images must have an alt attribute",
			[]string{"html", "accessibility"},
			false,
			syntax.DialectHTML,
		),
	}
}

// Apply reports img elements without an alt attribute.
func (r *ImgAltRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().Elements() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if n.TagName() != "img" || n.Element.Attr("alt") != nil {
			continue
		}

		diag := lint.NewDiagnosticRange(r.ID(), ctx.File, n.Element.OpenTag,
			"Image is missing an alt attribute").
			WithSeverity(config.SeverityWarning).
			WithSuggestion(`Add alt text, or alt="" for decorative images`).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// ClosingTagsRule checks self-closing markers and explicit closing tags.
type ClosingTagsRule struct {
	lint.BaseRule
}

// NewClosingTagsRule creates a new closing tags rule.
func NewClosingTagsRule() *ClosingTagsRule {
	return &ClosingTagsRule{
		BaseRule: lint.NewBaseRule(
			"HT003",
			"closing-tags",
			"Void elements must be self-closed and other elements explicitly closed",
			[]string{"html", "tags"},
			true,
			syntax.DialectHTML,
		),
	}
}

// DefaultSeverity returns error.
func (r *ClosingTagsRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Apply checks elements and stray void end tags.
func (r *ClosingTagsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic
	nodes := ctx.Nodes()

	for _, n := range nodes.Elements() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		el := n.Element
		if el.TagEnd < 0 {
			continue
		}

		switch {
		case el.Void && !el.SelfClosing:
			builder := fix.NewEditBuilder()
			builder.Insert(ctx.File.Tokens[el.TagEnd].StartOffset, "/")

			diag := lint.NewDiagnosticRange(r.ID(), ctx.File, el.OpenTag,
				fmt.Sprintf("Void element <%s> must be self-closed", n.TagName())).
				WithSeverity(config.SeverityError).
				WithSuggestion(fmt.Sprintf("Write <%s ... />", n.TagName())).
				WithFix(builder).
				Build()
			diags = append(diags, diag)
		case !el.Void && el.SelfClosing:
			diag := lint.NewDiagnosticRange(r.ID(), ctx.File, el.OpenTag,
				fmt.Sprintf("Element <%s> cannot be self-closed", n.TagName())).
				WithSeverity(config.SeverityError).
				WithSuggestion(fmt.Sprintf("Close it with </%s>", n.TagName())).
				WithUnfixable().
				Build()
			diags = append(diags, diag)
		case !el.Void && el.ImplicitClose:
			diag := lint.NewDiagnosticRange(r.ID(), ctx.File, el.OpenTag,
				fmt.Sprintf("Element <%s> is missing its closing tag", n.TagName())).
				WithSeverity(config.SeverityError).
				WithSuggestion(fmt.Sprintf("Add </%s> where the element ends", n.TagName())).
				WithUnfixable().
				Build()
			diags = append(diags, diag)
		}
	}

	for _, n := range nodes.EndTags() {
		if !n.Element.Void {
			continue
		}

		builder := fix.NewEditBuilder()
		builder.Delete(n.Element.CloseTag.StartOffset, n.Element.CloseTag.EndOffset)

		diag := lint.NewDiagnosticRange(r.ID(), ctx.File, *n.Element.CloseTag,
			fmt.Sprintf("Void element <%s> must not have a closing tag", n.TagName())).
			WithSeverity(config.SeverityError).
			WithSuggestion("Remove the closing tag").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// BooleanAttributesRule checks for redundant values on boolean attributes.
type BooleanAttributesRule struct {
	lint.BaseRule
}

// NewBooleanAttributesRule creates a new boolean attributes rule.
func NewBooleanAttributesRule() *BooleanAttributesRule {
	return &BooleanAttributesRule{
		BaseRule: lint.NewBaseRule(
			"HT004",
			"boolean-attributes",
			`Boolean attributes must not repeat their name as value (name="name")`,
			[]string{"html", "attributes"},
			true,
			syntax.DialectHTML,
		),
	}
}

// Apply reports every attribute written as name="name", whether or not
// HTML defines it as boolean.
func (r *BooleanAttributesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().Elements() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		for _, attr := range n.Element.Attrs {
			name := attr.LowerName()
			if !attr.HasValue || !strings.EqualFold(attr.Value, name) {
				continue
			}

			builder := fix.NewEditBuilder()
			builder.Delete(attr.NameEnd, attr.ValueEnd)

			diag := lint.NewDiagnosticRange(r.ID(), ctx.File, attr.Range(),
				fmt.Sprintf("Boolean attribute %q should not have a value", attr.Name)).
				WithSeverity(config.SeverityWarning).
				WithSuggestion(fmt.Sprintf("Write %s without a value", attr.Name)).
				WithFix(builder).
				Build()
			diags = append(diags, diag)
		}
	}

	return diags, nil
}

// AttributeOrderRule checks attribute categories appear in configured order.
type AttributeOrderRule struct {
	lint.BaseRule
}

// NewAttributeOrderRule creates a new attribute order rule.
func NewAttributeOrderRule() *AttributeOrderRule {
	return &AttributeOrderRule{
		BaseRule: lint.NewBaseRule(
			"HT005",
			"attribute-order",
			"Attributes must follow the configured category order",
			[]string{"html", "attributes", "order"},
			true,
			syntax.DialectHTML,
		),
	}
}

// Apply reports the first out-of-order attribute of each element and
// offers a stable re-sort of all its attributes.
func (r *AttributeOrderRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	order := ctx.Style().AttributeOrder
	if len(order) == 0 {
		order = config.DefaultAttributeOrder()
	}

	var diags []lint.Diagnostic

	for _, n := range ctx.Nodes().Elements() {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		attrs := n.Element.Attrs
		if len(attrs) < 2 {
			continue
		}

		ranks := make([]int, len(attrs))
		for i, attr := range attrs {
			ranks[i] = AttributeRank(order, attr.LowerName())
		}

		first := firstOutOfOrder(ranks)
		if first < 0 {
			continue
		}

		replacement, start, end := reorderSpans(ctx.File.Content, attrSpans(attrs), ranks)
		builder := fix.NewEditBuilder()
		builder.ReplaceRange(start, end, replacement)

		bad := attrs[first]
		diag := lint.NewDiagnosticRange(r.ID(), ctx.File, bad.Range(),
			fmt.Sprintf("Attribute %q is out of order; expected order: %s", bad.Name, strings.Join(order, ", "))).
			WithSeverity(config.SeverityWarning).
			WithSuggestion("Reorder attributes by category").
			WithFix(builder).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// AttributeRank returns the position of an attribute name in order.
// Entries are exact names, prefix patterns ending in '*', or "other".
// Names matching nothing rank with "other", or last when it is absent.
func AttributeRank(order []string, name string) int {
	other := len(order)
	for i, entry := range order {
		switch {
		case entry == "other":
			other = i
		case strings.HasSuffix(entry, "*"):
			if strings.HasPrefix(name, strings.TrimSuffix(entry, "*")) {
				return i
			}
		case entry == name:
			return i
		}
	}
	return other
}

func attrSpans(attrs []*syntax.AttrMeta) []syntax.SourceRange {
	spans := make([]syntax.SourceRange, len(attrs))
	for i, attr := range attrs {
		spans[i] = attr.Range()
	}
	return spans
}

// firstOutOfOrder returns the index of the first rank lower than a rank
// before it, or -1.
func firstOutOfOrder(ranks []int) int {
	highest := -1
	for i, rank := range ranks {
		if rank < highest {
			return i
		}
		highest = max(highest, rank)
	}
	return -1
}

// reorderSpans stably sorts spans by rank and rebuilds the text between
// the first and last span, keeping the original separators in place. An
// empty separator becomes a single space so moved items never touch.
func reorderSpans(content []byte, spans []syntax.SourceRange, ranks []int) (string, int, int) {
	idx := make([]int, len(spans))
	for i := range idx {
		idx[i] = i
	}
	stableSortByRank(idx, ranks)

	var sb strings.Builder
	for slot, from := range idx {
		if slot > 0 {
			sep := content[spans[slot-1].EndOffset:spans[slot].StartOffset]
			if len(sep) == 0 {
				sb.WriteByte(' ')
			}
			sb.Write(sep)
		}
		sb.Write(content[spans[from].StartOffset:spans[from].EndOffset])
	}

	return sb.String(), spans[0].StartOffset, spans[len(spans)-1].EndOffset
}

// stableSortByRank is an insertion sort; attribute and declaration lists are short.
func stableSortByRank(idx, ranks []int) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && ranks[idx[j]] < ranks[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

// DoctypeRule checks that full documents start with the HTML5 doctype.
type DoctypeRule struct {
	lint.BaseRule
}

// NewDoctypeRule creates a new doctype rule.
func NewDoctypeRule() *DoctypeRule {
	return &DoctypeRule{
		BaseRule: lint.NewBaseRule(
			"HT006",
			"doctype",
			"Documents with an <html> element must start with <!DOCTYPE html>",
			[]string{"html", "document"},
			true,
			syntax.DialectHTML,
		),
	}
}

// DefaultSeverity returns info.
func (r *DoctypeRule) DefaultSeverity() config.Severity {
	return config.SeverityInfo
}

const html5Doctype = "<!DOCTYPE html>"

// Apply checks the first significant node of documents containing <html>.
// Fragments are not checked.
func (r *DoctypeRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Root == nil {
		return nil, nil
	}

	hasHTML := false
	for _, n := range ctx.Nodes().Elements() {
		if n.TagName() == "html" {
			hasHTML = true
			break
		}
	}
	if !hasHTML {
		return nil, nil
	}

	first := firstSignificantChild(ctx.Root)
	if first == nil {
		return nil, nil
	}

	if first.Kind == syntax.NodeDoctype {
		text := strings.Join(strings.Fields(string(first.Text())), " ")
		if strings.EqualFold(text, html5Doctype) {
			return nil, nil
		}

		builder := fix.NewEditBuilder()
		span := first.SourceRange()
		builder.ReplaceRange(span.StartOffset, span.EndOffset, html5Doctype)

		diag := lint.NewDiagnostic(r.ID(), first, "Use the HTML5 doctype").
			WithSeverity(config.SeverityInfo).
			WithSuggestion("Replace with " + html5Doctype).
			WithFix(builder).
			Build()
		return []lint.Diagnostic{diag}, nil
	}

	if doctypes := ctx.Nodes().Doctypes(); len(doctypes) > 0 {
		diag := lint.NewDiagnostic(r.ID(), doctypes[0], "Doctype must be the first node of the document").
			WithSeverity(config.SeverityInfo).
			WithSuggestion("Move the doctype to the top of the file").
			WithUnfixable().
			Build()
		return []lint.Diagnostic{diag}, nil
	}

	start := first.SourceRange().StartOffset
	builder := fix.NewEditBuilder()
	builder.Insert(start, html5Doctype+"\n")

	diag := lint.NewDiagnosticRange(r.ID(), ctx.File,
		syntax.SourceRange{StartOffset: start, EndOffset: start}, "Missing doctype").
		WithSeverity(config.SeverityInfo).
		WithSuggestion("Add " + html5Doctype).
		WithFix(builder).
		Build()
	return []lint.Diagnostic{diag}, nil
}

// firstSignificantChild skips leading comments and whitespace-only text.
func firstSignificantChild(root *syntax.Node) *syntax.Node {
	for child := root.FirstChild; child != nil; child = child.Next {
		switch child.Kind {
		case syntax.NodeComment:
			continue
		case syntax.NodeText:
			if strings.TrimSpace(string(child.Text())) == "" {
				continue
			}
		}
		return child
	}
	return nil
}
