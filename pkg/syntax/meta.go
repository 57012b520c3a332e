package syntax

import (
	"fmt"
	"strings"
)

// AttrMeta describes one attribute of an HTML start tag.
// It is attached to TokAttribute tokens and collected on ElementMeta.
type AttrMeta struct {
	// Name is the attribute name as written.
	Name string

	// NameStart and NameEnd delimit the name bytes.
	NameStart int
	NameEnd   int

	// HasValue is false for bare attributes such as `disabled`.
	HasValue bool

	// Value is the attribute value without quotes.
	Value string

	// Quote is '"', '\'' or 0 for unquoted values.
	Quote byte

	// ValueStart and ValueEnd delimit the raw value including quotes.
	ValueStart int
	ValueEnd   int

	// Token is the index of the TokAttribute token in FileSnapshot.Tokens.
	Token int
}

// LowerName returns the lowercased attribute name.
func (a *AttrMeta) LowerName() string {
	return strings.ToLower(a.Name)
}

// Range returns the byte range of the whole attribute.
func (a *AttrMeta) Range() SourceRange {
	end := a.NameEnd
	if a.HasValue {
		end = a.ValueEnd
	}
	return SourceRange{StartOffset: a.NameStart, EndOffset: end}
}

// ElementMeta holds the tag data of an HTML element.
type ElementMeta struct {
	// Name is the tag name as written in the start tag.
	Name string

	// NameStart and NameEnd delimit the tag name in the start tag.
	NameStart int
	NameEnd   int

	// Attrs lists attributes in source order.
	Attrs []*AttrMeta

	// OpenTag spans '<' through '>' of the start tag.
	OpenTag SourceRange

	// TagEnd is the index of the TokTagEnd token closing the start tag, or -1
	// if the start tag is unterminated.
	TagEnd int

	// SelfClosing is true when the start tag ends with "/>".
	SelfClosing bool

	// Void is true for elements that never have content.
	Void bool

	// CloseTag is the explicit end tag, or nil.
	CloseTag *SourceRange

	// CloseNameStart and CloseNameEnd delimit the name inside the end tag.
	CloseNameStart int
	CloseNameEnd   int

	// ImplicitClose is true when the parser closed the element without an end tag.
	ImplicitClose bool
}

// LowerName returns the lowercased tag name.
func (e *ElementMeta) LowerName() string {
	return strings.ToLower(e.Name)
}

// Attr returns the first attribute with the given case-insensitive name.
func (e *ElementMeta) Attr(name string) *AttrMeta {
	for _, attr := range e.Attrs {
		if strings.EqualFold(attr.Name, name) {
			return attr
		}
	}
	return nil
}

// voidElements never have content or an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether the tag name is an HTML void element.
func IsVoidElement(name string) bool {
	return voidElements[strings.ToLower(name)]
}

// rawTextElements hold unparsed text up to their end tag.
var rawTextElements = map[string]bool{
	"script": true, "style": true, "textarea": true, "title": true,
}

// IsRawTextElement reports whether the element's content is scanned as plain text.
func IsRawTextElement(name string) bool {
	return rawTextElements[strings.ToLower(name)]
}

// StringLit is a quoted string inside SCSS source.
type StringLit struct {
	// StartOffset and EndOffset include the quotes.
	StartOffset int
	EndOffset   int
	Quote       byte
}

// Range returns the byte range of the literal including quotes.
func (s StringLit) Range() SourceRange {
	return SourceRange{StartOffset: s.StartOffset, EndOffset: s.EndOffset}
}

// BlockMeta holds the prelude and braces of an SCSS block.
type BlockMeta struct {
	// Prelude is the trimmed selector list or at-rule prelude.
	Prelude string

	// Selectors is the comma-separated selector list of a rule set.
	Selectors []string

	// OpenBrace is the offset of '{'.
	OpenBrace int

	// CloseBrace is the offset of '}', or -1 when the block is unterminated.
	CloseBrace int

	// Strings lists string literals inside the prelude.
	Strings []StringLit
}

// IsModifier reports whether every selector refers to the parent with '&'.
func (b *BlockMeta) IsModifier() bool {
	if len(b.Selectors) == 0 {
		return false
	}
	for _, sel := range b.Selectors {
		if !strings.HasPrefix(sel, "&") {
			return false
		}
	}
	return true
}

// DeclCategory orders the contents of an SCSS block.
type DeclCategory uint8

const (
	CategoryNone DeclCategory = iota // comments and unordered at-rules
	CategoryVariable
	CategoryExtend
	CategoryInclude
	CategoryProperty
	CategoryIncludeBlock
	CategoryModifier
	CategoryChild
)

var categoryNames = [...]string{
	CategoryNone:         "none",
	CategoryVariable:     "variable",
	CategoryExtend:       "extend",
	CategoryInclude:      "include",
	CategoryProperty:     "property",
	CategoryIncludeBlock: "include-block",
	CategoryModifier:     "modifier",
	CategoryChild:        "child",
}

func (c DeclCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "none"
}

// ParseDeclCategory converts a category name to a DeclCategory.
func ParseDeclCategory(name string) (DeclCategory, error) {
	for i, n := range categoryNames {
		if i != int(CategoryNone) && n == name {
			return DeclCategory(i), nil
		}
	}
	return CategoryNone, fmt.Errorf("unknown declaration category %q", name)
}

// DeclMeta classifies an SCSS declaration or at-rule.
type DeclMeta struct {
	Category DeclCategory

	// Name is the property name, the variable name including '$',
	// or the at-keyword including '@'.
	Name string

	// Value is the trimmed text after ':' or after the at-keyword.
	Value string

	// HasBlock is true for at-rules followed by a braced block.
	HasBlock bool

	// Strings lists string literals inside the declaration.
	Strings []StringLit
}
