package html

import (
	"context"
	"strings"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Parser builds an element tree from HTML source.
// It implements lint.Parser.
type Parser struct{}

// New creates a new HTML parser.
func New() *Parser {
	return &Parser{}
}

// Parse tokenizes content and builds the element tree.
// Malformed markup never fails the parse; it is recorded in SyntaxErrors.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := syntax.NewFileSnapshot(path, syntax.DialectHTML, content)

	tokens, scanErrs := Tokenize(content)
	snapshot.Tokens = tokens
	snapshot.SyntaxErrors = append(snapshot.SyntaxErrors, scanErrs...)

	builder := &treeBuilder{file: snapshot, root: syntax.NewRoot(syntax.DialectHTML)}
	builder.stack = []*syntax.Node{builder.root}
	builder.build()

	snapshot.Root = builder.root
	syntax.SetFile(snapshot.Root, snapshot)

	return snapshot, nil
}

type treeBuilder struct {
	file  *syntax.FileSnapshot
	root  *syntax.Node
	stack []*syntax.Node
}

func (b *treeBuilder) current() *syntax.Node {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) build() {
	tokens := b.file.Tokens
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.Kind {
		case syntax.TokTagOpen:
			i = b.startTag(i)
		case syntax.TokTagClose:
			b.endTag(i)
		case syntax.TokComment:
			b.leaf(syntax.NodeComment, i)
		case syntax.TokDoctype:
			b.leaf(syntax.NodeDoctype, i)
		default:
			b.text(i)
		}
	}

	for len(b.stack) > 1 {
		b.closeImplicit()
	}

	if len(tokens) > 0 {
		syntax.SetTokenRange(b.root, 0, len(tokens)-1)
	}
}

func (b *treeBuilder) leaf(kind syntax.NodeKind, index int) {
	node := syntax.NewNode(kind)
	syntax.SetTokenRange(node, index, index)
	syntax.AppendChild(b.current(), node)
}

// text merges consecutive character tokens into one text node.
func (b *treeBuilder) text(index int) {
	parent := b.current()
	if last := parent.LastChild; last != nil && last.Kind == syntax.NodeText && last.LastToken == index-1 {
		last.LastToken = index
		return
	}
	b.leaf(syntax.NodeText, index)
}

// startTag consumes a start tag and returns the index of its last token.
func (b *treeBuilder) startTag(index int) int {
	tokens := b.file.Tokens
	open := tokens[index]
	name, _ := open.Meta.(string)

	meta := &syntax.ElementMeta{
		Name:      name,
		NameStart: open.StartOffset + 1,
		NameEnd:   open.StartOffset + 1 + len(name),
		OpenTag:   syntax.SourceRange{StartOffset: open.StartOffset, EndOffset: open.EndOffset},
		TagEnd:    -1,
		Void:      syntax.IsVoidElement(name),
	}

	last := index
	for j := index + 1; j < len(tokens); j++ {
		tok := tokens[j]
		if tok.Kind == syntax.TokTagEnd {
			meta.TagEnd = j
			meta.SelfClosing, _ = tok.Meta.(bool)
			last = j
			break
		}
		if tok.Kind != syntax.TokAttribute && !tok.Kind.IsTrivia() && tok.Kind != syntax.TokOther {
			break
		}
		if attr, ok := tok.Meta.(*syntax.AttrMeta); ok {
			meta.Attrs = append(meta.Attrs, attr)
		}
		last = j
	}
	meta.OpenTag.EndOffset = tokens[last].EndOffset

	node := syntax.NewNode(syntax.NodeElement)
	node.Element = meta
	syntax.SetTokenRange(node, index, last)
	syntax.AppendChild(b.current(), node)

	if !meta.Void && !meta.SelfClosing {
		b.stack = append(b.stack, node)
	}

	return last
}

func (b *treeBuilder) endTag(index int) {
	tok := b.file.Tokens[index]
	name, _ := tok.Meta.(string)
	lower := strings.ToLower(name)

	match := -1
	for k := len(b.stack) - 1; k > 0; k-- {
		if b.stack[k].TagName() == lower {
			match = k
			break
		}
	}

	if match < 0 {
		b.strayEndTag(index, name)
		return
	}

	for len(b.stack)-1 > match {
		b.closeImplicit()
	}

	node := b.current()
	node.Element.CloseTag = &syntax.SourceRange{StartOffset: tok.StartOffset, EndOffset: tok.EndOffset}
	node.Element.CloseNameStart = tok.StartOffset + 2
	node.Element.CloseNameEnd = tok.StartOffset + 2 + len(name)
	node.LastToken = index
	b.stack = b.stack[:len(b.stack)-1]
}

// strayEndTag records an end tag with no open element. Void end tags are
// left to the closing-tag rule; others are syntax errors.
func (b *treeBuilder) strayEndTag(index int, name string) {
	tok := b.file.Tokens[index]

	node := syntax.NewNode(syntax.NodeEndTag)
	node.Element = &syntax.ElementMeta{
		Name:           name,
		TagEnd:         -1,
		Void:           syntax.IsVoidElement(name),
		CloseTag:       &syntax.SourceRange{StartOffset: tok.StartOffset, EndOffset: tok.EndOffset},
		CloseNameStart: tok.StartOffset + 2,
		CloseNameEnd:   tok.StartOffset + 2 + len(name),
	}
	syntax.SetTokenRange(node, index, index)
	syntax.AppendChild(b.current(), node)

	if !node.Element.Void {
		b.file.SyntaxErrors = append(b.file.SyntaxErrors, syntax.SyntaxError{
			StartOffset: tok.StartOffset,
			EndOffset:   tok.EndOffset,
			Message:     "unexpected end tag </" + name + ">",
		})
	}
}

// closeImplicit closes the innermost open element without an end tag,
// extending its range over its children.
func (b *treeBuilder) closeImplicit() {
	node := b.current()
	b.stack = b.stack[:len(b.stack)-1]

	node.Element.ImplicitClose = true
	if last := node.LastChild; last != nil && last.LastToken > node.LastToken {
		node.LastToken = last.LastToken
	}
}
