package scss

import (
	"context"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Parser builds a block tree from SCSS source.
// It implements lint.Parser.
type Parser struct{}

// New creates a new SCSS parser.
func New() *Parser {
	return &Parser{}
}

// Parse tokenizes content and builds the block tree.
// Malformed input never fails the parse; it is recorded in SyntaxErrors.
func (p *Parser) Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := syntax.NewFileSnapshot(path, syntax.DialectSCSS, content)

	tokens, scanErrs := Tokenize(content)
	snapshot.Tokens = tokens
	snapshot.SyntaxErrors = append(snapshot.SyntaxErrors, scanErrs...)

	builder := &treeBuilder{file: snapshot, root: syntax.NewRoot(syntax.DialectSCSS)}
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

	// opener is a selector or block at-rule waiting for its '{'.
	opener *syntax.Node

	// statement is a declaration or at-rule that may still take a ';'.
	statement *syntax.Node
}

func (b *treeBuilder) current() *syntax.Node {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) errorAt(tok syntax.Token, msg string) {
	b.file.SyntaxErrors = append(b.file.SyntaxErrors, syntax.SyntaxError{
		StartOffset: tok.StartOffset,
		EndOffset:   tok.EndOffset,
		Message:     msg,
	})
}

func (b *treeBuilder) build() {
	for i, tok := range b.file.Tokens {
		if tok.Kind.IsTrivia() {
			continue
		}
		if tok.Kind == syntax.TokSemicolon {
			if b.statement != nil {
				b.statement.LastToken = i
				b.statement = nil
			}
			continue
		}

		b.statement = nil
		if tok.Kind != syntax.TokBraceOpen {
			b.opener = nil
		}

		switch tok.Kind {
		case syntax.TokComment:
			b.append(syntax.NewNode(syntax.NodeComment), i)
		case syntax.TokSelector:
			node := syntax.NewNode(syntax.NodeRuleSet)
			node.Block, _ = tok.Meta.(*syntax.BlockMeta)
			b.append(node, i)
			b.opener = node
		case syntax.TokAtRule:
			b.atRule(tok, i)
		case syntax.TokDeclaration:
			node := syntax.NewNode(syntax.NodeDeclaration)
			node.Decl, _ = tok.Meta.(*syntax.DeclMeta)
			b.append(node, i)
			b.statement = node
		case syntax.TokBraceOpen:
			b.openBlock(tok, i)
		case syntax.TokBraceClose:
			b.closeBlock(tok, i)
		}
	}

	for len(b.stack) > 1 {
		node := b.current()
		b.errorAt(b.file.Tokens[node.FirstToken], "unclosed block")
		if last := node.LastChild; last != nil && last.LastToken > node.LastToken {
			node.LastToken = last.LastToken
		}
		b.stack = b.stack[:len(b.stack)-1]
	}

	if len(b.file.Tokens) > 0 {
		syntax.SetTokenRange(b.root, 0, len(b.file.Tokens)-1)
	}
}

func (b *treeBuilder) append(node *syntax.Node, index int) {
	syntax.SetTokenRange(node, index, index)
	syntax.AppendChild(b.current(), node)
}

func (b *treeBuilder) atRule(tok syntax.Token, index int) {
	decl, _ := tok.Meta.(*syntax.DeclMeta)
	node := syntax.NewNode(syntax.NodeAtRule)
	node.Decl = decl
	b.append(node, index)

	if decl != nil && decl.HasBlock {
		node.Block = &syntax.BlockMeta{
			Prelude:    collapseSpace(string(tok.Text(b.file.Content))),
			OpenBrace:  -1,
			CloseBrace: -1,
			Strings:    decl.Strings,
		}
		b.opener = node
		return
	}
	b.statement = node
}

func (b *treeBuilder) openBlock(tok syntax.Token, index int) {
	node := b.opener
	b.opener = nil

	if node == nil {
		b.errorAt(tok, "unexpected '{'")
		node = syntax.NewNode(syntax.NodeRuleSet)
		node.Block = &syntax.BlockMeta{CloseBrace: -1}
		b.append(node, index)
	}

	node.Block.OpenBrace = tok.StartOffset
	node.LastToken = index
	b.stack = append(b.stack, node)
}

func (b *treeBuilder) closeBlock(tok syntax.Token, index int) {
	if len(b.stack) == 1 {
		b.errorAt(tok, "unexpected '}'")
		return
	}

	node := b.current()
	node.Block.CloseBrace = tok.StartOffset
	node.LastToken = index
	b.stack = b.stack[:len(b.stack)-1]
}
