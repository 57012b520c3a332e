// Package scss scans and parses SCSS (and plain CSS) into the lossless
// syntax model. Sass logic is not evaluated; variables, @extend and
// @include are classified lexically so ordering rules can inspect them.
package scss

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Scanner produces SCSS tokens lazily. Scanning the same content twice
// yields an identical token sequence.
type Scanner struct {
	src  []byte
	pos  int
	errs []syntax.SyntaxError
}

// NewScanner returns a scanner over src.
func NewScanner(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Errors returns the syntax errors recorded so far.
func (s *Scanner) Errors() []syntax.SyntaxError {
	return s.errs
}

// Tokenize scans all of src.
func Tokenize(src []byte) ([]syntax.Token, []syntax.SyntaxError) {
	s := NewScanner(src)
	var tokens []syntax.Token
	for tok := range s.All() {
		tokens = append(tokens, tok)
	}
	return tokens, s.Errors()
}

// All returns an iterator over the remaining tokens.
func (s *Scanner) All() iter.Seq[syntax.Token] {
	return func(yield func(syntax.Token) bool) {
		for {
			tok, ok := s.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Next returns the next token, or false at end of input.
func (s *Scanner) Next() (syntax.Token, bool) {
	if s.pos >= len(s.src) {
		return syntax.Token{}, false
	}

	start := s.pos
	switch c := s.src[s.pos]; {
	case c == '\n':
		s.pos++
		return s.token(syntax.TokNewline, start, nil), true
	case c == '\r' && s.peek(1) == '\n':
		s.pos += 2
		return s.token(syntax.TokNewline, start, nil), true
	case isBlank(c):
		for s.pos < len(s.src) && isBlank(s.src[s.pos]) && (s.src[s.pos] != '\r' || s.peek(1) != '\n') {
			s.pos++
		}
		return s.token(syntax.TokWhitespace, start, nil), true
	case c == '/' && s.peek(1) == '*':
		return s.scanBlockComment(), true
	case c == '/' && s.peek(1) == '/':
		s.skipLine()
		return s.token(syntax.TokComment, start, nil), true
	case c == '{':
		s.pos++
		return s.token(syntax.TokBraceOpen, start, nil), true
	case c == '}':
		s.pos++
		return s.token(syntax.TokBraceClose, start, nil), true
	case c == ';':
		s.pos++
		return s.token(syntax.TokSemicolon, start, nil), true
	default:
		return s.scanSegment(), true
	}
}

func (s *Scanner) token(kind syntax.TokenKind, start int, meta any) syntax.Token {
	return syntax.Token{Kind: kind, StartOffset: start, EndOffset: s.pos, Meta: meta}
}

func (s *Scanner) errorf(start, end int, format string, args ...any) {
	s.errs = append(s.errs, syntax.SyntaxError{
		StartOffset: start,
		EndOffset:   end,
		Message:     fmt.Sprintf(format, args...),
	})
}

func (s *Scanner) peek(offset int) byte {
	if s.pos+offset >= len(s.src) {
		return 0
	}
	return s.src[s.pos+offset]
}

// skipLine advances to the next line break without consuming it.
func (s *Scanner) skipLine() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' && (s.src[s.pos] != '\r' || s.peek(1) != '\n') {
		s.pos++
	}
}

// scanBlockComment consumes /* ... */. An unterminated comment is reported
// and only the rest of its line is skipped.
func (s *Scanner) scanBlockComment() syntax.Token {
	start := s.pos
	end := bytes.Index(s.src[s.pos+2:], []byte("*/"))
	if end < 0 {
		s.skipLine()
		s.errorf(start, s.pos, "unterminated comment")
		return s.token(syntax.TokOther, start, nil)
	}
	s.pos += 2 + end + 2
	return s.token(syntax.TokComment, start, nil)
}

// segment is the text of one selector, declaration or at-rule.
type segment struct {
	start, end int
	strings    []syntax.StringLit
	terminator byte // '{', ';', '}' or 0 at EOF / line comment
}

// scanSegment reads up to the next top-level '{', ';' or '}' and classifies
// the text by its terminator.
func (s *Scanner) scanSegment() syntax.Token {
	seg := segment{start: s.pos}
	parens, interp := 0, 0

loop:
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '"' || c == '\'':
			seg.strings = append(seg.strings, s.scanString(c))
			continue
		case c == '/' && s.peek(1) == '*':
			if end := bytes.Index(s.src[s.pos+2:], []byte("*/")); end >= 0 {
				s.pos += 2 + end + 2
				continue
			}
			break loop
		case c == '/' && s.peek(1) == '/' && parens == 0:
			break loop
		case c == '#' && s.peek(1) == '{':
			interp++
			s.pos += 2
			continue
		case c == '(':
			parens++
		case c == ')' && parens > 0:
			parens--
		case c == '}' && interp > 0:
			interp--
		case (c == '{' || c == ';' || c == '}') && parens == 0:
			seg.terminator = c
			break loop
		case c == '{' || c == '}':
			// A brace inside unbalanced parentheses still ends the
			// statement; report and resynchronize here.
			s.errorf(seg.start, s.pos, "unbalanced parentheses")
			parens = 0
			seg.terminator = c
			break loop
		}
		s.pos++
	}

	seg.end = s.pos
	for seg.end > seg.start && isSpace(s.src[seg.end-1]) {
		seg.end--
	}
	s.pos = seg.end

	return s.classify(seg)
}

// scanString consumes a quoted string. An unterminated string ends at the
// line break.
func (s *Scanner) scanString(quote byte) syntax.StringLit {
	lit := syntax.StringLit{StartOffset: s.pos, Quote: quote}
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\\' && s.pos+1 < len(s.src):
			s.pos += 2
			continue
		case c == quote:
			s.pos++
			lit.EndOffset = s.pos
			return lit
		case c == '\n' || c == '\r':
			s.errorf(lit.StartOffset, s.pos, "unterminated string")
			lit.EndOffset = s.pos
			lit.Quote = 0
			return lit
		}
		s.pos++
	}
	s.errorf(lit.StartOffset, s.pos, "unterminated string")
	lit.EndOffset = s.pos
	lit.Quote = 0
	return lit
}

func (s *Scanner) classify(seg segment) syntax.Token {
	text := string(s.src[seg.start:seg.end])
	tok := syntax.Token{StartOffset: seg.start, EndOffset: seg.end}

	if strings.HasPrefix(text, "@") {
		tok.Kind = syntax.TokAtRule
		tok.Meta = atRuleMeta(text, seg)
		return tok
	}

	if seg.terminator == '{' {
		tok.Kind = syntax.TokSelector
		tok.Meta = &syntax.BlockMeta{
			Prelude:    collapseSpace(text),
			Selectors:  splitSelectors(text),
			OpenBrace:  -1,
			CloseBrace: -1,
			Strings:    seg.strings,
		}
		return tok
	}

	tok.Kind = syntax.TokDeclaration
	decl := &syntax.DeclMeta{Category: syntax.CategoryProperty, Strings: seg.strings}
	if strings.HasPrefix(text, "$") {
		decl.Category = syntax.CategoryVariable
	}

	colon := topLevelIndex(text, ':')
	if colon < 0 {
		s.errorf(seg.start, seg.end, "expected ':' in declaration %q", text)
		decl.Name = text
	} else {
		decl.Name = strings.TrimSpace(text[:colon])
		decl.Value = strings.TrimSpace(text[colon+1:])
	}
	tok.Meta = decl

	return tok
}

func atRuleMeta(text string, seg segment) *syntax.DeclMeta {
	nameEnd := 1
	for nameEnd < len(text) && isIdentChar(text[nameEnd]) {
		nameEnd++
	}

	decl := &syntax.DeclMeta{
		Name:     strings.ToLower(text[:nameEnd]),
		Value:    strings.TrimSpace(text[nameEnd:]),
		HasBlock: seg.terminator == '{',
		Strings:  seg.strings,
	}

	switch decl.Name {
	case "@extend":
		decl.Category = syntax.CategoryExtend
	case "@include":
		decl.Category = syntax.CategoryInclude
		if decl.HasBlock {
			decl.Category = syntax.CategoryIncludeBlock
		}
	}

	return decl
}

// splitSelectors splits a selector list on top-level commas.
func splitSelectors(text string) []string {
	var selectors []string
	depth, start := 0, 0
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == ',' && depth == 0:
			selectors = appendSelector(selectors, text[start:i])
			start = i + 1
		}
	}

	return appendSelector(selectors, text[start:])
}

func appendSelector(selectors []string, sel string) []string {
	if sel = collapseSpace(sel); sel != "" {
		selectors = append(selectors, sel)
	}
	return selectors
}

// topLevelIndex finds c outside strings, parentheses and interpolation.
func topLevelIndex(text string, c byte) int {
	depth := 0
	var quote byte
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(' || ch == '{':
			depth++
		case (ch == ')' || ch == '}') && depth > 0:
			depth--
		case ch == c && depth == 0:
			return i
		}
	}
	return -1
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\r'
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n'
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}
