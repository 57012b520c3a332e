// Package html scans and parses HTML into the lossless syntax model.
// It recognizes only the structure the style rules inspect: start and end
// tags, attributes, comments, doctypes and text.
package html

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Scanner produces HTML tokens lazily. Scanning the same content twice
// yields an identical token sequence.
type Scanner struct {
	src []byte
	pos int

	// emitted counts tokens returned so far; it is the index of the next token.
	emitted int

	// inTag is set between a TokTagOpen and its TokTagEnd.
	inTag   bool
	tagName string

	// rawEnd holds the element name whose end tag terminates raw text.
	rawEnd string

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
		if s.inTag {
			s.errorf(s.pos, s.pos, "unterminated start tag <%s>", s.tagName)
			s.inTag = false
		}
		return syntax.Token{}, false
	}

	var tok syntax.Token
	switch {
	case s.inTag:
		tok = s.scanTagInterior()
	case s.rawEnd != "":
		tok = s.scanRawText()
	default:
		tok = s.scanContent()
	}

	s.emitted++
	return tok, true
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

func (s *Scanner) hasPrefixFold(prefix string) bool {
	end := s.pos + len(prefix)
	return end <= len(s.src) && strings.EqualFold(string(s.src[s.pos:end]), prefix)
}

// scanTrivia consumes a newline or a run of blanks at s.pos.
func (s *Scanner) scanTrivia() (syntax.Token, bool) {
	start := s.pos
	switch {
	case s.peek(0) == '\n':
		s.pos++
		return s.token(syntax.TokNewline, start, nil), true
	case s.peek(0) == '\r' && s.peek(1) == '\n':
		s.pos += 2
		return s.token(syntax.TokNewline, start, nil), true
	case isBlank(s.peek(0)):
		for s.pos < len(s.src) && isBlank(s.src[s.pos]) && (s.src[s.pos] != '\r' || s.peek(1) != '\n') {
			s.pos++
		}
		return s.token(syntax.TokWhitespace, start, nil), true
	}
	return syntax.Token{}, false
}

func (s *Scanner) scanContent() syntax.Token {
	if tok, ok := s.scanTrivia(); ok {
		return tok
	}

	start := s.pos
	if s.peek(0) != '<' {
		for s.pos < len(s.src) {
			c := s.src[s.pos]
			if c == '<' || c == '\n' || isBlank(c) || (c == '\r' && s.peek(1) == '\n') {
				break
			}
			s.pos++
		}
		return s.token(syntax.TokText, start, nil)
	}

	switch {
	case s.hasPrefixFold("<!--"):
		return s.scanComment()
	case s.peek(1) == '!' || s.peek(1) == '?':
		return s.scanDeclaration()
	case s.peek(1) == '/' && isNameStart(s.peek(2)):
		return s.scanEndTag()
	case isNameStart(s.peek(1)):
		s.pos++
		nameStart := s.pos
		for s.pos < len(s.src) && isNameChar(s.src[s.pos]) {
			s.pos++
		}
		s.inTag = true
		s.tagName = string(s.src[nameStart:s.pos])
		return s.token(syntax.TokTagOpen, start, s.tagName)
	default:
		s.pos++
		s.errorf(start, s.pos, "unescaped '<' in text")
		return s.token(syntax.TokText, start, nil)
	}
}

// skipToTagBoundary advances to the next '<' after the current one, or EOF.
func (s *Scanner) skipToTagBoundary() {
	next := bytes.IndexByte(s.src[s.pos+1:], '<')
	if next < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += next + 1
}

func (s *Scanner) scanComment() syntax.Token {
	start := s.pos
	end := bytes.Index(s.src[s.pos+4:], []byte("-->"))
	if end < 0 {
		s.skipToTagBoundary()
		s.errorf(start, s.pos, "unterminated comment")
		return s.token(syntax.TokOther, start, nil)
	}
	s.pos += 4 + end + 3
	return s.token(syntax.TokComment, start, nil)
}

// scanDeclaration handles <!DOCTYPE>, <![CDATA[ ]]> and processing instructions.
func (s *Scanner) scanDeclaration() syntax.Token {
	start := s.pos
	end := bytes.IndexByte(s.src[s.pos:], '>')
	if end < 0 {
		s.skipToTagBoundary()
		s.errorf(start, s.pos, "unterminated markup declaration")
		return s.token(syntax.TokOther, start, nil)
	}

	isDoctype := s.hasPrefixFold("<!doctype")
	s.pos += end + 1
	if isDoctype {
		return s.token(syntax.TokDoctype, start, nil)
	}
	return s.token(syntax.TokComment, start, nil)
}

func (s *Scanner) scanEndTag() syntax.Token {
	start := s.pos
	s.pos += 2
	nameStart := s.pos
	for s.pos < len(s.src) && isNameChar(s.src[s.pos]) {
		s.pos++
	}
	name := string(s.src[nameStart:s.pos])

	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '>':
			s.pos++
			return s.token(syntax.TokTagClose, start, name)
		case '<':
			s.errorf(start, s.pos, "unterminated end tag </%s>", name)
			return s.token(syntax.TokTagClose, start, name)
		}
		s.pos++
	}

	s.errorf(start, s.pos, "unterminated end tag </%s>", name)
	return s.token(syntax.TokTagClose, start, name)
}

func (s *Scanner) scanTagInterior() syntax.Token {
	if tok, ok := s.scanTrivia(); ok {
		return tok
	}

	start := s.pos
	switch c := s.peek(0); {
	case c == '>':
		s.pos++
		s.inTag = false
		if IsRawText(s.tagName) {
			s.rawEnd = s.tagName
		}
		return s.token(syntax.TokTagEnd, start, false)
	case c == '/' && s.peek(1) == '>':
		s.pos += 2
		s.inTag = false
		return s.token(syntax.TokTagEnd, start, true)
	case c == '/':
		s.pos++
		return s.token(syntax.TokOther, start, nil)
	case c == '<':
		s.errorf(start, start, "unterminated start tag <%s>", s.tagName)
		s.inTag = false
		return s.scanContent()
	default:
		return s.scanAttribute()
	}
}

func (s *Scanner) scanAttribute() syntax.Token {
	start := s.pos
	attr := &syntax.AttrMeta{NameStart: start, Token: s.emitted}

	// A leading '=' is kept in the name, as browsers do.
	if s.peek(0) == '=' {
		s.pos++
	}
	for s.pos < len(s.src) && isAttrNameChar(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		s.pos++
		s.errorf(start, s.pos, "unexpected %q in start tag <%s>", s.src[start], s.tagName)
		return s.token(syntax.TokOther, start, nil)
	}
	attr.NameEnd = s.pos
	attr.Name = string(s.src[attr.NameStart:attr.NameEnd])

	// Look past blanks for '='; the blanks belong to the attribute only if one follows.
	look := s.pos
	for look < len(s.src) && isBlank(s.src[look]) {
		look++
	}
	if look >= len(s.src) || s.src[look] != '=' {
		return s.token(syntax.TokAttribute, start, attr)
	}

	s.pos = look + 1
	for s.pos < len(s.src) && isBlank(s.src[s.pos]) {
		s.pos++
	}

	attr.HasValue = true
	attr.ValueStart = s.pos

	switch quote := s.peek(0); quote {
	case '"', '\'':
		attr.Quote = quote
		end := bytes.IndexByte(s.src[s.pos+1:], quote)
		if end < 0 {
			valueEnd := bytes.IndexByte(s.src[s.pos+1:], '>')
			if valueEnd < 0 {
				valueEnd = len(s.src) - s.pos - 1
			}
			s.pos += 1 + valueEnd
			s.errorf(attr.ValueStart, s.pos, "unterminated attribute value")
			if s.pos >= len(s.src) {
				s.inTag = false
			}
			attr.Value = string(s.src[attr.ValueStart+1 : s.pos])
		} else {
			attr.Value = string(s.src[s.pos+1 : s.pos+1+end])
			s.pos += end + 2
		}
	default:
		for s.pos < len(s.src) {
			c := s.src[s.pos]
			if c == '>' || c == '<' || c == '\n' || c == '\r' || isBlank(c) || (c == '/' && s.peek(1) == '>') {
				break
			}
			s.pos++
		}
		attr.Value = string(s.src[attr.ValueStart:s.pos])
	}

	attr.ValueEnd = s.pos
	return s.token(syntax.TokAttribute, start, attr)
}

// scanRawText consumes the content of script, style, textarea and title
// up to the matching end tag.
func (s *Scanner) scanRawText() syntax.Token {
	start := s.pos
	name := s.rawEnd
	s.rawEnd = ""

	closer := "</" + name
	for i := s.pos; i+len(closer) <= len(s.src); i++ {
		if s.src[i] != '<' || !strings.EqualFold(string(s.src[i:i+len(closer)]), closer) {
			continue
		}
		after := i + len(closer)
		if after < len(s.src) && isNameChar(s.src[after]) {
			continue
		}
		if i == start {
			return s.scanContent()
		}
		s.pos = i
		return s.token(syntax.TokText, start, nil)
	}

	s.pos = len(s.src)
	return s.token(syntax.TokText, start, nil)
}

// IsRawText reports whether an element's content is scanned without markup.
func IsRawText(name string) bool {
	return syntax.IsRawTextElement(name)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || (c == '\r')
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == ':' || c == '_' || c == '.'
}

func isAttrNameChar(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '/', '>', '<', '=', '"', '\'':
		return false
	}
	return true
}
