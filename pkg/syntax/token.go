package syntax

// TokenKind classifies the type of a token in HTML or SCSS source.
type TokenKind uint16

// Token kinds cover every byte in the source. Kinds up to TokComment are
// shared by both dialects.
const (
	TokText TokenKind = iota
	TokWhitespace
	TokNewline
	TokComment // <!-- -->, /* */ or //

	// HTML.
	TokDoctype   // <!DOCTYPE ...>
	TokTagOpen   // '<name'
	TokTagEnd    // '>' or '/>'
	TokTagClose  // '</name>'
	TokAttribute // name, name=value, name="value"

	// SCSS.
	TokSelector    // selector list or at-rule prelude before '{'
	TokDeclaration // property or variable declaration, without ';'
	TokAtRule      // '@keyword prelude' statement or block opener
	TokBraceOpen   // '{'
	TokBraceClose  // '}'
	TokSemicolon   // ';'

	// TokOther holds bytes skipped during error recovery.
	TokOther
)

var tokenKindNames = [...]string{
	TokText:        "Text",
	TokWhitespace:  "Whitespace",
	TokNewline:     "Newline",
	TokComment:     "Comment",
	TokDoctype:     "Doctype",
	TokTagOpen:     "TagOpen",
	TokTagEnd:      "TagEnd",
	TokTagClose:    "TagClose",
	TokAttribute:   "Attribute",
	TokSelector:    "Selector",
	TokDeclaration: "Declaration",
	TokAtRule:      "AtRule",
	TokBraceOpen:   "BraceOpen",
	TokBraceClose:  "BraceClose",
	TokSemicolon:   "Semicolon",
	TokOther:       "Other",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "TokenKind(?)"
}

// IsTrivia reports whether the token carries no structure (whitespace, newlines).
func (k TokenKind) IsTrivia() bool {
	return k == TokWhitespace || k == TokNewline
}

// Token represents a classified span of bytes in the source.
// Tokens are contiguous and non-overlapping, covering [0, len(Content)).
type Token struct {
	// Kind classifies what this token represents.
	Kind TokenKind

	// StartOffset is the byte index where this token begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where this token ends (exclusive).
	EndOffset int

	// Meta holds scanner-specific metadata (*AttrMeta, *DeclMeta, tag name).
	// Must be treated as opaque by generic logic.
	Meta any
}

// Text returns the source text of this token from the given content.
func (t Token) Text(content []byte) []byte {
	if t.StartOffset < 0 || t.EndOffset > len(content) || t.StartOffset > t.EndOffset {
		return nil
	}
	return content[t.StartOffset:t.EndOffset]
}

// Len returns the length of this token in bytes.
func (t Token) Len() int {
	return t.EndOffset - t.StartOffset
}

// IsEmpty returns true if this token has zero length.
func (t Token) IsEmpty() bool {
	return t.StartOffset == t.EndOffset
}

// Range returns the byte range of the token.
func (t Token) Range() SourceRange {
	return SourceRange{StartOffset: t.StartOffset, EndOffset: t.EndOffset}
}

// ValidateTokens checks that a token slice is valid:
// - Tokens are contiguous and non-overlapping.
// - Tokens cover the full content range [0, contentLen).
// - No token is empty.
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].StartOffset != 0 {
		return false
	}

	if tokens[len(tokens)-1].EndOffset != contentLen {
		return false
	}

	for i := range tokens {
		if tokens[i].IsEmpty() {
			return false
		}
		if i > 0 && tokens[i].StartOffset != tokens[i-1].EndOffset {
			return false
		}
	}

	return true
}

// TokenAt returns the index of the token containing offset, or -1.
func (f *FileSnapshot) TokenAt(offset int) int {
	lo, hi := 0, len(f.Tokens)
	for lo < hi {
		mid := (lo + hi) / 2
		tok := f.Tokens[mid]
		switch {
		case offset < tok.StartOffset:
			hi = mid
		case offset >= tok.EndOffset:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}
