package lint

import (
	"bytes"
	"strings"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// Line-based helpers.

// LineContent returns the content of the specified 1-based line number.
// Returns nil if the line number is out of range.
func LineContent(file *syntax.FileSnapshot, lineNum int) []byte {
	if file == nil {
		return nil
	}
	return file.LineContent(lineNum)
}

// LineLength returns the length of the specified 1-based line (excluding newline).
// Returns 0 if the line number is out of range.
func LineLength(file *syntax.FileSnapshot, lineNum int) int {
	if file == nil || lineNum < 1 || lineNum > len(file.Lines) {
		return 0
	}
	line := file.Lines[lineNum-1]
	return line.NewlineStart - line.StartOffset
}

// HasTrailingWhitespace returns true if the line has trailing whitespace.
func HasTrailingWhitespace(file *syntax.FileSnapshot, lineNum int) bool {
	start, _ := TrailingWhitespaceRange(file, lineNum)
	return start >= 0
}

// TrailingWhitespaceRange returns the range of trailing whitespace on a line.
// Returns (-1, -1) if no trailing whitespace or line is out of range.
func TrailingWhitespaceRange(file *syntax.FileSnapshot, lineNum int) (int, int) {
	if file == nil || lineNum < 1 || lineNum > len(file.Lines) {
		return -1, -1
	}
	line := file.Lines[lineNum-1]
	content := file.Content[line.StartOffset:line.NewlineStart]
	if len(content) == 0 {
		return -1, -1
	}

	endOffset := line.NewlineStart
	startOffset := endOffset
	for idx := len(content) - 1; idx >= 0; idx-- {
		if !isLineBlank(content[idx]) {
			break
		}
		startOffset = line.StartOffset + idx
	}

	if startOffset == endOffset {
		return -1, -1
	}
	return startOffset, endOffset
}

// IsBlankLine returns true if the line contains only whitespace.
func IsBlankLine(file *syntax.FileSnapshot, lineNum int) bool {
	content := LineContent(file, lineNum)
	return len(bytes.TrimSpace(content)) == 0
}

// LeadingWhitespace returns the indentation bytes of a non-blank line and
// the offset where content begins. ok is false for blank or out-of-range lines.
func LeadingWhitespace(file *syntax.FileSnapshot, lineNum int) (indent []byte, contentStart int, ok bool) {
	if file == nil {
		return nil, -1, false
	}
	end := file.IndentEnd(lineNum)
	if end < 0 {
		return nil, -1, false
	}
	start := file.Lines[lineNum-1].StartOffset
	return file.Content[start:end], end, true
}

func isLineBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\v'
}

// HTML helpers.

// IsPreformatted reports whether whitespace inside node is significant.
func IsPreformatted(n *syntax.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == syntax.NodeElement && n.TagName() == "pre" {
		return true
	}
	return n.HasAncestor("pre", "textarea", "script", "style")
}

// ClassToken is one whitespace-separated name inside a class list.
type ClassToken struct {
	Name string

	// StartOffset and EndOffset are absolute offsets in the file.
	StartOffset int
	EndOffset   int
}

// ClassTokens splits a class attribute value into names.
// base is the file offset of value[0].
func ClassTokens(value string, base int) []ClassToken {
	var tokens []ClassToken
	start := -1
	for i := 0; i <= len(value); i++ {
		if i < len(value) && !isClassSpace(value[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, ClassToken{
				Name:        value[start:i],
				StartOffset: base + start,
				EndOffset:   base + i,
			})
			start = -1
		}
	}
	return tokens
}

func isClassSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// AttrValueStart returns the file offset of the first value byte of attr,
// past any opening quote.
func AttrValueStart(attr *syntax.AttrMeta) int {
	if attr.Quote != 0 {
		return attr.ValueStart + 1
	}
	return attr.ValueStart
}

// SCSS helpers.

// SelectorName is a class or id name found in a selector.
type SelectorName struct {
	// Sigil is '.' for classes and '#' for ids.
	Sigil byte
	Name  string

	// StartOffset points at the sigil; EndOffset is past the name.
	StartOffset int
	EndOffset   int
}

// SelectorNames scans a raw selector for class and id names.
// Interpolations, strings, attribute selectors and pseudo-class arguments
// are skipped, as are names containing interpolation. base is the file
// offset of selector[0].
func SelectorNames(selector string, base int) []SelectorName {
	var names []SelectorName
	for i := 0; i < len(selector); {
		c := selector[i]
		switch {
		case c == '#' && i+1 < len(selector) && selector[i+1] == '{':
			i = skipBalanced(selector, i+1, '{', '}')
		case c == '"' || c == '\'':
			i = skipString(selector, i)
		case c == '[':
			i = skipBalanced(selector, i, '[', ']')
		case c == '(':
			i = skipBalanced(selector, i, '(', ')')
		case c == '.' || c == '#':
			j := i + 1
			for j < len(selector) && isIdentChar(selector[j]) {
				j++
			}
			interpolated := j+1 < len(selector) && selector[j] == '#' && selector[j+1] == '{'
			if j > i+1 && !interpolated && !isDigitStart(selector[i+1:j]) {
				names = append(names, SelectorName{
					Sigil:       c,
					Name:        selector[i+1 : j],
					StartOffset: base + i,
					EndOffset:   base + j,
				})
			}
			i = max(j, i+1)
		default:
			i++
		}
	}
	return names
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c >= 0x80
}

// isDigitStart filters numbers such as ".5em" from class names.
func isDigitStart(name string) bool {
	return name != "" && name[0] >= '0' && name[0] <= '9'
}

// skipBalanced returns the index just past the bracket matching s[i].
func skipBalanced(s string, i int, open, closer byte) int {
	depth := 0
	for ; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i + 1
			}
		case '"', '\'':
			i = skipString(s, i) - 1
		}
	}
	return len(s)
}

// skipString returns the index just past the string literal starting at s[i].
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(s)
}

// SelectorText returns the raw selector of a rule set and its file offset.
func SelectorText(n *syntax.Node) (string, int) {
	if n == nil || n.File == nil || n.FirstToken < 0 || n.FirstToken >= len(n.File.Tokens) {
		return "", -1
	}
	tok := n.File.Tokens[n.FirstToken]
	if tok.Kind != syntax.TokSelector {
		return "", -1
	}
	return strings.TrimRight(string(tok.Text(n.File.Content)), " \t\r\n"), tok.StartOffset
}
