package syntax

import (
	"sort"
	"unicode/utf8"
)

// BuildLines constructs line metadata from file content.
// It handles both LF (\n) and CRLF (\r\n) line endings.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	var lines []LineInfo
	lineStart := 0

	for idx, char := range content {
		if char != '\n' {
			continue
		}

		newlineStart := idx
		if idx > 0 && content[idx-1] == '\r' {
			newlineStart = idx - 1
		}

		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	// Last line, possibly empty after a trailing newline.
	lines = append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(content),
		EndOffset:    len(content),
	})

	return lines
}

// LineCount returns the number of lines in the file.
func (f *FileSnapshot) LineCount() int {
	return len(f.Lines)
}

// LineAt converts a byte offset to a 1-based line and rune column.
// Returns (0, 0) if the offset is out of range.
func (f *FileSnapshot) LineAt(offset int) (int, int) {
	if offset < 0 || len(f.Lines) == 0 {
		return 0, 0
	}

	if offset >= len(f.Content) {
		lastLine := f.Lines[len(f.Lines)-1]
		tail := f.Content[lastLine.StartOffset:]
		return len(f.Lines), utf8.RuneCount(tail) + offset - len(f.Content) + 1
	}

	lineIdx := sort.Search(len(f.Lines), func(i int) bool {
		return f.Lines[i].EndOffset > offset
	})

	if lineIdx >= len(f.Lines) {
		lineIdx = len(f.Lines) - 1
	}

	lineInfo := f.Lines[lineIdx]
	if offset < lineInfo.StartOffset {
		return 0, 0
	}

	return lineIdx + 1, utf8.RuneCount(f.Content[lineInfo.StartOffset:offset]) + 1
}

// Offset converts a 1-based line and rune column to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (f *FileSnapshot) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(f.Lines) || col < 1 {
		return 0, false
	}

	lineInfo := f.Lines[line-1]
	offset := lineInfo.StartOffset

	for range col - 1 {
		if offset >= lineInfo.EndOffset {
			return 0, false
		}
		_, size := utf8.DecodeRune(f.Content[offset:lineInfo.EndOffset])
		offset += size
	}

	return offset, true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns nil if the line number is out of range.
func (f *FileSnapshot) LineContent(line int) []byte {
	if line < 1 || line > len(f.Lines) {
		return nil
	}

	lineInfo := f.Lines[line-1]
	return f.Content[lineInfo.StartOffset:lineInfo.NewlineStart]
}

// IndentEnd returns the offset of the first non-blank byte of a 1-based line,
// or -1 if the line is blank.
func (f *FileSnapshot) IndentEnd(line int) int {
	if line < 1 || line > len(f.Lines) {
		return -1
	}

	lineInfo := f.Lines[line-1]
	for i := lineInfo.StartOffset; i < lineInfo.NewlineStart; i++ {
		if c := f.Content[i]; c != ' ' && c != '\t' {
			return i
		}
	}

	return -1
}
