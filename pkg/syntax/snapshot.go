// Package syntax provides the lossless source model shared by the HTML and
// SCSS parsers:
// - FileSnapshot: the complete file representation
// - Token stream: every byte classified
// - Nodes: structural tree referencing token spans
package syntax

// FileSnapshot is an immutable, lossless view of a source file at a specific time.
// It holds the raw content, line metadata, token stream, tree root and
// the syntax errors found while scanning and parsing.
type FileSnapshot struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Dialect is the markup dialect the file was parsed as.
	Dialect Dialect

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Tokens is the full token stream covering every byte.
	Tokens []Token

	// Root is the tree root (NodeDocument or NodeStylesheet).
	Root *Node

	// SyntaxErrors lists one entry per recovery performed by the scanner or parser.
	SyntaxErrors []SyntaxError
}

// LineInfo holds metadata for a single line in a file.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of file).
	EndOffset int
}

// NewFileSnapshot creates a new FileSnapshot from content.
// It builds the line index but does not tokenize or parse.
func NewFileSnapshot(path string, dialect Dialect, content []byte) *FileSnapshot {
	return &FileSnapshot{
		Path:    path,
		Dialect: dialect,
		Content: content,
		Lines:   BuildLines(content),
	}
}
