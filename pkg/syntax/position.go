package syntax

// SourceRange represents a byte range in the source content.
type SourceRange struct {
	// StartOffset is the byte index where the range begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the range ends (exclusive).
	EndOffset int
}

// Len returns the length of the range in bytes.
func (r SourceRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// IsEmpty returns true if the range has zero length.
func (r SourceRange) IsEmpty() bool {
	return r.StartOffset == r.EndOffset
}

// Contains returns true if the given offset is within this range.
func (r SourceRange) Contains(offset int) bool {
	return offset >= r.StartOffset && offset < r.EndOffset
}

// Position is a 1-based line and rune column in a file.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Before reports whether p sorts before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// IsValid returns true if both start and end positions are valid.
func (sp SourcePosition) IsValid() bool {
	return sp.StartLine > 0 && sp.StartColumn > 0 &&
		sp.EndLine > 0 && sp.EndColumn > 0
}

// IsSingleLine returns true if start and end are on the same line.
func (sp SourcePosition) IsSingleLine() bool {
	return sp.StartLine == sp.EndLine
}

// RangePosition converts a byte range into line/column positions.
func (f *FileSnapshot) RangePosition(r SourceRange) SourcePosition {
	startLine, startCol := f.LineAt(r.StartOffset)
	endLine, endCol := f.LineAt(r.EndOffset)

	return SourcePosition{
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}

// SourceRange returns the byte range for this node.
// Returns an empty range if the node has no associated file or tokens.
func (n *Node) SourceRange() SourceRange {
	if n.File == nil || n.FirstToken < 0 || n.LastToken < 0 {
		return SourceRange{}
	}

	tokens := n.File.Tokens
	if n.FirstToken >= len(tokens) || n.LastToken >= len(tokens) {
		return SourceRange{}
	}

	return SourceRange{
		StartOffset: tokens[n.FirstToken].StartOffset,
		EndOffset:   tokens[n.LastToken].EndOffset,
	}
}

// SourcePosition returns the line/column range for this node.
// Returns an invalid position if the node has no associated file or tokens.
func (n *Node) SourcePosition() SourcePosition {
	if n.File == nil || n.FirstToken < 0 {
		return SourcePosition{}
	}

	return n.File.RangePosition(n.SourceRange())
}

// Text returns the source text for this node.
// Returns nil if the node has no associated file.
func (n *Node) Text() []byte {
	if n.File == nil {
		return nil
	}

	r := n.SourceRange()
	if r.StartOffset < 0 || r.EndOffset > len(n.File.Content) {
		return nil
	}

	return n.File.Content[r.StartOffset:r.EndOffset]
}
