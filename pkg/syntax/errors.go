package syntax

import "fmt"

// SyntaxError describes malformed input the scanner or parser recovered from.
// It never aborts processing; the lint engine reports it as a diagnostic.
type SyntaxError struct {
	// StartOffset and EndOffset delimit the offending bytes.
	StartOffset int
	EndOffset   int

	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.StartOffset, e.Message)
}

// Range returns the byte range of the error.
func (e SyntaxError) Range() SourceRange {
	return SourceRange{StartOffset: e.StartOffset, EndOffset: e.EndOffset}
}
