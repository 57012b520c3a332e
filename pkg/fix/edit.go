// Package fix applies the text edits proposed by rules and renders the
// outcome as a unified diff.
package fix

import "fmt"

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
// An empty range is an insertion; an empty NewText is a deletion.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// IsInsertion reports whether the edit removes nothing.
func (e TextEdit) IsInsertion() bool { return e.StartOffset == e.EndOffset }

// Delta is the change in content length caused by the edit.
func (e TextEdit) Delta() int { return len(e.NewText) - (e.EndOffset - e.StartOffset) }

func (e TextEdit) String() string {
	return fmt.Sprintf("[%d,%d)=%q", e.StartOffset, e.EndOffset, e.NewText)
}

// overlaps reports whether a and b cannot both be applied. Insertions at the
// same offset conflict because their relative order is undefined; an
// insertion at either boundary of a replacement does not.
func overlaps(a, b TextEdit) bool {
	switch {
	case a.IsInsertion() && b.IsInsertion():
		return a.StartOffset == b.StartOffset
	case a.IsInsertion():
		return b.StartOffset < a.StartOffset && a.StartOffset < b.EndOffset
	case b.IsInsertion():
		return a.StartOffset < b.StartOffset && b.StartOffset < a.EndOffset
	default:
		return a.StartOffset < b.EndOffset && b.StartOffset < a.EndOffset
	}
}

// EditBuilder collects the edits of one fix.
type EditBuilder struct {
	Edits []TextEdit
}

func NewEditBuilder() *EditBuilder {
	return &EditBuilder{}
}

// ReplaceRange replaces [start, end) with text.
func (b *EditBuilder) ReplaceRange(start, end int, text string) {
	b.Edits = append(b.Edits, TextEdit{StartOffset: start, EndOffset: end, NewText: text})
}

// Insert inserts text before the byte at offset.
func (b *EditBuilder) Insert(offset int, text string) { b.ReplaceRange(offset, offset, text) }

// Delete removes [start, end).
func (b *EditBuilder) Delete(start, end int) { b.ReplaceRange(start, end, "") }

func (b *EditBuilder) Len() int { return len(b.Edits) }
