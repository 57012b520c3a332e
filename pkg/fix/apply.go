package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidEdit is the sentinel wrapped by ValidationError.
var ErrInvalidEdit = errors.New("invalid edit")

// ValidationError reports an edit whose range does not fit the content.
type ValidationError struct {
	Edit   TextEdit
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit %s: %s", e.Edit, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidEdit }

// ConflictError reports two edits that overlap.
type ConflictError struct {
	First, Second TextEdit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("edits %s and %s overlap", e.First, e.Second)
}

// ValidateEdits checks every edit range against a content of size n.
func ValidateEdits(edits []TextEdit, n int) error {
	for _, e := range edits {
		var reason string
		switch {
		case e.StartOffset < 0:
			reason = "negative start"
		case e.EndOffset < e.StartOffset:
			reason = "end before start"
		case e.EndOffset > n:
			reason = fmt.Sprintf("end beyond content length %d", n)
		default:
			continue
		}
		return &ValidationError{Edit: e, Reason: reason}
	}
	return nil
}

// SortEdits orders edits by start then end offset, so an insertion comes
// before a replacement that starts at the same byte. The sort is stable.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})
}

// PrepareEdits validates a set of edits that must all apply and returns a
// sorted copy. Any overlap is a *ConflictError.
func PrepareEdits(edits []TextEdit, n int) ([]TextEdit, error) {
	if err := ValidateEdits(edits, n); err != nil {
		return nil, err
	}
	sorted := slices.Clone(edits)
	SortEdits(sorted)
	for i := 1; i < len(sorted); i++ {
		if overlaps(sorted[i-1], sorted[i]) {
			return nil, &ConflictError{First: sorted[i-1], Second: sorted[i]}
		}
	}
	return sorted, nil
}

// ApplyEdits writes content with edits spliced in. Edits must be sorted and
// non-overlapping, as returned by PrepareEdits or PrepareGroups. Offsets
// refer to the original content; the output is built in a single pass.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += e.Delta()
	}

	out := make([]byte, 0, max(size, 0))
	pos := 0
	for _, e := range edits {
		out = append(out, content[pos:e.StartOffset]...)
		out = append(out, e.NewText...)
		pos = e.EndOffset
	}
	return append(out, content[pos:]...)
}
