package lint

import (
	"cmp"
	"slices"
)

// SortDiagnostics orders diagnostics by position (line, then column), then
// severity with errors first, then rule registration order, then rule ID
// and message. order maps a rule ID to its registration index; it may be nil.
func SortDiagnostics(diags []Diagnostic, order func(ruleID string) int) {
	rank := func(id string) int {
		if order == nil {
			return 0
		}
		return order(id)
	}

	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.StartLine, b.StartLine),
			cmp.Compare(a.StartColumn, b.StartColumn),
			cmp.Compare(b.Severity.Rank(), a.Severity.Rank()),
			cmp.Compare(rank(a.RuleID), rank(b.RuleID)),
			cmp.Compare(a.RuleID, b.RuleID),
			cmp.Compare(a.Message, b.Message),
			cmp.Compare(a.EndLine, b.EndLine),
			cmp.Compare(a.EndColumn, b.EndColumn),
		)
	})
}

// DedupDiagnostics removes exact duplicates (same rule, position and
// message) from a sorted slice, keeping the first occurrence.
func DedupDiagnostics(diags []Diagnostic) []Diagnostic {
	return slices.CompactFunc(diags, func(a, b Diagnostic) bool {
		return a.RuleID == b.RuleID &&
			a.SourcePosition() == b.SourcePosition() &&
			a.Message == b.Message
	})
}
