package fix

import (
	"cmp"
	"slices"
)

// EditGroup is a set of edits that must be applied together, such as the
// edits proposed by a single diagnostic.
type EditGroup struct {
	// Owner identifies who proposed the group (usually a rule ID).
	Owner string

	// Edits are applied all together or not at all.
	Edits []TextEdit
}

// start returns the smallest start offset in the group.
func (g EditGroup) start() int {
	first := g.Edits[0].StartOffset
	for _, e := range g.Edits[1:] {
		first = min(first, e.StartOffset)
	}
	return first
}

// PrepareGroups validates edit groups and selects a conflict-free subset.
//
// Groups are considered in order of their first edit; a group is accepted
// only if none of its edits overlap an edit already accepted, so a group is
// never applied partially. Returns the accepted edits sorted for ApplyEdits,
// the accepted groups and the skipped groups. Invalid groups (bad ranges or
// self-overlapping) are skipped.
func PrepareGroups(groups []EditGroup, contentLen int) ([]TextEdit, []EditGroup, []EditGroup) {
	candidates := make([]EditGroup, 0, len(groups))
	for _, g := range groups {
		if len(g.Edits) > 0 {
			candidates = append(candidates, g)
		}
	}

	slices.SortStableFunc(candidates, func(a, b EditGroup) int {
		return cmp.Compare(a.start(), b.start())
	})

	var (
		accepted       []TextEdit
		acceptedGroups []EditGroup
		skippedGroups  []EditGroup
	)

	for _, g := range candidates {
		if ValidateEdits(g.Edits, contentLen) != nil || selfOverlaps(g.Edits) || conflictsWith(g.Edits, accepted) {
			skippedGroups = append(skippedGroups, g)
			continue
		}
		accepted = append(accepted, g.Edits...)
		acceptedGroups = append(acceptedGroups, g)
	}

	SortEdits(accepted)
	return accepted, acceptedGroups, skippedGroups
}

func selfOverlaps(edits []TextEdit) bool {
	for i := range edits {
		for j := i + 1; j < len(edits); j++ {
			if overlaps(edits[i], edits[j]) {
				return true
			}
		}
	}
	return false
}

func conflictsWith(edits, accepted []TextEdit) bool {
	for _, e := range edits {
		for _, a := range accepted {
			if overlaps(e, a) {
				return true
			}
		}
	}
	return false
}
