package config

import (
	"fmt"
	"slices"
	"strings"
)

// RuleFormat selects how a rule is named in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // quote-style
	RuleFormatID       RuleFormat = "id"       // ST003
	RuleFormatCombined RuleFormat = "combined" // ST003/quote-style
)

// SummaryOrder selects which summary table comes first.
type SummaryOrder string

const (
	SummaryOrderRules SummaryOrder = "rules"
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid reports whether s is a known order.
func (s SummaryOrder) IsValid() bool {
	return s == SummaryOrderRules || s == SummaryOrderFiles
}

// ParseRuleFormat accepts name, id or combined, case-insensitively.
func ParseRuleFormat(s string) (RuleFormat, error) {
	return parseChoice("rule format", s, RuleFormatName, RuleFormatID, RuleFormatCombined)
}

// ParseSummaryOrder accepts rules or files, case-insensitively.
func ParseSummaryOrder(s string) (SummaryOrder, error) {
	return parseChoice("summary order", s, SummaryOrderRules, SummaryOrderFiles)
}

func parseChoice[T ~string](what, s string, choices ...T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(choices, v) {
		return v, nil
	}
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}
	return "", fmt.Errorf("unknown %s %q (want %s)", what, s, strings.Join(names, ", "))
}

// Label renders a rule reference. A rule without a name is always shown
// by id; an unset format means name.
func (f RuleFormat) Label(id, name string) string {
	switch {
	case name == "", f == RuleFormatID:
		return id
	case f == RuleFormatCombined:
		return id + "/" + name
	default:
		return name
	}
}

// FormatRuleID is RuleFormat.Label as a function.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	return format.Label(ruleID, ruleName)
}
