// Package analysis aggregates a run result into per-file, per-rule and
// per-dialect views for structured and summary output.
package analysis

import "github.com/yaklabco/gostyle/pkg/config"

// SortField orders the ByFile and ByRule views.
type SortField string

// Alpha sorts by path or rule ID and ignores SortDesc. Severity puts the
// entries with errors first.
const (
	SortByCount    SortField = "count"
	SortByAlpha    SortField = "alpha"
	SortBySeverity SortField = "severity"
)

// Options selects which views Analyze fills in and how they are sorted.
type Options struct {
	IncludeDiagnostics bool
	IncludeFiles       bool
	IncludeByFile      bool
	IncludeByRule      bool
	IncludeByDialect   bool

	SortBy   SortField
	SortDesc bool

	RuleFormat config.RuleFormat

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

// DefaultOptions fills every view, busiest entries first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeFiles:       true,
		IncludeByFile:      true,
		IncludeByRule:      true,
		IncludeByDialect:   true,
		SortBy:             SortByCount,
		SortDesc:           true,
		RuleFormat:         config.RuleFormatName,
	}
}
