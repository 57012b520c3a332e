package analysis

import "time"

// Report holds the views of a run shared by the json, sarif and summary
// outputs. It is computed once by Analyze.
type Report struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`

	// Diagnostics is one record per diagnostic, in file order.
	Diagnostics []DiagnosticEntry `json:"diagnostics"`

	// Files lists every discovered file with its outcome.
	Files []FileEntry `json:"files,omitempty"`

	ByFile    []FileAnalysis    `json:"byFile,omitempty"`
	ByRule    []RuleAnalysis    `json:"byRule,omitempty"`
	ByDialect []DialectAnalysis `json:"byDialect,omitempty"`

	Totals Totals `json:"summary"`
}

// DiagnosticEntry is the structured record of one diagnostic.
type DiagnosticEntry struct {
	File       string     `json:"file"`
	Line       int        `json:"line"`
	Column     int        `json:"column"`
	EndLine    int        `json:"endLine"`
	EndColumn  int        `json:"endColumn"`
	Severity   string     `json:"severity"`
	RuleID     string     `json:"ruleId"`
	RuleName   string     `json:"ruleName"`
	Message    string     `json:"message"`
	Fixable    bool       `json:"fixable"`
	Suggestion string     `json:"suggestion,omitempty"`
	Fixes      []FixEntry `json:"fixes,omitempty"`
}

// FixEntry is a byte-offset replacement proposed by a fix.
type FixEntry struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// File outcome states reported in FileEntry.Status.
const (
	StatusOK          = "ok"
	StatusFixed       = "fixed"
	StatusCached      = "cached"
	StatusError       = "error"
	StatusCancelled   = "cancelled"
	StatusUnsupported = "unsupported"
)

// FileEntry records what happened to one file.
type FileEntry struct {
	Path    string `json:"path"`
	Dialect string `json:"dialect"`
	Status  string `json:"status"`
	Issues  int    `json:"issues"`
	Fixed   int    `json:"fixed,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Totals contains aggregate statistics.
type Totals struct {
	Files            int `json:"filesChecked"`
	FilesWithIssues  int `json:"filesWithIssues"`
	FilesErrored     int `json:"filesErrored"`
	FilesCancelled   int `json:"filesCancelled"`
	FilesUnsupported int `json:"filesUnsupported"`
	FilesModified    int `json:"filesModified"`
	Issues           int `json:"totalIssues"`
	Errors           int `json:"errors"`
	Warnings         int `json:"warnings"`
	Infos            int `json:"infos"`
	Fixable          int `json:"fixable"`
	Fixed            int `json:"fixed"`
}

// HasIssues reports whether any diagnostics were found.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors reports whether any error-severity diagnostics were found.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis aggregates the diagnostics of one file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Dialect  string   `json:"dialect"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis aggregates the diagnostics of one rule.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}

// DialectAnalysis aggregates files and diagnostics per dialect.
type DialectAnalysis struct {
	Dialect string `json:"dialect"`
	Files   int    `json:"files"`
	Issues  int    `json:"issues"`
}
