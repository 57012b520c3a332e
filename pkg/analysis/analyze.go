package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/runner"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// ReportVersion is the structured report format version.
const ReportVersion = "1.0.0"

// RelativePath returns path relative to workDir, or path unchanged when
// workDir is empty or the path cannot be made relative.
func RelativePath(path, workDir string) string {
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// severityCounts is embedded in the aggregates through pointers.
type severityCounts struct {
	errors, warnings, infos *int
}

func (c severityCounts) add(sev config.Severity) {
	switch sev {
	case config.SeverityError:
		*c.errors++
	case config.SeverityWarning:
		*c.warnings++
	case config.SeverityInfo:
		*c.infos++
	}
}

// aggregator holds the state of a single Analyze pass.
type aggregator struct {
	opts      Options
	byFile    map[string]*FileAnalysis
	byRule    map[string]*RuleAnalysis
	byDialect map[string]*DialectAnalysis
	ruleFiles map[string]map[string]struct{}
	fileRules map[string]map[string]struct{}
}

func newAggregator(opts Options) *aggregator {
	return &aggregator{
		opts:      opts,
		byFile:    make(map[string]*FileAnalysis),
		byRule:    make(map[string]*RuleAnalysis),
		byDialect: make(map[string]*DialectAnalysis),
		ruleFiles: make(map[string]map[string]struct{}),
		fileRules: make(map[string]map[string]struct{}),
	}
}

// Analyze computes a Report from result in one pass over its diagnostics.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:     ReportVersion,
		Timestamp:   time.Now().UTC(),
		Diagnostics: []DiagnosticEntry{},
	}
	if result == nil {
		return report
	}

	agg := newAggregator(opts)

	for _, file := range result.Files {
		path := RelativePath(file.Path, opts.WorkingDir)
		dialect := fileDialect(file).String()
		entry := FileEntry{Path: path, Dialect: dialect, Status: StatusOK}

		switch {
		case file.Error != nil:
			entry.Status = StatusError
			entry.Error = file.Error.Error()
			report.Totals.FilesErrored++
		case file.Cancelled:
			entry.Status = StatusCancelled
			report.Totals.FilesCancelled++
		case file.Unsupported:
			entry.Status = StatusUnsupported
			report.Totals.FilesUnsupported++
		case file.Result == nil || file.Result.FileResult == nil:
		default:
			report.Totals.Files++
			agg.dialect(dialect).Files++
			agg.file(file, path, dialect, report, &entry)
		}

		if opts.IncludeFiles {
			report.Files = append(report.Files, entry)
		}
	}

	if opts.IncludeByRule {
		report.ByRule = agg.rules()
	}
	if opts.IncludeByFile {
		report.ByFile = agg.files()
	}
	if opts.IncludeByDialect {
		report.ByDialect = agg.dialects()
	}

	return report
}

// file folds one linted file into the aggregates.
func (a *aggregator) file(file runner.FileOutcome, path, dialect string, report *Report, entry *FileEntry) {
	pr := file.Result

	if file.Cached {
		entry.Status = StatusCached
	}
	if pr.Written {
		entry.Status = StatusFixed
		entry.Fixed = pr.TotalEditsApplied
		report.Totals.FilesModified++
	}
	report.Totals.Fixed += pr.TotalEditsApplied

	entry.Issues = len(pr.Diagnostics)
	if entry.Issues == 0 {
		return
	}
	report.Totals.FilesWithIssues++

	fa := a.byFile[path]
	if fa == nil {
		fa = &FileAnalysis{Path: path, Dialect: dialect}
		a.byFile[path] = fa
		a.fileRules[path] = make(map[string]struct{})
	}
	da := a.dialect(dialect)

	for i := range pr.Diagnostics {
		diag := &pr.Diagnostics[i]
		sev := diag.Severity
		if sev == "" {
			sev = config.SeverityWarning
		}

		report.Totals.Issues++
		fa.Issues++
		da.Issues++
		severityCounts{&report.Totals.Errors, &report.Totals.Warnings, &report.Totals.Infos}.add(sev)
		severityCounts{&fa.Errors, &fa.Warnings, &fa.Infos}.add(sev)

		ra := a.rule(diag)
		ra.Issues++
		severityCounts{&ra.Errors, &ra.Warnings, &ra.Infos}.add(sev)

		if diag.HasFix() {
			report.Totals.Fixable++
			ra.Fixable = true
		}

		a.fileRules[path][diag.RuleID] = struct{}{}
		a.ruleFiles[diag.RuleID][path] = struct{}{}

		if a.opts.IncludeDiagnostics {
			report.Diagnostics = append(report.Diagnostics, newDiagnosticEntry(path, sev, diag))
		}
	}
}

func (a *aggregator) rule(diag *lint.Diagnostic) *RuleAnalysis {
	ra := a.byRule[diag.RuleID]
	if ra == nil {
		ra = &RuleAnalysis{RuleID: diag.RuleID, RuleName: diag.RuleName}
		a.byRule[diag.RuleID] = ra
		a.ruleFiles[diag.RuleID] = make(map[string]struct{})
	}
	return ra
}

func (a *aggregator) dialect(name string) *DialectAnalysis {
	da := a.byDialect[name]
	if da == nil {
		da = &DialectAnalysis{Dialect: name}
		a.byDialect[name] = da
	}
	return da
}

func (a *aggregator) rules() []RuleAnalysis {
	out := make([]RuleAnalysis, 0, len(a.byRule))
	for id, ra := range a.byRule {
		ra.Files = slices.Sorted(maps.Keys(a.ruleFiles[id]))
		out = append(out, *ra)
	}
	sortRuleAnalysis(out, a.opts.SortBy, a.opts.SortDesc)
	return out
}

func (a *aggregator) files() []FileAnalysis {
	out := make([]FileAnalysis, 0, len(a.byFile))
	for path, fa := range a.byFile {
		fa.Rules = slices.Sorted(maps.Keys(a.fileRules[path]))
		out = append(out, *fa)
	}
	sortFileAnalysis(out, a.opts.SortBy, a.opts.SortDesc)
	return out
}

func (a *aggregator) dialects() []DialectAnalysis {
	out := make([]DialectAnalysis, 0, len(a.byDialect))
	for _, name := range slices.Sorted(maps.Keys(a.byDialect)) {
		out = append(out, *a.byDialect[name])
	}
	return out
}

// fileDialect prefers the parsed snapshot and falls back to the extension,
// which is all a cached result has.
func fileDialect(file runner.FileOutcome) syntax.Dialect {
	if file.Result != nil && file.Result.FileResult != nil && file.Result.Snapshot != nil {
		return file.Result.Snapshot.Dialect
	}
	return syntax.DialectFromPath(file.Path)
}

func newDiagnosticEntry(path string, sev config.Severity, diag *lint.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		File:       path,
		Line:       diag.StartLine,
		Column:     diag.StartColumn,
		EndLine:    diag.EndLine,
		EndColumn:  diag.EndColumn,
		Severity:   string(sev),
		RuleID:     diag.RuleID,
		RuleName:   diag.RuleName,
		Message:    diag.Message,
		Fixable:    diag.HasFix(),
		Suggestion: diag.Suggestion,
	}
	for _, edit := range diag.FixEdits {
		entry.Fixes = append(entry.Fixes, FixEntry{
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			NewText:     edit.NewText,
		})
	}
	return entry
}

// bySeverity orders errors first, then warnings, then total issues.
func bySeverity(lErr, rErr, lWarn, rWarn, lIssues, rIssues int) int {
	return cmp.Or(
		cmp.Compare(rErr, lErr),
		cmp.Compare(rWarn, lWarn),
		cmp.Compare(rIssues, lIssues),
	)
}

func byCount(left, right int, desc bool) int {
	if desc {
		return cmp.Compare(right, left)
	}
	return cmp.Compare(left, right)
}

// The final key in each comparison keeps the order stable across runs,
// since the aggregates come out of maps.

func sortRuleAnalysis(rules []RuleAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(rules, func(left, right RuleAnalysis) int {
		var order int
		switch sortBy {
		case SortByAlpha:
		case SortBySeverity:
			order = bySeverity(left.Errors, right.Errors, left.Warnings, right.Warnings, left.Issues, right.Issues)
		default:
			order = byCount(left.Issues, right.Issues, desc)
		}
		return cmp.Or(order, cmp.Compare(left.RuleID, right.RuleID))
	})
}

func sortFileAnalysis(files []FileAnalysis, sortBy SortField, desc bool) {
	slices.SortFunc(files, func(left, right FileAnalysis) int {
		var order int
		switch sortBy {
		case SortByAlpha:
		case SortBySeverity:
			order = bySeverity(left.Errors, right.Errors, left.Warnings, right.Warnings, left.Issues, right.Issues)
		default:
			order = byCount(left.Issues, right.Issues, desc)
		}
		return cmp.Or(order, cmp.Compare(left.Path, right.Path))
	})
}
