package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/runner"
)

const (
	columnGap       = "  "
	minMessageWidth = 24
	minFileWidth    = 16
	fixMark         = "✓"
	ellipsis        = "…"
)

// TableRow is one diagnostic flattened for tabular output.
type TableRow struct {
	File     string
	Line     int
	Column   int
	Severity config.Severity
	Rule     string
	Message  string
	Fixable  bool
}

// TableFormatter lays diagnostics out in aligned columns sized to the
// terminal. Widths are measured in terminal cells, not bytes.
type TableFormatter struct {
	styles      *Styles
	termWidth   int
	ruleFormat  config.RuleFormat
	displayPath func(string) string
}

// NewTableFormatter creates a formatter that fits rows into termWidth cells.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	return &TableFormatter{
		styles:      styles,
		termWidth:   termWidth,
		ruleFormat:  config.RuleFormatID,
		displayPath: func(p string) string { return p },
	}
}

// WithRuleFormat sets how the RULE column names rules.
func (t *TableFormatter) WithRuleFormat(format config.RuleFormat) *TableFormatter {
	if format != "" {
		t.ruleFormat = format
	}
	return t
}

// WithPathFunc sets the function mapping file paths to displayed paths.
func (t *TableFormatter) WithPathFunc(fn func(string) string) *TableFormatter {
	if fn != nil {
		t.displayPath = fn
	}
	return t
}

// Row converts a diagnostic of the file at path into a table row.
func (t *TableFormatter) Row(path string, diag *lint.Diagnostic) TableRow {
	return TableRow{
		File:     t.displayPath(path),
		Line:     diag.StartLine,
		Column:   diag.StartColumn,
		Severity: diag.Severity,
		Rule:     config.FormatRuleID(t.ruleFormat, diag.RuleID, diag.RuleName),
		Message:  diag.Message,
		Fixable:  diag.HasFix(),
	}
}

// Rows flattens every diagnostic of result, in file order.
func (t *TableFormatter) Rows(result *runner.Result) []TableRow {
	var rows []TableRow
	if result == nil {
		return rows
	}
	for _, file := range result.Files {
		rows = append(rows, t.fileRows(file)...)
	}
	return rows
}

func (t *TableFormatter) fileRows(file runner.FileOutcome) []TableRow {
	if file.Result == nil || file.Result.FileResult == nil {
		return nil
	}
	rows := make([]TableRow, 0, len(file.Result.Diagnostics))
	for i := range file.Result.Diagnostics {
		rows = append(rows, t.Row(file.Path, &file.Result.Diagnostics[i]))
	}
	return rows
}

// FormatTable renders all diagnostics of result in one table with a FILE
// column. It returns "" when there is nothing to show.
func (t *TableFormatter) FormatTable(result *runner.Result) string {
	return t.render(t.Rows(result), true)
}

// FormatFileTable renders the diagnostics of one file without a FILE column.
func (t *TableFormatter) FormatFileTable(file runner.FileOutcome) string {
	return t.render(t.fileRows(file), false)
}

// column describes one table column.
type column struct {
	title  string
	width  int
	shrink int // minimum width when fitting, 0 for fixed columns
	cell   func(TableRow) string
}

func (t *TableFormatter) columns(withFile bool) []column {
	cols := make([]column, 0, 6)
	if withFile {
		cols = append(cols, column{title: "FILE", shrink: minFileWidth, cell: func(r TableRow) string { return r.File }})
	}
	return append(cols,
		column{title: "LINE:COL", cell: func(r TableRow) string {
			return strconv.Itoa(r.Line) + ":" + strconv.Itoa(r.Column)
		}},
		column{title: "SEVERITY", cell: func(r TableRow) string { return string(r.Severity) }},
		column{title: "RULE", cell: func(r TableRow) string { return r.Rule }},
		column{title: "MESSAGE", shrink: minMessageWidth, cell: func(r TableRow) string { return r.Message }},
		column{title: "FIX", cell: func(r TableRow) string {
			if r.Fixable {
				return fixMark
			}
			return ""
		}},
	)
}

// fit sizes cols to their content and then narrows the shrinkable ones,
// message first, until the table fits the terminal.
func (t *TableFormatter) fit(cols []column, rows []TableRow) int {
	total := runewidth.StringWidth(columnGap) * (len(cols) - 1)
	for i := range cols {
		cols[i].width = runewidth.StringWidth(cols[i].title)
		for _, row := range rows {
			cols[i].width = max(cols[i].width, runewidth.StringWidth(cols[i].cell(row)))
		}
		total += cols[i].width
	}

	if t.termWidth <= 0 {
		return total
	}
	for i := len(cols) - 1; i >= 0 && total > t.termWidth; i-- {
		if cols[i].shrink == 0 || cols[i].width <= cols[i].shrink {
			continue
		}
		narrowed := max(cols[i].shrink, cols[i].width-(total-t.termWidth))
		total -= cols[i].width - narrowed
		cols[i].width = narrowed
	}
	return total
}

func (t *TableFormatter) render(rows []TableRow, withFile bool) string {
	if len(rows) == 0 {
		return ""
	}

	cols := t.columns(withFile)
	total := t.fit(cols, rows)

	var builder strings.Builder

	titles := make([]string, len(cols))
	for i, col := range cols {
		titles[i] = runewidth.FillRight(col.title, col.width)
	}
	builder.WriteString(t.styles.TableHeader.Render(strings.TrimRight(strings.Join(titles, columnGap), " ")) + "\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat("─", total)) + "\n")

	anyFixable := false
	cells := make([]string, len(cols))
	for _, row := range rows {
		anyFixable = anyFixable || row.Fixable
		for i, col := range cols {
			text := runewidth.FillRight(runewidth.Truncate(col.cell(row), col.width, ellipsis), col.width)
			switch col.title {
			case "SEVERITY":
				text = t.styles.rowStyle(row.Severity).Render(text)
			case "FIX":
				text = t.styles.TableFixable.Render(text)
			}
			cells[i] = text
		}
		builder.WriteString(strings.TrimRight(strings.Join(cells, columnGap), " ") + "\n")
	}

	if anyFixable {
		builder.WriteString(t.styles.TableLegend.Render(fixMark+" = fixable with --fix") + "\n")
	}

	return builder.String()
}

// FormatTableSummary formats the one-line footer under a table, e.g.
// "12 issues: 8 errors, 4 warnings | 6 fixable | 3 of 10 files". A
// non-empty duration is appended.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	parts := []string{t.styles.Bold.Render(plural(stats.DiagnosticsTotal, "issue"))}
	if breakdown := t.styles.severityBreakdown(stats); len(breakdown) > 0 {
		parts[0] += ": " + strings.Join(breakdown, ", ")
	}

	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, t.styles.TableFixable.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}
	parts = append(parts, fmt.Sprintf("%d of %s", stats.FilesWithIssues, plural(stats.FilesProcessed, "file")))
	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return strings.Join(parts, t.styles.TableSeparator.Render(" | "))
}
