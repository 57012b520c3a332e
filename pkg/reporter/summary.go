package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/config"
)

const (
	summaryTableWidth = 90
	ruleColWidth      = 30
	fileColWidth      = 52
	numColWidth       = 8
)

// SummaryRenderer writes per-rule, per-file and per-dialect aggregates.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
}

var _ Renderer = (*SummaryRenderer)(nil)

// NewSummaryRenderer creates a summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report.Totals.Issues == 0 {
		fmt.Fprintln(bw, r.styles.Success.Render("No issues found"))
		return nil
	}

	tables := []func(*bufio.Writer, *analysis.Report){r.renderRules, r.renderFiles}
	if r.opts.SummaryOrder == config.SummaryOrderFiles {
		tables[0], tables[1] = tables[1], tables[0]
	}
	tables = append(tables, r.renderDialects)

	for _, table := range tables {
		table(bw, report)
	}
	r.renderTotals(bw, report.Totals)

	return nil
}

// cell pads or truncates s to width terminal cells; right aligns numbers.
func cell(s string, width int, right bool) string {
	s = runewidth.Truncate(s, width, "…")
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

// truncateLeft keeps the end of a path, which is the informative part.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for i := range runes {
		if tail := string(runes[i:]); runewidth.StringWidth(tail) <= width-1 {
			return "…" + tail
		}
	}
	return "…"
}

func (r *SummaryRenderer) heading(bw *bufio.Writer, title string, columns ...string) {
	separator := r.styles.TableSeparator.Render(strings.Repeat("─", summaryTableWidth))
	fmt.Fprintln(bw, r.styles.Bold.Render(title))
	fmt.Fprintln(bw, separator)
	fmt.Fprintln(bw, r.styles.TableHeader.Render(strings.TrimRight(strings.Join(columns, " "), " ")))
	fmt.Fprintln(bw, separator)
}

func (r *SummaryRenderer) nameStyle(errors, warnings int, name string) string {
	switch {
	case errors > 0:
		return r.styles.TableErrorRow.Render(name)
	case warnings > 0:
		return r.styles.TableWarnRow.Render(name)
	default:
		return name
	}
}

func (r *SummaryRenderer) renderRules(bw *bufio.Writer, report *analysis.Report) {
	if len(report.ByRule) == 0 {
		return
	}

	r.heading(bw, "Rules Summary",
		cell("Rule", ruleColWidth, false),
		cell("Count", numColWidth, true),
		cell("Errors", numColWidth, true),
		cell("Warnings", numColWidth, true),
		cell("Info", numColWidth, true),
		cell("Fixable", numColWidth, true),
	)

	for _, rule := range report.ByRule {
		name := config.FormatRuleID(r.opts.RuleFormat, rule.RuleID, rule.RuleName)
		fixable := cell("", numColWidth, true)
		if rule.Fixable {
			fixable = r.styles.TableFixable.Render(cell("✓", numColWidth, true))
		}
		fmt.Fprintln(bw, strings.Join([]string{
			r.nameStyle(rule.Errors, rule.Warnings, cell(name, ruleColWidth, false)),
			cell(strconv.Itoa(rule.Issues), numColWidth, true),
			cell(strconv.Itoa(rule.Errors), numColWidth, true),
			cell(strconv.Itoa(rule.Warnings), numColWidth, true),
			cell(strconv.Itoa(rule.Infos), numColWidth, true),
			fixable,
		}, " "))
	}
	fmt.Fprintln(bw)
}

func (r *SummaryRenderer) renderFiles(bw *bufio.Writer, report *analysis.Report) {
	if len(report.ByFile) == 0 {
		return
	}

	r.heading(bw, "Files Summary",
		cell("File", fileColWidth, false),
		cell("Count", numColWidth, true),
		cell("Errors", numColWidth, true),
		cell("Warnings", numColWidth, true),
		cell("Info", numColWidth, true),
	)

	for _, file := range report.ByFile {
		fmt.Fprintln(bw, strings.Join([]string{
			r.nameStyle(file.Errors, file.Warnings, cell(truncateLeft(file.Path, fileColWidth), fileColWidth, false)),
			cell(strconv.Itoa(file.Issues), numColWidth, true),
			cell(strconv.Itoa(file.Errors), numColWidth, true),
			cell(strconv.Itoa(file.Warnings), numColWidth, true),
			cell(strconv.Itoa(file.Infos), numColWidth, true),
		}, " "))
	}
	fmt.Fprintln(bw)
}

func (r *SummaryRenderer) renderDialects(bw *bufio.Writer, report *analysis.Report) {
	if len(report.ByDialect) < 2 {
		return
	}

	r.heading(bw, "Dialects",
		cell("Dialect", ruleColWidth, false),
		cell("Files", numColWidth, true),
		cell("Issues", numColWidth, true),
	)
	for _, d := range report.ByDialect {
		fmt.Fprintln(bw, strings.Join([]string{
			cell(d.Dialect, ruleColWidth, false),
			cell(strconv.Itoa(d.Files), numColWidth, true),
			cell(strconv.Itoa(d.Issues), numColWidth, true),
		}, " "))
	}
	fmt.Fprintln(bw)
}

func (r *SummaryRenderer) renderTotals(bw *bufio.Writer, totals analysis.Totals) {
	line := pluralize(totals.Issues, "issue", "issues")

	var severities []string
	if totals.Errors > 0 {
		severities = append(severities, r.styles.Error.Render(pluralize(totals.Errors, "error", "errors")))
	}
	if totals.Warnings > 0 {
		severities = append(severities, r.styles.Warning.Render(pluralize(totals.Warnings, "warning", "warnings")))
	}
	if totals.Infos > 0 {
		severities = append(severities, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severities) > 0 {
		line += " (" + strings.Join(severities, ", ") + ")"
	}
	line += " in " + pluralize(totals.FilesWithIssues, "file", "files")
	if totals.Fixable > 0 {
		line += ", " + r.styles.Success.Render(fmt.Sprintf("%d fixable", totals.Fixable))
	}

	fmt.Fprintln(bw, r.styles.Bold.Render("Total: ")+line)
}
