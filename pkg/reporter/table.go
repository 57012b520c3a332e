package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/runner"
)

// defaultTermWidth is used when the writer is not a terminal.
const defaultTermWidth = 120

// TableReporter writes diagnostics as an aligned table, either one table
// for the whole run or one per file.
type TableReporter struct {
	opts      Options
	styles    *pretty.Styles
	formatter *pretty.TableFormatter
	bw        *bufio.Writer
}

// NewTableReporter creates a table reporter sized to the output terminal.
func NewTableReporter(opts Options) *TableReporter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer))
	formatter := pretty.NewTableFormatter(styles, terminalWidth(opts.Writer)).
		WithRuleFormat(opts.RuleFormat).
		WithPathFunc(func(p string) string { return analysis.RelativePath(p, opts.WorkingDir) })

	return &TableReporter{
		opts:      opts,
		styles:    styles,
		formatter: formatter,
		bw:        bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TableReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		if file.Error != nil {
			path := analysis.RelativePath(file.Path, r.opts.WorkingDir)
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		}
	}

	total := result.Stats.DiagnosticsTotal
	if total == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("All files passed!")+
				r.styles.Dim.Render(fmt.Sprintf(" (%d files checked)", result.Stats.FilesProcessed)))
		}
		return 0, nil
	}

	if r.opts.PerFile {
		r.reportPerFile(result)
	} else {
		fmt.Fprint(r.bw, r.formatter.FormatTable(result))
	}

	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.formatter.FormatTableSummary(result.Stats, ""))
		if result.Stats.DiagnosticsFixable > 0 {
			fmt.Fprintln(r.bw, r.styles.Dim.Render("Run with --fix to repair fixable issues"))
		}
	}

	return total, nil
}

func (r *TableReporter) reportPerFile(result *runner.Result) {
	for _, file := range result.Files {
		table := r.formatter.FormatFileTable(file)
		if table == "" {
			continue
		}
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.Bold.Render(analysis.RelativePath(file.Path, r.opts.WorkingDir)))
		fmt.Fprint(r.bw, table)
	}
	if r.opts.ShowSummary {
		fmt.Fprintln(r.bw)
		fmt.Fprintln(r.bw, r.styles.TableSeparator.Render(strings.Repeat("═", 60)))
	}
}

// terminalWidth reports the writer's terminal width, or defaultTermWidth.
func terminalWidth(writer io.Writer) int {
	if f, ok := writer.(interface{ Fd() uintptr }); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultTermWidth
}
