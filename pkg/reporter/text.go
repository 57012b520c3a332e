package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/runner"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// TextReporter writes diagnostics for humans, one per line with optional
// source context.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
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

	total := 0
	for _, file := range result.Files {
		total += r.reportFile(file)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

// reportFile writes one file's error or diagnostics and returns how many
// diagnostics it wrote.
func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := analysis.RelativePath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
		return 0
	}
	if file.Result == nil || file.Result.FileResult == nil || len(file.Result.Diagnostics) == 0 {
		return 0
	}

	diags := file.Result.Diagnostics
	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(diags)))
	}

	for i := range diags {
		diag := diags[i]
		diag.FilePath = path

		var sourceLine string
		if r.opts.ShowContext {
			sourceLine = sourceLineAt(file.Result.Snapshot, diag.StartLine)
		}
		fmt.Fprint(r.bw, r.styles.FormatDiagnosticWithFormat(&diag, r.opts.ShowContext, sourceLine, r.opts.RuleFormat))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}
	return len(diags)
}

// sourceLineAt returns a 1-based line of the snapshot, or "" when the
// snapshot is missing (cached results carry none) or the line is out of range.
func sourceLineAt(snapshot *syntax.FileSnapshot, line int) string {
	if snapshot == nil {
		return ""
	}
	return string(snapshot.LineContent(line))
}
