package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/runner"
)

// DiffReporter writes the fixes of a dry run as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. It returns the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, file := range result.Files {
		path := analysis.RelativePath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n", r.styles.FilePath.Render(path), r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)))
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := file.Result.Diff
		files++
		additions += diff.Additions
		deletions += diff.Deletions
		r.writeDiff(path, diff)
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}

	return files, nil
}

// writeDiff writes one file's hunks. Lines are styled from the hunk data
// rather than the rendered text, so removed lines that begin with "--"
// (CSS custom properties) are not mistaken for headers.
func (r *DiffReporter) writeDiff(path string, diff *fix.Diff) {
	path = strings.TrimPrefix(path, "/")

	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(r.bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(r.bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range diff.Hunks {
		fmt.Fprintln(r.bw, r.styles.DiffHunk.Render(hunk.Header()))

		for _, line := range hunk.Lines {
			style := r.styles.DiffContext
			switch line.Kind {
			case fix.DiffLineAdd:
				style = r.styles.DiffAdd
			case fix.DiffLineRemove:
				style = r.styles.DiffRemove
			}
			fmt.Fprintln(r.bw, style.Render(line.String()))
			if line.NoEOL {
				fmt.Fprintln(r.bw, r.styles.DiffContext.Render(fix.NoEOLMarker()))
			}
		}
	}

	fmt.Fprintln(r.bw)
}

func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{pluralize(files, "file", "files") + " changed"}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(pluralize(additions, "insertion", "insertions")+"(+)"))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(pluralize(deletions, "deletion", "deletions")+"(-)"))
	}
	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
