// Package reporter writes run results as text, tables, JSON, SARIF, diffs
// or aggregate summaries.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/runner"
)

// Reporter writes one run's result and returns how many findings it
// reported.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// analyzed runs analysis.Analyze ahead of a Renderer.
type analyzed struct {
	renderer Renderer
	opts     analysis.Options
}

var _ Reporter = analyzed{}

func (a analyzed) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, a.opts)
	if err := a.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func withAnalysis(renderer Renderer, opts Options) Reporter {
	aopts := analysis.DefaultOptions()
	aopts.RuleFormat = opts.RuleFormat
	aopts.WorkingDir = opts.WorkingDir
	return analyzed{renderer: renderer, opts: aopts}
}

//nolint:gochecknoglobals // fixed format table
var constructors = map[Format]func(Options) Reporter{
	FormatText:    func(o Options) Reporter { return NewTextReporter(o) },
	FormatTable:   func(o Options) Reporter { return NewTableReporter(o) },
	FormatJSON:    func(o Options) Reporter { return NewJSONReporter(o) },
	FormatSARIF:   func(o Options) Reporter { return NewSARIFReporter(o) },
	FormatDiff:    func(o Options) Reporter { return NewDiffReporter(o) },
	FormatSummary: func(o Options) Reporter { return withAnalysis(NewSummaryRenderer(o), o) },
}

// New returns the Reporter for opts.Format. An empty format means text
// and a nil writer means stdout.
func New(opts Options) (Reporter, error) {
	defaults := DefaultOptions()
	if opts.Writer == nil {
		opts.Writer = defaults.Writer
	}
	if opts.Format == "" {
		opts.Format = defaults.Format
	}

	build, ok := constructors[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	return build(opts), nil
}
