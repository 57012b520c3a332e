package reporter

import (
	"context"
	"io"
	"os"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

const bufWriterSize = 64 << 10

// Renderer presents an already aggregated report. The JSON, SARIF and
// summary formats are renderers; New wraps them into a Reporter.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// Options is shared by every reporter; each format reads the fields it
// understands and ignores the rest.
type Options struct {
	Writer io.Writer
	Format Format
	// Color is auto, always or never.
	Color string

	// Text and table output.
	ShowContext bool
	ShowSummary bool
	GroupByFile bool
	PerFile     bool

	// JSON and SARIF output are indented unless Compact is set.
	Compact bool

	RuleFormat   config.RuleFormat
	SummaryOrder config.SummaryOrder

	// WorkingDir makes reported paths relative. Empty keeps them as given.
	WorkingDir string

	// Registry and ToolVersion feed the SARIF tool descriptor.
	Registry    *lint.Registry
	ToolVersion string
}

// DefaultOptions writes colored, grouped text with context to stdout.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		Format:       FormatText,
		Color:        pretty.ColorAuto,
		ShowContext:  true,
		ShowSummary:  true,
		GroupByFile:  true,
		RuleFormat:   config.RuleFormatName,
		SummaryOrder: config.SummaryOrderRules,
	}
}
