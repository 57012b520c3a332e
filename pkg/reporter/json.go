package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/gostyle/pkg/analysis"
)

// JSONOutput is the document written by the json format. It holds no
// timestamp so identical runs produce identical bytes.
type JSONOutput struct {
	Tool        string                     `json:"tool"`
	Version     string                     `json:"version"`
	Diagnostics []analysis.DiagnosticEntry `json:"diagnostics"`
	Files       []analysis.FileEntry       `json:"files"`
	Summary     analysis.Totals            `json:"summary"`
}

// JSONRenderer writes a report as JSON.
type JSONRenderer struct {
	opts Options
}

var _ Renderer = (*JSONRenderer)(nil)

// NewJSONRenderer creates a JSON renderer.
func NewJSONRenderer(opts Options) *JSONRenderer {
	return &JSONRenderer{opts: opts}
}

// NewJSONReporter creates a Reporter producing JSON.
func NewJSONReporter(opts Options) Reporter {
	return withAnalysis(NewJSONRenderer(opts), opts)
}

// Render implements Renderer.
func (r *JSONRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := JSONOutput{
		Tool:        toolName,
		Version:     report.Version,
		Diagnostics: report.Diagnostics,
		Files:       report.Files,
		Summary:     report.Totals,
	}
	if output.Diagnostics == nil {
		output.Diagnostics = []analysis.DiagnosticEntry{}
	}
	if output.Files == nil {
		output.Files = []analysis.FileEntry{}
	}

	encoder := json.NewEncoder(bw)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
