package runner

import (
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

// FileOutcome is what happened to one discovered file.
type FileOutcome struct {
	Path string

	// Result is nil unless the file was linted (or served from cache).
	Result *lint.PipelineResult

	Error       error
	Cancelled   bool
	Unsupported bool
	Cached      bool
}

// OutcomeStatus classifies a FileOutcome for counting.
type OutcomeStatus int

// Outcome statuses, in precedence order.
const (
	OutcomeLinted OutcomeStatus = iota
	OutcomeErrored
	OutcomeCancelled
	OutcomeUnsupported
	OutcomeEmpty
)

// Status reports the single bucket a file falls into. An error takes
// precedence over cancellation, which takes precedence over an unknown
// dialect.
func (o FileOutcome) Status() OutcomeStatus {
	switch {
	case o.Error != nil:
		return OutcomeErrored
	case o.Cancelled:
		return OutcomeCancelled
	case o.Unsupported:
		return OutcomeUnsupported
	case o.Result == nil:
		return OutcomeEmpty
	default:
		return OutcomeLinted
	}
}

// Stats are run-wide counters. File counters partition the discovered
// files except FilesSkipped, FilesCached and FilesModified, which are
// subsets of FilesProcessed.
type Stats struct {
	FilesDiscovered  int
	FilesProcessed   int
	FilesSkipped     int
	FilesErrored     int
	FilesCancelled   int
	FilesUnsupported int
	FilesCached      int
	FilesWithIssues  int
	FilesModified    int

	DiagnosticsTotal   int
	DiagnosticsFixable int
	DiagnosticsFixed   int

	// DiagnosticsBySeverity is keyed by config.Severity string values.
	DiagnosticsBySeverity map[string]int
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: map[string]int{}}
}

func (s *Stats) countDiagnostics(res *lint.PipelineResult) {
	s.DiagnosticsFixed += res.TotalEditsApplied
	if res.FileResult == nil {
		return
	}

	n := len(res.Diagnostics)
	if n == 0 {
		return
	}
	s.FilesWithIssues++
	s.DiagnosticsTotal += n
	s.DiagnosticsFixable += res.FixableCount()

	for _, diag := range res.Diagnostics {
		sev := diag.Severity
		if sev == "" {
			sev = config.SeverityWarning
		}
		s.DiagnosticsBySeverity[string(sev)]++
	}
}

// Result collects every outcome of a run in discovery order.
type Result struct {
	Files  []FileOutcome
	Stats  Stats
	Errors []error
}

// HasFailures reports whether any error-severity finding was produced.
func (r *Result) HasFailures() bool {
	return r.HasFindingsAtLeast(config.SeverityError)
}

// HasFindingsAtLeast reports whether a finding at or above threshold was
// produced. An invalid threshold matches every finding.
func (r *Result) HasFindingsAtLeast(threshold config.Severity) bool {
	if r == nil {
		return false
	}
	strict := threshold.IsValid()
	for sev, n := range r.Stats.DiagnosticsBySeverity {
		if n == 0 {
			continue
		}
		if !strict || config.Severity(sev).AtLeast(threshold) {
			return true
		}
	}
	return false
}

// HasErrors reports whether any file could not be processed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

// HasIssues reports whether any finding was produced.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch outcome.Status() {
	case OutcomeErrored:
		r.Stats.FilesErrored++
	case OutcomeCancelled:
		r.Stats.FilesCancelled++
	case OutcomeUnsupported:
		r.Stats.FilesUnsupported++
	case OutcomeEmpty:
		if outcome.Cached {
			r.Stats.FilesCached++
		}
	case OutcomeLinted:
		res := outcome.Result
		r.Stats.FilesProcessed++
		if outcome.Cached {
			r.Stats.FilesCached++
		}
		if res.Skipped {
			r.Stats.FilesSkipped++
		}
		if res.Written {
			r.Stats.FilesModified++
		}
		r.Stats.countDiagnostics(res)
	}
}
