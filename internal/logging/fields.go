// Package logging wraps charmbracelet/log with gostyle's defaults and
// carries a logger through context.Context.
package logging

// Structured field keys. Keys are snake_case so JSON-formatted logs stay
// greppable.
const (
	FieldError = "error"

	// Files and locations.
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDialect    = "dialect"
	FieldSource     = "source"
	FieldStatus     = "status"

	// Run settings.
	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"

	// Fix loop.
	FieldPass     = "pass"
	FieldRule     = "rule"
	FieldEdits    = "edits"
	FieldReverted = "reverted"
	FieldCacheHit = "cache_hit"

	// Run totals.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesModified    = "files_modified"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Build.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
