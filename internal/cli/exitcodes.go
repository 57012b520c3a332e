package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/runner"
)

// Process exit codes. The 6x/7x values follow sysexits.h.
const (
	// ExitSuccess: no findings at or above the fail-on severity.
	ExitSuccess = 0

	// ExitLintIssues: findings at or above the fail-on severity.
	ExitLintIssues = 1

	// ExitFilesFailed: the run finished but some files could not be read,
	// parsed or written.
	ExitFilesFailed = 2

	ExitInvalidUsage  = 64
	ExitConfigError   = 65
	ExitInternalError = 70
	ExitIOError       = 74
)

var (
	// ErrLintIssuesFound signals findings at or above the fail-on severity.
	// It carries no message worth printing.
	ErrLintIssuesFound = errors.New("lint issues found")

	// ErrFilesFailed signals per-file failures in an otherwise clean run.
	ErrFilesFailed = errors.New("some files could not be processed")

	// ErrUsage marks bad flag values.
	ErrUsage = errors.New("invalid usage")
)

// ResultError returns the error a finished run maps to, or nil when the
// run is clean.
func ResultError(result *runner.Result, failOn config.Severity) error {
	switch {
	case result == nil:
		return nil
	case result.HasFindingsAtLeast(failOn):
		return ErrLintIssuesFound
	case result.HasErrors():
		return ErrFilesFailed
	default:
		return nil
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrLintIssuesFound):
		return ExitLintIssues
	case errors.Is(err, ErrFilesFailed):
		return ExitFilesFailed
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, lint.ErrFileNotFound),
		errors.Is(err, lint.ErrPermissionDenied),
		errors.Is(err, lint.ErrWriteFailure),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fs.ErrExist):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err is only an exit signal and should not be
// logged.
func IsSilent(err error) bool {
	return errors.Is(err, ErrLintIssuesFound) || errors.Is(err, ErrFilesFailed)
}
