package lint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/yaklabco/gostyle/internal/logging"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/fsutil"
)

// Failure classes for a single file. Errors returned by Pipeline wrap one
// of these when the cause is known.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

// PipelineResult is the outcome of one file. The embedded FileResult is
// the lint of the final content: the original in lint mode, the fixed
// content otherwise.
type PipelineResult struct {
	*FileResult

	Path         string
	OriginalInfo *fsutil.FileInfo

	// Modified means verified fixes changed the content; ModifiedContent
	// then holds it. Written says whether it reached disk.
	Modified        bool
	ModifiedContent []byte
	Written         bool
	BackupCreated   bool

	// Diff is only set for dry runs.
	Diff *fix.Diff

	// Skipped is set when the file changed on disk while it was being
	// fixed; nothing was written.
	Skipped    bool
	SkipReason string

	FixPasses         int
	TotalEditsApplied int

	// Reverted names rules whose fixes were withdrawn after failing
	// verification. Their findings are reported unfixable.
	Reverted []string
}

// Summary is a one-word-ish status for logs.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls how a file is fixed and written.
type PipelineOptions struct {
	Fix    bool
	DryRun bool
	Backup fsutil.BackupConfig

	// StrictRaceDetection compares content hashes, not just size and
	// mtime, before writing.
	StrictRaceDetection bool

	// MaxFixPasses <= 0 defers to the config, then DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions lints only, with strict race detection for when
// Fix is turned on.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		MaxFixPasses:        config.DefaultMaxFixPasses,
	}
}

// PipelineOptionsFromConfig derives options from a resolved config. A dry
// run implies fixing in memory.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		return opts
	}
	opts.Fix = cfg.Fix || cfg.DryRun
	opts.DryRun = cfg.DryRun
	opts.MaxFixPasses = cfg.FixPasses()
	opts.Backup = fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
	return opts
}

// Pipeline lints one file and, when asked, fixes it safely.
type Pipeline struct {
	Engine *Engine
}

func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile reads path, lints or fixes it through ProcessContent and
// writes the verified result. Before writing it confirms the file did not
// change on disk since the read, and makes a backup when configured. The
// write is atomic.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	original, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, classifyReadError(err)
	}

	result, err := p.ProcessContent(ctx, path, original, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info

	if opts.DryRun || !result.Modified {
		return result, nil
	}

	changed, err := info.Changed(ctx, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if changed {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		if result.BackupCreated, err = fsutil.CreateBackup(ctx, path, original, info.Mode, opts.Backup); err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
	}

	if err := fsutil.WriteAtomic(ctx, path, result.ModifiedContent, info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	return result, nil
}

// ProcessContent lints content, or in fix mode runs the verified fix loop
// over it. Nothing touches disk.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	if !opts.Fix {
		res, err := p.lint(ctx, path, content, cfg, nil)
		if err != nil {
			return nil, err
		}
		result.FileResult = res
		return result, nil
	}

	run, err := p.fixVerified(ctx, path, content, cfg, opts.MaxFixPasses)
	if err != nil {
		return nil, err
	}
	result.FileResult = run.result
	result.FixPasses = run.passes
	result.TotalEditsApplied = run.edits
	result.Reverted = run.reverted

	if run.passes > 0 {
		result.Modified = true
		result.ModifiedContent = run.content
		if opts.DryRun {
			result.Diff = fix.GenerateDiff(path, content, run.content)
		}
	}
	return result, nil
}

// fixRun is one attempt at fixing a file from its original content.
type fixRun struct {
	content []byte
	result  *FileResult
	passes  int
	edits   int

	// failing lists rules whose applied fixes did not verify.
	failing []string

	// reverted accumulates the rules excluded across attempts.
	reverted []string
}

// fixVerified runs the fix loop and verifies its output. Rules failing
// verification are excluded and the loop restarts from the original text,
// so unverified output is never returned.
func (p *Pipeline) fixVerified(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	maxPasses int,
) (*fixRun, error) {
	if maxPasses <= 0 {
		maxPasses = cfg.FixPasses()
	}

	logger := logging.FromContext(ctx)
	excluded := make(map[string]bool)

	for {
		run, err := p.fixPasses(ctx, path, original, cfg, maxPasses, excluded)
		if err != nil {
			return nil, err
		}
		if len(run.failing) == 0 {
			for _, rule := range p.Engine.Registry.Ordered() {
				if excluded[rule.ID()] {
					run.reverted = append(run.reverted, rule.ID())
				}
			}
			return run, nil
		}

		logger.Debug("fix verification failed",
			logging.FieldPath, path,
			logging.FieldReverted, run.failing,
		)
		for _, id := range run.failing {
			excluded[id] = true
		}
	}
}

// fixPasses applies edits until none remain or maxPasses is reached, then
// checks the result. A pass that raises the syntax error count fails the
// rules it fixed. A rule with applied edits that still reports a fixable
// diagnostic at the end fails too.
func (p *Pipeline) fixPasses(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	maxPasses int,
	excluded map[string]bool,
) (*fixRun, error) {
	run := &fixRun{content: original}
	applied := make(map[string]bool)

	res, err := p.lint(ctx, path, original, cfg, excluded)
	if err != nil {
		return nil, err
	}
	baseline := res.SyntaxErrorCount()

	for res.HasFixes() && run.passes < maxPasses {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
		default:
		}

		next := fix.ApplyEdits(run.content, res.Edits)
		nextRes, err := p.lint(ctx, path, next, cfg, excluded)
		if err != nil {
			return nil, err
		}

		if nextRes.SyntaxErrorCount() > baseline {
			run.failing = p.blameSyntaxErrors(ctx, path, run.content, res, baseline)
			return run, nil
		}

		for _, id := range res.FixedRules {
			applied[id] = true
		}
		run.passes++
		run.edits += len(res.Edits)
		run.content = next

		logging.FromContext(ctx).Debug("fix pass",
			logging.FieldPath, path,
			logging.FieldPass, run.passes,
			logging.FieldEdits, len(res.Edits),
		)

		res = nextRes
	}

	run.result = res
	for _, d := range res.Diagnostics {
		if applied[d.RuleID] && d.HasFix() && !slices.Contains(run.failing, d.RuleID) {
			run.failing = append(run.failing, d.RuleID)
		}
	}

	return run, nil
}

// blameSyntaxErrors finds the rules whose edits alone raise the syntax
// error count above baseline. When no single rule does, the edits only
// break the file together and every rule of the pass is blamed.
func (p *Pipeline) blameSyntaxErrors(
	ctx context.Context,
	path string,
	content []byte,
	res *FileResult,
	baseline int,
) []string {
	var culprits []string
	for _, id := range res.FixedRules {
		var edits []fix.TextEdit
		for _, g := range res.FixGroups {
			if g.Owner == id {
				edits = append(edits, g.Edits...)
			}
		}
		fix.SortEdits(edits)

		snapshot, err := p.Engine.Parser.Parse(ctx, path, fix.ApplyEdits(content, edits))
		if err != nil || len(snapshot.SyntaxErrors) > baseline {
			culprits = append(culprits, id)
		}
	}
	if len(culprits) == 0 {
		return res.FixedRules
	}
	return culprits
}

// lint parses content and lints it with fixes from excluded rules withheld.
func (p *Pipeline) lint(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	excluded map[string]bool,
) (*FileResult, error) {
	snapshot, err := p.Engine.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	fileResult, err := p.Engine.lintSnapshot(ctx, snapshot, cfg, excluded)
	if err != nil {
		return nil, fmt.Errorf("lint %s: %w", path, err)
	}
	return fileResult, nil
}

// classifyReadError tags missing and unreadable files.
func classifyReadError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError reports whether err carries one of the failure classes.
func IsPipelineError(err error) bool {
	for _, class := range []error{ErrFileNotFound, ErrPermissionDenied, ErrParseFailure, ErrWriteFailure} {
		if errors.Is(err, class) {
			return true
		}
	}
	return false
}
