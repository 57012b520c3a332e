package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gostyle/internal/logging"
	"github.com/yaklabco/gostyle/pkg/cache"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fsutil"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/parser"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them concurrently.
//
// At most opts.Jobs files are processed at once. The context is checked
// before each file starts; files not yet started when it is cancelled are
// recorded as cancelled. A file already in progress runs to completion so
// a fix write is never torn. Outcomes are in discovery order regardless
// of the job count.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)

	// The cache only serves lint-only runs.
	var fingerprint string
	useCache := opts.Cache != nil && !pipelineOpts.Fix
	if useCache {
		if fingerprint, err = cache.Fingerprint(opts.Config, opts.Version, r.registry()); err != nil {
			return nil, err
		}
	}

	logger.Debug("running",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
		logging.FieldFix, pipelineOpts.Fix,
	)

	outcomes := make([]FileOutcome, len(files))

	var group errgroup.Group
	group.SetLimit(jobs)

	for idx, path := range files {
		group.Go(func() error {
			if ctx.Err() != nil {
				outcomes[idx] = FileOutcome{Path: path, Cancelled: true}
				return nil
			}

			fileCtx := context.WithoutCancel(ctx)
			if useCache {
				outcomes[idx] = r.processCached(fileCtx, path, opts, pipelineOpts, fingerprint)
			} else {
				outcomes[idx] = r.process(fileCtx, path, opts.Config, pipelineOpts)
			}
			return nil
		})
	}

	// Workers never return errors; failures are recorded per file.
	_ = group.Wait()

	for _, outcome := range outcomes {
		result.accumulate(outcome)
	}

	logger.Debug("run complete",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

func (r *Runner) registry() *lint.Registry {
	if r.Pipeline == nil || r.Pipeline.Engine == nil {
		return nil
	}
	return r.Pipeline.Engine.Registry
}

// process runs one file through the pipeline.
func (r *Runner) process(ctx context.Context, path string, cfg *config.Config, opts lint.PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}

	pr, err := r.Pipeline.ProcessFile(ctx, path, cfg, opts)
	switch {
	case errors.Is(err, parser.ErrUnsupportedDialect):
		logging.ForFile(ctx, path).Debug("skipping file", logging.FieldDialect, "unknown")
		outcome.Unsupported = true
	case err != nil:
		outcome.Error = err
	default:
		logging.ForFile(ctx, path).Debug("processed", logging.FieldStatus, pr.Summary())
		outcome.Result = pr
	}
	return outcome
}

// processCached serves a lint-only run from the cache, filling it on a miss.
// Cache failures are logged and fall through to a normal lint.
func (r *Runner) processCached(
	ctx context.Context,
	path string,
	opts Options,
	pipelineOpts lint.PipelineOptions,
	fingerprint string,
) FileOutcome {
	logger := logging.ForFile(ctx, path)

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		// Let the pipeline classify the read error.
		return r.process(ctx, path, opts.Config, pipelineOpts)
	}

	key := cache.Key(path, content, fingerprint)
	diags, hit, err := opts.Cache.Get(key)
	if err != nil {
		logger.Debug("cache read failed", logging.FieldError, err)
	}
	if hit {
		for i := range diags {
			diags[i].FilePath = path
		}
		logger.Debug("lint", logging.FieldCacheHit, true)
		return FileOutcome{
			Path:   path,
			Cached: true,
			Result: &lint.PipelineResult{
				FileResult:   &lint.FileResult{Diagnostics: diags},
				Path:         path,
				OriginalInfo: info,
			},
		}
	}

	outcome := FileOutcome{Path: path}
	pr, err := r.Pipeline.ProcessContent(ctx, path, content, opts.Config, pipelineOpts)
	switch {
	case errors.Is(err, parser.ErrUnsupportedDialect):
		outcome.Unsupported = true
		return outcome
	case err != nil:
		outcome.Error = err
		return outcome
	}
	pr.OriginalInfo = info
	outcome.Result = pr

	if len(pr.RuleErrors) == 0 {
		if err := opts.Cache.Put(key, pr.Diagnostics); err != nil {
			logger.Debug("cache write failed", logging.FieldError, err)
		}
	}
	return outcome
}
