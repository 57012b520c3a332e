package runner_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/cache"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/lint/rules"
	"github.com/yaklabco/gostyle/pkg/parser"
	"github.com/yaklabco/gostyle/pkg/runner"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

const (
	cleanSCSS    = ".card {\n    $gap: 4px;\n    margin: $gap;\n\n    &__title {\n        color: red;\n    }\n}\n"
	unsortedSCSS = ".a { color: red; @extend .b; }\n"
	brokenHTML   = "<div class=\"x\" id=\"y\"><IMG SRC=\"a.png\"></div>\n"
	upperHTML    = "<DIV ID=\"a\" CLASS=\"b\"></DIV>\n"
	fixedHTML    = "<div class=\"b\" id=\"a\"></div>\n"
)

// countingParser counts Parse calls.
type countingParser struct {
	inner *parser.Parser
	count atomic.Int32
}

func (p *countingParser) Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error) {
	p.count.Add(1)
	return p.inner.Parse(ctx, path, content)
}

func newRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	rules.RegisterAll(registry)
	return registry
}

func newRunner(p lint.Parser) *runner.Runner {
	if p == nil {
		p = parser.New()
	}
	return runner.New(lint.NewPipeline(lint.NewEngine(p, newRegistry())))
}

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(lint.NewEngine(parser.New(), newRegistry()))
	assert.Same(t, pipeline, runner.New(pipeline).Pipeline)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner(nil).Run(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
}

func TestRunner_Run_Diagnostics(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"clean.scss":  cleanSCSS,
		"order.scss":  unsortedSCSS,
		"page.html":   brokenHTML,
		"ignored.txt": "x",
	})

	result, err := newRunner(nil).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Equal(t, 3, result.Stats.FilesDiscovered)
	assert.Equal(t, 3, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.FilesWithIssues)
	assert.Equal(t, 4, result.Stats.DiagnosticsTotal)
	assert.Positive(t, result.Stats.DiagnosticsBySeverity["error"])
	assert.True(t, result.HasIssues())
	assert.True(t, result.HasFailures())
	assert.False(t, result.HasErrors())

	byName := map[string]runner.FileOutcome{}
	for _, outcome := range result.Files {
		require.NoError(t, outcome.Error)
		byName[filepath.Base(outcome.Path)] = outcome
	}
	assert.Empty(t, byName["clean.scss"].Result.Diagnostics)
	require.Len(t, byName["order.scss"].Result.Diagnostics, 1)
	assert.Equal(t, "SC002", byName["order.scss"].Result.Diagnostics[0].RuleID)
	assert.Len(t, byName["page.html"].Result.Diagnostics, 3)
}

func TestRunner_Run_DeterministicAcrossJobCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	for i := range 24 {
		switch i % 3 {
		case 0:
			files[fmt.Sprintf("f%02d.scss", i)] = unsortedSCSS
		case 1:
			files[fmt.Sprintf("f%02d.html", i)] = brokenHTML
		default:
			files[fmt.Sprintf("f%02d.css", i)] = cleanSCSS
		}
	}
	writeTree(t, dir, files)

	run := func(jobs int) *runner.Result {
		result, err := newRunner(nil).Run(context.Background(), runner.Options{
			WorkingDir: dir,
			Config:     config.NewConfig(),
			Jobs:       jobs,
		})
		require.NoError(t, err)
		return result
	}

	serial := run(1)
	for _, jobs := range []int{2, 8, 0} {
		parallel := run(jobs)
		assert.Equal(t, serial.Stats, parallel.Stats, "jobs=%d", jobs)
		require.Len(t, parallel.Files, len(serial.Files))
		for i := range serial.Files {
			assert.Equal(t, serial.Files[i].Path, parallel.Files[i].Path)
			assert.Equal(t, serial.Files[i].Result.Diagnostics, parallel.Files[i].Result.Diagnostics)
		}
	}
}

func TestRunner_Run_ParsesEachFileOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{}
	for i := range 50 {
		files[fmt.Sprintf("f%02d.scss", i)] = cleanSCSS
	}
	writeTree(t, dir, files)

	counter := &countingParser{inner: parser.New()}
	result, err := newRunner(counter).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     config.NewConfig(),
		Jobs:       8,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, result.Stats.FilesProcessed)
	assert.Equal(t, int32(50), counter.count.Load())
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.scss": cleanSCSS, "b.scss": cleanSCSS})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(nil).Run(ctx, runner.Options{WorkingDir: dir, Config: config.NewConfig()})
	require.ErrorIs(t, err, context.Canceled)
}

// cancellingParser cancels the run while parsing the first file.
type cancellingParser struct {
	inner  *parser.Parser
	cancel context.CancelFunc
	ctxErr atomic.Value
}

func (p *cancellingParser) Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error) {
	p.cancel()
	if err := ctx.Err(); err != nil {
		p.ctxErr.Store(err)
	}
	return p.inner.Parse(ctx, path, content)
}

func TestRunner_Run_CancelledMidRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.scss": unsortedSCSS, "b.scss": cleanSCSS, "c.scss": cleanSCSS})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &cancellingParser{inner: parser.New(), cancel: cancel}
	result, err := newRunner(p).Run(ctx, runner.Options{
		WorkingDir: dir,
		Config:     config.NewConfig(),
		Jobs:       1,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)

	// The file in flight finishes without seeing the cancellation.
	assert.Nil(t, p.ctxErr.Load())
	require.Len(t, result.Files, 3)
	assert.False(t, result.Files[0].Cancelled)
	require.NotNil(t, result.Files[0].Result)
	assert.Len(t, result.Files[0].Result.Diagnostics, 1)

	assert.True(t, result.Files[1].Cancelled)
	assert.True(t, result.Files[2].Cancelled)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 2, result.Stats.FilesCancelled)
}

func TestRunner_Run_Fix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"page.html": upperHTML, "clean.scss": cleanSCSS})

	cfg := config.NewConfig()
	cfg.Fix = true

	result, err := newRunner(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Positive(t, result.Stats.DiagnosticsFixed)

	content, err := os.ReadFile(filepath.Join(dir, "page.html"))
	require.NoError(t, err)
	assert.Equal(t, fixedHTML, string(content))

	content, err = os.ReadFile(filepath.Join(dir, "clean.scss"))
	require.NoError(t, err)
	assert.Equal(t, cleanSCSS, string(content))
}

func TestRunner_Run_DryRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"page.html": upperHTML})

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.DryRun = true

	result, err := newRunner(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.FilesModified)

	content, err := os.ReadFile(filepath.Join(dir, "page.html"))
	require.NoError(t, err)
	assert.Equal(t, upperHTML, string(content))

	require.Len(t, result.Files, 1)
	require.NotNil(t, result.Files[0].Result)
	assert.NotNil(t, result.Files[0].Result.Diff)
	assert.Equal(t, fixedHTML, string(result.Files[0].Result.ModifiedContent))
}

func TestRunner_Run_UnsupportedDialect(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"style.sass": ".a\n  color: red\n", "a.scss": cleanSCSS})

	result, err := newRunner(nil).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".scss", ".sass"},
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.True(t, result.Files[1].Unsupported)
	assert.Equal(t, 1, result.Stats.FilesUnsupported)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_Cache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"order.scss": unsortedSCSS, "page.html": brokenHTML})

	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	counter := &countingParser{inner: parser.New()}
	r := newRunner(counter)
	opts := runner.Options{WorkingDir: dir, Config: config.NewConfig(), Cache: store}

	first, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Stats.FilesCached)
	assert.Equal(t, int32(2), counter.count.Load())

	second, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Stats.FilesCached)
	assert.Equal(t, int32(2), counter.count.Load(), "cached files are not parsed")
	assert.Equal(t, first.Stats.DiagnosticsTotal, second.Stats.DiagnosticsTotal)
	assert.Equal(t, first.Stats.DiagnosticsFixable, second.Stats.DiagnosticsFixable)

	for i := range first.Files {
		assert.Equal(t, first.Files[i].Result.Diagnostics, second.Files[i].Result.Diagnostics)
	}

	// Changing the file invalidates its entry.
	writeTree(t, dir, map[string]string{"order.scss": cleanSCSS})
	third, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Stats.FilesCached)
	assert.Equal(t, int32(3), counter.count.Load())
}

func TestRunner_Run_CacheKeyedByVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"order.scss": unsortedSCSS})

	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	r := newRunner(nil)
	opts := runner.Options{WorkingDir: dir, Config: config.NewConfig(), Cache: store, Version: "1.0.0"}

	_, err = r.Run(context.Background(), opts)
	require.NoError(t, err)

	same, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, same.Stats.FilesCached)

	opts.Version = "1.1.0"
	upgraded, err := r.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 0, upgraded.Stats.FilesCached)
}

func TestRunner_Run_CacheIgnoredWhenFixing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"page.html": upperHTML})

	store, err := cache.Open(t.TempDir())
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.Fix = true

	result, err := newRunner(nil).Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg, Cache: store})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.FilesCached)
	assert.Equal(t, 1, result.Stats.FilesModified)
}

func TestResult_HasFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		want   bool
	}{
		{name: "nil result", result: nil, want: false},
		{
			name:   "warnings only",
			result: &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"warning": 5}}},
			want:   false,
		},
		{
			name:   "with errors",
			result: &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"error": 1, "warning": 5}}},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.result.HasFailures())
		})
	}
}

func TestResult_HasFindingsAtLeast(t *testing.T) {
	t.Parallel()

	infoOnly := &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"info": 2}}}
	warnings := &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"info": 1, "warning": 1}}}
	zeroCount := &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[string]int{"error": 0}}}

	assert.True(t, infoOnly.HasFindingsAtLeast(config.SeverityInfo))
	assert.False(t, infoOnly.HasFindingsAtLeast(config.SeverityWarning))
	assert.True(t, warnings.HasFindingsAtLeast(config.SeverityWarning))
	assert.False(t, warnings.HasFindingsAtLeast(config.SeverityError))
	assert.True(t, infoOnly.HasFindingsAtLeast(""))
	assert.False(t, zeroCount.HasFindingsAtLeast(config.SeverityInfo))
}

func TestResult_HasIssues(t *testing.T) {
	t.Parallel()

	var nilResult *runner.Result
	assert.False(t, nilResult.HasIssues())
	assert.False(t, (&runner.Result{}).HasIssues())
	assert.True(t, (&runner.Result{Stats: runner.Stats{DiagnosticsTotal: 3}}).HasIssues())
}

func TestRunner_Run_MissingPathIsPerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"order.scss": unsortedSCSS})

	result, err := newRunner(nil).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"order.scss", "order.scss.nope"},
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	good, missing := result.Files[0], result.Files[1]
	require.NoError(t, good.Error)
	require.NotNil(t, good.Result)
	assert.Len(t, good.Result.Diagnostics, 1)

	assert.True(t, errors.Is(missing.Error, lint.ErrFileNotFound), missing.Error)
	assert.Equal(t, runner.OutcomeErrored, missing.Status())
	assert.Equal(t, 1, result.Stats.FilesErrored)
	assert.True(t, result.HasErrors())
}
