package lint

import (
	"context"
	"fmt"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// FileResult is one lint of one snapshot.
type FileResult struct {
	Snapshot *syntax.FileSnapshot

	// Diagnostics are sorted by position and deduplicated.
	Diagnostics []Diagnostic

	// Edits is a sorted, overlap-free selection of fixes ready for
	// fix.ApplyEdits. It stays empty unless fixing was requested.
	Edits []fix.TextEdit

	// FixGroups are the accepted per-diagnostic groups that make up Edits.
	// A group lands whole or not at all.
	FixGroups []fix.EditGroup

	// SkippedEdits lost a conflict with an earlier group; a later pass
	// may pick them up. EditConflicts is true when there are any.
	SkippedEdits  []fix.TextEdit
	EditConflicts bool

	// FixedRules are the rules owning a group in FixGroups, in
	// registration order.
	FixedRules []string

	// RuleErrors maps rule ID to an internal failure of that rule.
	RuleErrors map[string]error
}

func (fr *FileResult) HasIssues() bool { return len(fr.Diagnostics) > 0 }
func (fr *FileResult) HasFixes() bool  { return len(fr.Edits) > 0 }
func (fr *FileResult) IssueCount() int { return len(fr.Diagnostics) }

// FixableCount counts findings that still carry edits.
func (fr *FileResult) FixableCount() int {
	n := 0
	for i := range fr.Diagnostics {
		if fr.Diagnostics[i].HasFix() {
			n++
		}
	}
	return n
}

// SyntaxErrorCount is the number of parser recoveries in the snapshot.
func (fr *FileResult) SyntaxErrorCount() int {
	if fr.Snapshot == nil {
		return 0
	}
	return len(fr.Snapshot.SyntaxErrors)
}

// Engine parses files and runs the resolved rules over them.
type Engine struct {
	Parser   Parser
	Registry *Registry
}

func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{Parser: parser, Registry: registry}
}

// LintFile parses content as path and lints it. Parse errors are only
// returned for unsupported input; malformed markup is recovered and
// reported by ST001.
func (e *Engine) LintFile(ctx context.Context, path string, content []byte, cfg *config.Config) (*FileResult, error) {
	snapshot, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return e.lintSnapshot(ctx, snapshot, cfg, nil)
}

// LintSnapshot lints an already parsed file.
func (e *Engine) LintSnapshot(ctx context.Context, snapshot *syntax.FileSnapshot, cfg *config.Config) (*FileResult, error) {
	return e.lintSnapshot(ctx, snapshot, cfg, nil)
}

// lintSnapshot runs the rules applying to the snapshot's dialect.
// Rules in excluded keep their diagnostics but never propose edits; their
// fixable diagnostics are marked unfixable.
func (e *Engine) lintSnapshot(
	ctx context.Context,
	snapshot *syntax.FileSnapshot,
	cfg *config.Config,
	excluded map[string]bool,
) (*FileResult, error) {
	resolved := ResolveRulesFor(e.Registry, cfg, snapshot.Dialect)

	result := &FileResult{
		Snapshot:   snapshot,
		RuleErrors: make(map[string]error),
	}

	autoFix := make(map[string]bool, len(resolved))

	// Rules share one node cache per file.
	nodes := NewNodeCache(snapshot.Root)

	for _, rr := range resolved {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("linting cancelled: %w", ctx.Err())
		default:
		}

		ruleCtx := NewRuleContext(ctx, snapshot, cfg, rr.Config)
		ruleCtx.nodes = nodes

		diags, err := rr.Rule.Apply(ruleCtx)
		if err != nil {
			result.RuleErrors[rr.Rule.ID()] = err
			continue
		}

		id := rr.Rule.ID()
		autoFix[id] = rr.AutoFix && !excluded[id]

		for i := range diags {
			diags[i].Severity = rr.Severity
			if diags[i].FilePath == "" {
				diags[i].FilePath = snapshot.Path
			}
			if diags[i].RuleName == "" {
				diags[i].RuleName = rr.Rule.Name()
			}
			if diags[i].Unfixable || (excluded[id] && diags[i].HasFix()) {
				diags[i].MarkUnfixable()
			}
		}

		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	SortDiagnostics(result.Diagnostics, e.Registry.Order)
	result.Diagnostics = DedupDiagnostics(result.Diagnostics)

	e.prepareEdits(result, autoFix, len(snapshot.Content))

	return result, nil
}

// prepareEdits turns the fixes of auto-fixable diagnostics into one edit
// group each and selects a conflict-free subset.
func (e *Engine) prepareEdits(result *FileResult, autoFix map[string]bool, contentLen int) {
	var groups []fix.EditGroup
	for _, d := range result.Diagnostics {
		if autoFix[d.RuleID] && d.HasFix() {
			groups = append(groups, fix.EditGroup{Owner: d.RuleID, Edits: d.FixEdits})
		}
	}
	if len(groups) == 0 {
		return
	}

	accepted, acceptedGroups, skippedGroups := fix.PrepareGroups(groups, contentLen)
	result.Edits = accepted
	result.FixGroups = acceptedGroups

	fixed := make(map[string]bool)
	for _, g := range acceptedGroups {
		fixed[g.Owner] = true
	}
	for _, rule := range e.Registry.Ordered() {
		if fixed[rule.ID()] {
			result.FixedRules = append(result.FixedRules, rule.ID())
		}
	}

	for _, g := range skippedGroups {
		result.SkippedEdits = append(result.SkippedEdits, g.Edits...)
	}
	result.EditConflicts = len(skippedGroups) > 0
}
