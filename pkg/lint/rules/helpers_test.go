package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/parser"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// ruleCase is the common shape of the table tests in this package.
type ruleCase struct {
	name      string
	path      string
	input     string
	wantDiags int
	wantFix   string
	options   map[string]any
	style     func(*config.StyleConfig)
}

func parseInput(t *testing.T, path, input string) *syntax.FileSnapshot {
	t.Helper()

	snapshot, err := parser.New().Parse(context.Background(), path, []byte(input))
	require.NoError(t, err)
	return snapshot
}

// runRule parses input and applies a single rule to it.
func runRule(t *testing.T, rule lint.Rule, tc ruleCase) []lint.Diagnostic {
	t.Helper()

	cfg := config.NewConfig()
	if tc.style != nil {
		tc.style(&cfg.Style)
	}
	var ruleCfg *config.RuleConfig
	if tc.options != nil {
		ruleCfg = &config.RuleConfig{Options: tc.options}
	}

	snapshot := parseInput(t, tc.path, tc.input)
	ruleCtx := lint.NewRuleContext(context.Background(), snapshot, cfg, ruleCfg)

	diags, err := rule.Apply(ruleCtx)
	require.NoError(t, err)
	for i := range diags {
		diags[i].RuleName = rule.Name()
		if diags[i].Severity == "" {
			diags[i].Severity = rule.DefaultSeverity()
		}
	}
	return diags
}

// applyDiagFixes applies the edits of every diagnostic at once.
func applyDiagFixes(t *testing.T, input string, diags []lint.Diagnostic) string {
	t.Helper()

	var edits []fix.TextEdit
	for _, d := range diags {
		edits = append(edits, d.FixEdits...)
	}
	prepared, err := fix.PrepareEdits(edits, len(input))
	require.NoError(t, err)
	return string(fix.ApplyEdits([]byte(input), prepared))
}

// checkRuleCases runs table cases for one rule: diagnostic count, fixed
// output and that the fixed output no longer triggers the rule.
func checkRuleCases(t *testing.T, rule lint.Rule, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rule, tt)
			require.Len(t, diags, tt.wantDiags)

			if tt.wantFix == "" {
				return
			}

			fixed := applyDiagFixes(t, tt.input, diags)
			require.Equal(t, tt.wantFix, fixed)

			again := tt
			again.input = fixed
			for _, d := range runRule(t, rule, again) {
				require.False(t, d.HasFix(), "fix should be idempotent, got %q", d.Message)
			}
		})
	}
}

// newTestPipeline returns a pipeline over every built-in rule.
func newTestPipeline() *lint.Pipeline {
	return lint.NewPipeline(lint.NewEngine(parser.New(), lint.DefaultRegistry))
}

func fixConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Fix = true
	return cfg
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.RuleID)
	}
	return ids
}
