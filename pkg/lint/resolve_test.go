package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

func noop(*lint.RuleContext) ([]lint.Diagnostic, error) { return nil, nil }

func testRegistry() *lint.Registry {
	registry := lint.NewRegistry()
	registry.Register(newFuncRule("XX001", true, noop))
	registry.Register(newFuncRule("XX002", false, noop, syntax.DialectHTML))
	registry.Register(newFuncRule("XX003", true, noop, syntax.DialectSCSS))
	return registry
}

func resolvedIDs(resolved []lint.ResolvedRule) []string {
	ids := make([]string, 0, len(resolved))
	for _, rr := range resolved {
		ids = append(ids, rr.Rule.ID())
	}
	return ids
}

func boolPtr(b bool) *bool { return &b }

func TestResolveRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(cfg *config.Config)
		want  []string
	}{
		{
			name:  "defaults in registration order",
			setup: func(*config.Config) {},
			want:  []string{"XX001", "XX002", "XX003"},
		},
		{
			name: "disabled via config",
			setup: func(cfg *config.Config) {
				cfg.Rules["XX002"] = config.RuleConfig{Enabled: boolPtr(false)}
			},
			want: []string{"XX001", "XX003"},
		},
		{
			name: "CLI disable by name wins over config",
			setup: func(cfg *config.Config) {
				cfg.Rules["XX001"] = config.RuleConfig{Enabled: boolPtr(true)}
				cfg.DisableRules = []string{"rule-XX001"}
			},
			want: []string{"XX002", "XX003"},
		},
		{
			name: "CLI enable wins over config",
			setup: func(cfg *config.Config) {
				cfg.Rules["XX003"] = config.RuleConfig{Enabled: boolPtr(false)}
				cfg.EnableRules = []string{"XX003"}
			},
			want: []string{"XX001", "XX002", "XX003"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.setup(cfg)
			assert.Equal(t, tt.want, resolvedIDs(lint.ResolveRules(testRegistry(), cfg)))
		})
	}
}

func TestResolveRules_NilConfig(t *testing.T) {
	t.Parallel()

	resolved := lint.ResolveRules(testRegistry(), nil)
	require.Len(t, resolved, 3)
	assert.True(t, resolved[0].AutoFix, "nil config keeps rule defaults")
}

func TestResolveRules_AutoFix(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	for _, rr := range lint.ResolveRules(testRegistry(), cfg) {
		assert.False(t, rr.AutoFix, "%s: no auto-fix without --fix", rr.Rule.ID())
	}

	cfg.Fix = true
	cfg.FixRules = []string{"XX003"}
	byID := map[string]bool{}
	for _, rr := range lint.ResolveRules(testRegistry(), cfg) {
		byID[rr.Rule.ID()] = rr.AutoFix
	}
	assert.Equal(t, map[string]bool{"XX001": false, "XX002": false, "XX003": true}, byID)
}

func TestResolveRules_SeverityOverride(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	sev := "info"
	cfg.Rules["XX001"] = config.RuleConfig{Severity: &sev}

	resolved := lint.ResolveRules(testRegistry(), cfg)
	require.NotEmpty(t, resolved)
	assert.Equal(t, config.SeverityInfo, resolved[0].Severity)
	assert.NotNil(t, resolved[0].Config)
}

func TestResolveRulesFor(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, []string{"XX001", "XX002"}, resolvedIDs(lint.ResolveRulesFor(testRegistry(), cfg, syntax.DialectHTML)))
	assert.Equal(t, []string{"XX001", "XX003"}, resolvedIDs(lint.ResolveRulesFor(testRegistry(), cfg, syntax.DialectSCSS)))
}

func TestAppliesTo(t *testing.T) {
	t.Parallel()

	all := newFuncRule("XX001", false, noop)
	html := newFuncRule("XX002", false, noop, syntax.DialectHTML)

	assert.True(t, lint.AppliesTo(all, syntax.DialectSCSS))
	assert.True(t, lint.AppliesTo(html, syntax.DialectHTML))
	assert.False(t, lint.AppliesTo(html, syntax.DialectSCSS))
	assert.Equal(t, []syntax.Dialect{syntax.DialectHTML, syntax.DialectSCSS}, lint.RuleDialects(all))
}
