package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

func TestRegisterAll(t *testing.T) {
	registry := lint.NewRegistry()
	RegisterAll(registry)

	ids := make([]string, 0, 15)
	for _, rule := range registry.Ordered() {
		ids = append(ids, rule.ID())
	}
	assert.Equal(t, []string{
		"ST001", "ST002", "ST003", "ST004", "ST005", "ST006",
		"HT001", "HT002", "HT003", "HT004", "HT005", "HT006",
		"SC001", "SC002", "SC003",
	}, ids)

	rule, ok := registry.GetByID("ST002")
	require.True(t, ok)
	assert.Equal(t, "indentation", rule.Name())
	assert.True(t, rule.CanFix())

	rule, ok = registry.GetByID("HT003")
	require.True(t, ok)
	assert.Equal(t, config.SeverityError, rule.DefaultSeverity())

	rule, ok = registry.GetByID("SC003")
	require.True(t, ok)
	assert.False(t, rule.DefaultEnabled())
	assert.Equal(t, config.SeverityInfo, rule.DefaultSeverity())
}

func TestRuleDialects(t *testing.T) {
	registry := lint.NewRegistry()
	RegisterAll(registry)

	tests := []struct {
		id   string
		html bool
		scss bool
	}{
		{"ST001", true, true},
		{"ST004", true, true},
		{"HT001", true, false},
		{"HT006", true, false},
		{"SC001", false, true},
		{"SC002", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			rule, ok := registry.GetByID(tt.id)
			require.True(t, ok)
			assert.Equal(t, tt.html, lint.AppliesTo(rule, syntax.DialectHTML))
			assert.Equal(t, tt.scss, lint.AppliesTo(rule, syntax.DialectSCSS))
		})
	}
}

func TestRegisterAliases(t *testing.T) {
	registry := lint.NewRegistry()
	RegisterAll(registry)
	RegisterAliases(registry)

	tests := []struct {
		name         string
		key          string
		expectID     string
		expectExists bool
	}{
		{name: "alias", key: "alt-require", expectID: "HT002", expectExists: true},
		{name: "canonical name", key: "declaration-order", expectID: "SC002", expectExists: true},
		{name: "id", key: "ST005", expectID: "ST005", expectExists: true},
		{name: "unknown", key: "nonexistent-alias", expectExists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, _, ok := registry.Resolve(tt.key)
			if !tt.expectExists {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.expectID, id)
		})
	}
}

func TestDefaultRegistryHasAllRules(t *testing.T) {
	assert.Len(t, lint.DefaultRegistry.Rules(), 15)

	id, _, ok := lint.DefaultRegistry.Resolve("max-nesting-depth")
	require.True(t, ok)
	assert.Equal(t, "SC001", id)
}

func TestRuleInfos(t *testing.T) {
	require.NotNil(t, config.DefaultRuleInfoProvider)

	infos := config.DefaultRuleInfoProvider()
	require.Len(t, infos, 15)

	assert.Equal(t, "ST001", infos[0].ID)
	assert.Equal(t, []string{"html", "scss"}, infos[0].Dialects)
	assert.Equal(t, []string{"html"}, infos[6].Dialects)
	assert.Equal(t, "SC003", infos[14].ID)
	assert.False(t, infos[14].Enabled)
}
