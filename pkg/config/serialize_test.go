package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var c *config.Config
		clone := c.Clone()
		assert.Nil(t, clone)
	})

	t.Run("empty config", func(t *testing.T) {
		c := &config.Config{}
		clone := c.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, c, clone)
	})

	t.Run("deep copies Rules map", func(t *testing.T) {
		enabled := true
		severity := "error"
		original := &config.Config{
			Rules: map[string]config.RuleConfig{
				"ST004": {
					Enabled:  &enabled,
					Severity: &severity,
					Options: map[string]any{
						"pattern": "^[a-z]+$",
					},
				},
			},
		}

		clone := original.Clone()
		require.NotNil(t, clone)

		require.Contains(t, clone.Rules, "ST004")
		assert.True(t, *clone.Rules["ST004"].Enabled)
		assert.Equal(t, "error", *clone.Rules["ST004"].Severity)

		newSeverity := "warning"
		clone.Rules["ST004"] = config.RuleConfig{Severity: &newSeverity}
		assert.Equal(t, "error", *original.Rules["ST004"].Severity)
	})

	t.Run("deep copies style orders", func(t *testing.T) {
		original := config.NewConfig()

		clone := original.Clone()
		require.NotNil(t, clone)

		clone.Style.AttributeOrder[0] = "changed"
		clone.Style.DeclarationOrder[0] = "changed"
		assert.Equal(t, "class", original.Style.AttributeOrder[0])
		assert.Equal(t, "variable", original.Style.DeclarationOrder[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		original := config.NewConfig()
		original.Fix = true
		original.DryRun = true
		original.Format = config.FormatJSON
		original.RuleFormat = config.RuleFormatCombined
		original.Jobs = 4
		original.MaxFixPasses = 3
		original.FailOn = config.SeverityError
		original.EnableRules = []string{"SC003"}
		original.DisableRules = []string{"HT006"}
		original.FixRules = []string{"ST002"}
		original.NoBackups = true

		clone := original.Clone()
		require.NotNil(t, clone)

		assert.Equal(t, original.Style, clone.Style)
		assert.Equal(t, original.Fix, clone.Fix)
		assert.Equal(t, original.DryRun, clone.DryRun)
		assert.Equal(t, original.Format, clone.Format)
		assert.Equal(t, original.RuleFormat, clone.RuleFormat)
		assert.Equal(t, original.Jobs, clone.Jobs)
		assert.Equal(t, original.MaxFixPasses, clone.MaxFixPasses)
		assert.Equal(t, original.FailOn, clone.FailOn)
		assert.Equal(t, original.EnableRules, clone.EnableRules)
		assert.Equal(t, original.DisableRules, clone.DisableRules)
		assert.Equal(t, original.FixRules, clone.FixRules)
		assert.True(t, clone.NoBackups)
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Run("nil config returns nil", func(t *testing.T) {
		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("style serializes", func(t *testing.T) {
		cfg := config.NewConfig()

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "indent_width: 4")
		assert.Contains(t, string(data), "quote_style: double")
		assert.Contains(t, string(data), "severity_default: warning")
	})
}

func TestFromYAML(t *testing.T) {
	t.Run("parses valid YAML", func(t *testing.T) {
		yaml := []byte(`
style:
  indent_width: 2
  quote_style: single
severity_default: error
rules:
  HT002:
    enabled: false
`)
		cfg, err := config.FromYAML(yaml)
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Style.IndentWidth)
		assert.Equal(t, config.QuoteSingle, cfg.Style.QuoteStyle)
		assert.Equal(t, "error", cfg.SeverityDefault)
		require.Contains(t, cfg.Rules, "HT002")
		assert.False(t, *cfg.Rules["HT002"].Enabled)
	})

	t.Run("initializes empty Rules map", func(t *testing.T) {
		cfg, err := config.FromYAML([]byte(`severity_default: info`))
		require.NoError(t, err)
		assert.NotNil(t, cfg.Rules)
	})
}

func TestTOMLRoundTrip(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Style.IndentWidth = 2
	cfg.Ignore = []string{"dist/**"}

	data, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "indent_width = 2")

	parsed, meta, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.True(t, meta.IsDefined("style", "indent_width"))
	assert.Equal(t, cfg.Style, parsed.Style)
	assert.Equal(t, cfg.Ignore, parsed.Ignore)
}

func TestFromTOML_UnknownKey(t *testing.T) {
	_, _, err := config.FromTOML([]byte("[style]\nindent_wdth = 2\n"))
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSeverity(t *testing.T) {
	assert.True(t, config.SeverityError.AtLeast(config.SeverityWarning))
	assert.True(t, config.SeverityWarning.AtLeast(config.SeverityWarning))
	assert.False(t, config.SeverityInfo.AtLeast(config.SeverityWarning))
	assert.False(t, config.Severity("fatal").IsValid())
}

func TestQuoteStyleChar(t *testing.T) {
	assert.Equal(t, byte('"'), config.QuoteDouble.Char())
	assert.Equal(t, byte('\''), config.QuoteSingle.Char())
}

func TestFixPasses(t *testing.T) {
	cfg := config.NewConfig()
	assert.Equal(t, config.DefaultMaxFixPasses, cfg.FixPasses())
	cfg.MaxFixPasses = 2
	assert.Equal(t, 2, cfg.FixPasses())
}
