// Package config defines core configuration types for gostyle.
// These types are pure data structures; loading and layering live in
// internal/configloader.
package config

import (
	"errors"
	"slices"
)

// ErrInvalidConfig is returned when a configuration value is rejected.
var ErrInvalidConfig = errors.New("invalid configuration")

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities: error > warning > info. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	return s.Rank() > 0
}

// AtLeast reports whether s is as severe as threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `mapstructure:"enabled" yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty"`
	Severity *string        `mapstructure:"severity" yaml:"severity,omitempty" toml:"severity,omitempty" json:"severity,omitempty"`
	AutoFix  *bool          `mapstructure:"auto_fix" yaml:"auto_fix,omitempty" toml:"auto_fix,omitempty" json:"auto_fix,omitempty"`
	Options  map[string]any `mapstructure:"options" yaml:"options,omitempty" toml:"options,omitempty" json:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode" toml:"mode" json:"mode" validate:"omitempty,oneof=sidecar"`
}

// IndentStyle selects the indentation character.
type IndentStyle string

// IndentSpaces is the only supported indentation style.
const IndentSpaces IndentStyle = "spaces"

// QuoteStyle selects the quote character for attribute values and strings.
type QuoteStyle string

const (
	QuoteDouble QuoteStyle = "double"
	QuoteSingle QuoteStyle = "single"
)

// Char returns the quote byte for the style. Unknown styles use '"'.
func (q QuoteStyle) Char() byte {
	if q == QuoteSingle {
		return '\''
	}
	return '"'
}

// Default style values.
const (
	DefaultIndentWidth     = 4
	DefaultMaxNestingDepth = 3
	DefaultMaxFixPasses    = 10
)

// DefaultAttributeOrder is the default HTML attribute category order.
// Entries ending in "*" are prefix patterns; "other" matches everything else.
func DefaultAttributeOrder() []string {
	return []string{"class", "id", "data-*", "other"}
}

// DefaultDeclarationOrder is the default SCSS block item order.
func DefaultDeclarationOrder() []string {
	return []string{"variable", "extend", "include", "property", "include-block", "modifier", "child"}
}

// StyleConfig holds the style guide parameters shared by all rules.
type StyleConfig struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int `mapstructure:"indent_width" yaml:"indent_width,omitempty" toml:"indent_width,omitempty" json:"indent_width,omitempty" validate:"omitempty,gte=1,lte=16"`

	// IndentStyle must be "spaces".
	IndentStyle IndentStyle `mapstructure:"indent_style" yaml:"indent_style,omitempty" toml:"indent_style,omitempty" json:"indent_style,omitempty" validate:"omitempty,oneof=spaces"`

	// QuoteStyle is "double" or "single".
	QuoteStyle QuoteStyle `mapstructure:"quote_style" yaml:"quote_style,omitempty" toml:"quote_style,omitempty" json:"quote_style,omitempty" validate:"omitempty,oneof=double single"`

	// MaxNestingDepth bounds SCSS selector nesting.
	MaxNestingDepth int `mapstructure:"max_nesting_depth" yaml:"max_nesting_depth,omitempty" toml:"max_nesting_depth,omitempty" json:"max_nesting_depth,omitempty" validate:"omitempty,gte=1,lte=32"`

	// AttributeOrder lists HTML attribute categories in required order.
	AttributeOrder []string `mapstructure:"attribute_order" yaml:"attribute_order,omitempty" toml:"attribute_order,omitempty" json:"attribute_order,omitempty" validate:"omitempty,unique,dive,required"`

	// DeclarationOrder lists SCSS block item categories in required order.
	DeclarationOrder []string `mapstructure:"declaration_order" yaml:"declaration_order,omitempty" toml:"declaration_order,omitempty" json:"declaration_order,omitempty" validate:"omitempty,unique,dive,required"`
}

// DefaultStyle returns the default style guide parameters.
func DefaultStyle() StyleConfig {
	return StyleConfig{
		IndentWidth:      DefaultIndentWidth,
		IndentStyle:      IndentSpaces,
		QuoteStyle:       QuoteDouble,
		MaxNestingDepth:  DefaultMaxNestingDepth,
		AttributeOrder:   DefaultAttributeOrder(),
		DeclarationOrder: DefaultDeclarationOrder(),
	}
}

// clone returns a deep copy of the style.
func (s StyleConfig) clone() StyleConfig {
	out := s
	out.AttributeOrder = slices.Clone(s.AttributeOrder)
	out.DeclarationOrder = slices.Clone(s.DeclarationOrder)
	return out
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// CacheConfig controls the lint result cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir,omitempty" toml:"dir,omitempty" json:"dir,omitempty"`
}

// Config is the root configuration structure for gostyle.
type Config struct {
	// Style holds the style guide parameters.
	Style StyleConfig `mapstructure:"style" yaml:"style" toml:"style" json:"style"`

	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `mapstructure:"severity_default" yaml:"severity_default,omitempty" toml:"severity_default,omitempty" json:"severity_default,omitempty" validate:"omitempty,oneof=error warning info"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `mapstructure:"rules" yaml:"rules,omitempty" toml:"rules,omitempty" json:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" toml:"ignore,omitempty" json:"ignore,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `mapstructure:"backups" yaml:"backups" toml:"backups" json:"backups"`

	// Cache configures the lint result cache.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache" toml:"cache" json:"cache"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-" toml:"-" json:"-" validate:"gte=0"`

	// MaxFixPasses bounds the fix loop; 0 means the default.
	MaxFixPasses int `mapstructure:"-" yaml:"-" toml:"-" json:"-" validate:"gte=0"`

	// FailOn is the lowest severity that makes a run unclean.
	FailOn Severity `mapstructure:"-" yaml:"-" toml:"-" json:"-" validate:"omitempty,oneof=error warning info"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `mapstructure:"-" yaml:"-" toml:"-" json:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `mapstructure:"-" yaml:"-" toml:"-" json:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Style:           DefaultStyle(),
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Ignore:          nil,
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatID,
		Jobs:       0, // 0 means runtime.NumCPU()
		FailOn:     SeverityWarning,
	}
}

// FixPasses returns the effective fix pass bound.
func (c *Config) FixPasses() int {
	if c == nil || c.MaxFixPasses <= 0 {
		return DefaultMaxFixPasses
	}
	return c.MaxFixPasses
}
