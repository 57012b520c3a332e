package configloader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
)

const envPrefix = "GOSTYLE_"

var (
	errNotBool     = errors.New("want true or false")
	errNotInt      = errors.New("want an integer")
	errNotPositive = errors.New("must be positive")
	errNegative    = errors.New("must not be negative")
)

// EnvVar documents one environment override.
type EnvVar struct {
	Name        string
	Field       string
	Description string

	apply func(cfg *config.Config, raw string) error
}

func setString[T ~string](field func(*config.Config) *T) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		*field(cfg) = T(raw)
		return nil
	}
}

func setBool(field func(*config.Config) *bool) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return errNotBool
		}
		*field(cfg) = b
		return nil
	}
}

// setInt parses an integer; min is the smallest accepted value (0 or 1).
func setInt(minimum int, field func(*config.Config) *int) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			return errNotInt
		case n < minimum && minimum == 1:
			return errNotPositive
		case n < minimum:
			return errNegative
		}
		*field(cfg) = n
		return nil
	}
}

// setList splits on commas and drops empty items.
func setList(field func(*config.Config) *[]string) func(*config.Config, string) error {
	return func(cfg *config.Config, raw string) error {
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		*field(cfg) = items
		return nil
	}
}

// envVars lists every override in the order they are applied.
//
//nolint:gochecknoglobals // read-only table
var envVars = []EnvVar{
	{"INDENT_WIDTH", "style.indent_width", "Spaces per nesting level",
		setInt(1, func(c *config.Config) *int { return &c.Style.IndentWidth })},
	{"INDENT_STYLE", "style.indent_style", "Indentation character: spaces",
		setString(func(c *config.Config) *config.IndentStyle { return &c.Style.IndentStyle })},
	{"QUOTE_STYLE", "style.quote_style", "Quote character: double or single",
		setString(func(c *config.Config) *config.QuoteStyle { return &c.Style.QuoteStyle })},
	{"MAX_NESTING_DEPTH", "style.max_nesting_depth", "Deepest allowed SCSS selector nesting",
		setInt(1, func(c *config.Config) *int { return &c.Style.MaxNestingDepth })},
	{"ATTRIBUTE_ORDER", "style.attribute_order", "Comma-separated HTML attribute categories",
		setList(func(c *config.Config) *[]string { return &c.Style.AttributeOrder })},
	{"DECLARATION_ORDER", "style.declaration_order", "Comma-separated SCSS block item categories",
		setList(func(c *config.Config) *[]string { return &c.Style.DeclarationOrder })},
	{"SEVERITY_DEFAULT", "severity_default", "Severity for rules without one: error, warning or info",
		setString(func(c *config.Config) *string { return &c.SeverityDefault })},
	{"IGNORE", "ignore", "Comma-separated glob patterns to skip",
		setList(func(c *config.Config) *[]string { return &c.Ignore })},
	{"BACKUPS_ENABLED", "backups.enabled", "Keep a .gostyle.bak copy when fixing",
		setBool(func(c *config.Config) *bool { return &c.Backups.Enabled })},
	{"CACHE", "cache.enabled", "Reuse results for unchanged files",
		setBool(func(c *config.Config) *bool { return &c.Cache.Enabled })},
	{"CACHE_DIR", "cache.dir", "Result cache directory",
		setString(func(c *config.Config) *string { return &c.Cache.Dir })},
	{"FIX", "fix", "Apply fixes",
		setBool(func(c *config.Config) *bool { return &c.Fix })},
	{"DRY_RUN", "dry_run", "Preview fixes without writing",
		setBool(func(c *config.Config) *bool { return &c.DryRun })},
	{"JOBS", "jobs", "Parallel workers, 0 for one per CPU",
		setInt(0, func(c *config.Config) *int { return &c.Jobs })},
	{"FORMAT", "format", "Output format: text, table, json, sarif, diff or summary",
		setString(func(c *config.Config) *config.OutputFormat { return &c.Format })},
	{"FAIL_ON", "fail_on", "Lowest severity that fails the run",
		setString(func(c *config.Config) *config.Severity { return &c.FailOn })},
}

// EnvVars returns the supported overrides with their full names.
func EnvVars() []EnvVar {
	out := make([]EnvVar, len(envVars))
	for i, v := range envVars {
		v.Name = envPrefix + v.Name
		out[i] = v
	}
	return out
}

// LoadFromEnv applies GOSTYLE_* overrides from the process environment.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromLookup(cfg, os.LookupEnv)
}

// loadFromLookup applies every non-empty override found by lookup. The
// first bad value stops loading with an error wrapping ErrInvalidConfig.
func loadFromLookup(cfg *config.Config, lookup func(string) (string, bool)) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		name := envPrefix + v.Name
		raw, ok := lookup(name)
		if !ok || raw == "" {
			continue
		}
		if err := v.apply(cfg, strings.TrimSpace(raw)); err != nil {
			return fmt.Errorf("%w: %s=%q: %w", config.ErrInvalidConfig, name, raw, err)
		}
	}
	return nil
}
