package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// Template formats.
const (
	TemplateYAML = "yaml"
	TemplateTOML = "toml"
	TemplateJSON = "json"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full includes all rules with their documentation.
	// If false, generates a minimal template.
	Full bool

	// Format is the output format: "yaml", "toml" or "json".
	Format string

	// IncludeRules is a list of rule IDs to include.
	// If empty, all rules are included.
	IncludeRules []string
}

// RuleInfo contains rule metadata for template generation.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Dialects    []string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider is a function that returns rule information.
// This allows decoupling from the lint package to avoid circular imports.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case TemplateJSON:
		return templateToJSON(opts)
	case TemplateTOML:
		return templateToTOML(opts)
	case "", TemplateYAML:
		if opts.Full {
			return generateFullTemplate(opts), nil
		}
		return generateMinimalTemplate(), nil
	default:
		return nil, fmt.Errorf("%w: unknown template format %q", ErrInvalidConfig, opts.Format)
	}
}

// generateMinimalTemplate creates a minimal commented template.
func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	writeStyleSection(&buf)
	buf.WriteString(`
# Default severity for rules without one: error, warning, or info
# severity_default: warning

# File patterns to ignore (glob patterns)
# ignore:
#   - "dist/**"
#   - "node_modules/**"

# Rule-specific configuration (keys may be IDs or names)
# rules:
#   HT006:
#     enabled: false
#   ST004:
#     options:
#       pattern: "^[a-z][a-z0-9-]*$"
`)

	return buf.Bytes()
}

func writeStyleSection(buf *bytes.Buffer) {
	style := DefaultStyle()

	buf.WriteString("style:\n")
	buf.WriteString("  # Spaces per nesting level\n")
	fmt.Fprintf(buf, "  indent_width: %d\n", style.IndentWidth)
	buf.WriteString("  # Only \"spaces\" is supported\n")
	fmt.Fprintf(buf, "  indent_style: %s\n", style.IndentStyle)
	buf.WriteString("  # Quote character: double or single\n")
	fmt.Fprintf(buf, "  quote_style: %s\n", style.QuoteStyle)
	buf.WriteString("  # Deepest allowed SCSS selector nesting\n")
	fmt.Fprintf(buf, "  max_nesting_depth: %d\n", style.MaxNestingDepth)
	buf.WriteString("  # HTML attribute categories; \"prefix*\" matches a prefix, \"other\" the rest\n")
	fmt.Fprintf(buf, "  attribute_order: [%s]\n", strings.Join(style.AttributeOrder, ", "))
	buf.WriteString("  # SCSS block item categories\n")
	fmt.Fprintf(buf, "  declaration_order: [%s]\n", strings.Join(style.DeclarationOrder, ", "))
}

// generateFullTemplate creates a full template with all rules documented.
func generateFullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`
#
# This template includes all available rules with their default settings.

`)
	writeStyleSection(&buf)
	buf.WriteString(`
severity_default: warning

ignore:
  - "node_modules/**"
  - "dist/**"

# Sidecar backups (.gostyle.bak) written before fixing
backups:
  enabled: false
  mode: sidecar

# Lint result cache
cache:
  enabled: false

rules:
`)

	for _, rule := range selectedRules(opts) {
		fmt.Fprintf(&buf, "\n  # %s: %s\n", rule.ID, rule.Name)
		fmt.Fprintf(&buf, "  # %s\n", wrapComment(rule.Description, commentWrapWidth))
		if len(rule.Dialects) > 0 {
			fmt.Fprintf(&buf, "  # Dialects: %s\n", strings.Join(rule.Dialects, ", "))
		}
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n", rule.ID)
		fmt.Fprintf(&buf, "    enabled: %t\n", rule.Enabled)
		fmt.Fprintf(&buf, "    severity: %s\n", rule.Severity)
	}

	return buf.Bytes()
}

// selectedRules returns registered rules filtered by opts, sorted by ID.
func selectedRules(opts TemplateOptions) []RuleInfo {
	rules := getRuleInfos()

	if len(opts.IncludeRules) > 0 {
		includeSet := make(map[string]bool)
		for _, id := range opts.IncludeRules {
			includeSet[id] = true
		}
		filtered := make([]RuleInfo, 0)
		for _, r := range rules {
			if includeSet[r.ID] {
				filtered = append(filtered, r)
			}
		}
		rules = filtered
	}

	sort.Slice(rules, func(i, j int) bool {
		return rules[i].ID < rules[j].ID
	})

	return rules
}

// getRuleInfos returns information about all registered rules.
func getRuleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}
	return nil
}

// templateConfig builds the config serialized by the TOML and JSON templates.
func templateConfig(opts TemplateOptions) *Config {
	cfg := NewConfig()
	if !opts.Full {
		return cfg
	}

	cfg.Ignore = []string{"node_modules/**", "dist/**"}
	for _, r := range selectedRules(opts) {
		enabled := r.Enabled
		severity := string(r.Severity)
		cfg.Rules[r.ID] = RuleConfig{Enabled: &enabled, Severity: &severity}
	}
	return cfg
}

// templateToJSON renders the template config as JSON.
func templateToJSON(opts TemplateOptions) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(templateConfig(opts), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(jsonBytes, '\n'), nil
}

// templateToTOML renders the template config as TOML with a header.
func templateToTOML(opts TemplateOptions) ([]byte, error) {
	body, err := templateConfig(opts).ToTOML()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// wrapComment wraps a comment to fit within maxWidth characters.
func wrapComment(text string, maxWidth int) string {
	if len(text) <= maxWidth {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		switch {
		case currentLine == "":
			currentLine = word
		case len(currentLine)+1+len(word) <= maxWidth:
			currentLine += " " + word
		default:
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n  # ")
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# gostyle configuration
# See: https://github.com/yaklabco/gostyle`
}
