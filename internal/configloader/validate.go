package configloader

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "style.indent_width").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	if e.Field != "" {
		parts = append(parts, e.Field)
	}

	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// Is reports every validation error as config.ErrInvalidConfig.
func (e *ValidationError) Is(target error) bool {
	return target == config.ErrInvalidConfig
}

// Unwrap returns the underlying cause.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues (e.g., unknown rules).
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf(format, args...),
	})
}

// knownFormats lists valid output format values.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatTable:   true,
	config.FormatJSON:    true,
	config.FormatSARIF:   true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

// structValidator is shared; validator.Validate caches struct metadata.
//
//nolint:gochecknoglobals // Validator instances are designed to be shared.
var (
	structValidator     *validator.Validate
	structValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	structValidatorOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(fieldName)
	})
	return structValidator
}

// fieldName reports fields by their YAML key, falling back to the Go name
// for CLI-only fields.
func fieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}

// Validate checks a configuration against the default registry.
func Validate(cfg *config.Config) *ValidationResult {
	return ValidateWithRegistry(cfg, lint.DefaultRegistry)
}

// ValidateWithRegistry checks a configuration for errors and warnings.
func ValidateWithRegistry(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateStruct(cfg, result)

	// Fields the struct tags allow to be empty must be set after merging.
	if cfg.Style.IndentWidth <= 0 {
		result.addError("style.indent_width", cfg.Style.IndentWidth, "indent width must be positive")
	}
	if cfg.Style.MaxNestingDepth <= 0 {
		result.addError("style.max_nesting_depth", cfg.Style.MaxNestingDepth, "max nesting depth must be positive")
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.addError("format", cfg.Format,
			"invalid format %q; must be one of: text, table, json, sarif, diff, summary", cfg.Format)
	}

	validateAttributeOrder(cfg.Style.AttributeOrder, result)
	validateDeclarationOrder(cfg.Style.DeclarationOrder, result)
	validateRules(cfg, registry, result)
	validateIgnorePatterns(cfg, result)

	return result
}

// validateStruct applies the struct-tag constraints.
func validateStruct(cfg *config.Config, result *ValidationResult) {
	err := getValidator().Struct(cfg)
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.addError("", nil, "%v", err)
		return
	}

	for _, fe := range fieldErrs {
		result.addError(fieldPath(fe.Namespace()), fe.Value(), "failed %q constraint%s", fe.Tag(), paramSuffix(fe.Param()))
	}
}

// fieldPath strips the root type name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return " (" + param + ")"
}

// validateAttributeOrder rejects malformed attribute categories.
func validateAttributeOrder(order []string, result *ValidationResult) {
	validateUniqueOrder("style.attribute_order", order, result)
	for i, entry := range order {
		star := strings.Index(entry, "*")
		if star >= 0 && star != len(entry)-1 {
			result.addError(fmt.Sprintf("style.attribute_order[%d]", i), entry,
				"wildcard is only allowed as a trailing prefix pattern")
		}
		if entry == "*" {
			result.addError(fmt.Sprintf("style.attribute_order[%d]", i), entry,
				"use \"other\" instead of a bare wildcard")
		}
	}
}

// validateDeclarationOrder requires every entry to be a known category.
func validateDeclarationOrder(order []string, result *ValidationResult) {
	validateUniqueOrder("style.declaration_order", order, result)
	for i, entry := range order {
		if _, err := syntax.ParseDeclCategory(entry); err != nil {
			result.addError(fmt.Sprintf("style.declaration_order[%d]", i), entry,
				"unknown category %q; must be one of: %s", entry, strings.Join(config.DefaultDeclarationOrder(), ", "))
		}
	}
}

// validateUniqueOrder rejects an entry listed twice, which would give it two
// ranks.
func validateUniqueOrder(field string, order []string, result *ValidationResult) {
	seen := make(map[string]int, len(order))
	for i, entry := range order {
		key := strings.ToLower(entry)
		if first, dup := seen[key]; dup {
			result.addError(fmt.Sprintf("%s[%d]", field, i), entry,
				"duplicates %s[%d]", field, first)
			continue
		}
		seen[key] = i
	}
}

// validateRules checks rule configurations for errors and warnings.
func validateRules(cfg *config.Config, registry *lint.Registry, result *ValidationResult) {
	for ruleID, ruleCfg := range cfg.Rules {
		rule, exists := registry.Get(ruleID)
		if !exists {
			result.Warnings = append(result.Warnings, ValidationError{
				Field:   "rules." + ruleID,
				Value:   ruleID,
				Message: fmt.Sprintf("unknown rule %q; it will be ignored", ruleID),
			})
			continue
		}

		if ruleCfg.Severity != nil && !config.Severity(*ruleCfg.Severity).IsValid() {
			result.addError("rules."+ruleID+".severity", *ruleCfg.Severity,
				"invalid severity %q; must be one of: error, warning, info", *ruleCfg.Severity)
		}

		if v, ok := rule.(lint.OptionsValidator); ok && len(ruleCfg.Options) > 0 {
			if err := v.ValidateOptions(ruleCfg.Options); err != nil {
				result.Errors = append(result.Errors, ValidationError{
					Field:   "rules." + ruleID + ".options",
					Message: err.Error(),
					Err:     err,
				})
			}
		}
	}

	for _, id := range append(append([]string{}, cfg.EnableRules...), cfg.DisableRules...) {
		if _, _, found := registry.Resolve(id); !found {
			result.addError("rules", id, "unknown rule %q", id)
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// validateLayer rejects explicit values that merging would otherwise hide.
func validateLayer(l *layer) *ValidationError {
	checks := []struct {
		key   string
		value int
	}{
		{"style.indent_width", l.cfg.Style.IndentWidth},
		{"style.max_nesting_depth", l.cfg.Style.MaxNestingDepth},
	}

	for _, c := range checks {
		if l.defined(c.key) && c.value <= 0 {
			return &ValidationError{
				Field:    c.key,
				Value:    c.value,
				FilePath: l.path,
				Message:  fmt.Sprintf("must be positive, got %d", c.value),
			}
		}
	}

	return nil
}

// validateCLI checks flag values before they are merged.
func validateCLI(cfg *config.Config) *ValidationError {
	if cfg.Style.IndentWidth < 0 {
		return &ValidationError{
			Field:   "--indent-width",
			Value:   cfg.Style.IndentWidth,
			Message: "must be positive",
		}
	}
	if cfg.Jobs < 0 {
		return &ValidationError{Field: "--jobs", Value: cfg.Jobs, Message: "must be >= 0 (0 means auto)"}
	}
	return nil
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}
