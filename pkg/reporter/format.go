package reporter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
)

// Format is an output format name. It is the same type the configuration
// carries, so a resolved config can be passed straight through.
type Format = config.OutputFormat

// Output formats supported by New.
const (
	FormatText    = config.FormatText
	FormatTable   = config.FormatTable
	FormatJSON    = config.FormatJSON
	FormatSARIF   = config.FormatSARIF
	FormatDiff    = config.FormatDiff
	FormatSummary = config.FormatSummary
)

var formats = []Format{FormatText, FormatTable, FormatJSON, FormatSARIF, FormatDiff, FormatSummary}

// Formats returns the supported format names in display order.
func Formats() []string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// IsValidFormat reports whether f is a supported format.
func IsValidFormat(f Format) bool {
	return slices.Contains(formats, f)
}

// ParseFormat parses a case-insensitive format name. Empty means text.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatText, nil
	}
	if f := Format(name); IsValidFormat(f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", name, strings.Join(Formats(), ", "))
}
