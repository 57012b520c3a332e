package syntax

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect selects the scanner, parser and rule set used for a file.
type Dialect uint8

const (
	DialectUnknown Dialect = iota
	DialectHTML
	DialectSCSS
)

func (d Dialect) String() string {
	switch d {
	case DialectHTML:
		return "html"
	case DialectSCSS:
		return "scss"
	default:
		return "unknown"
	}
}

// ParseDialect converts a dialect name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html", "htm":
		return DialectHTML, nil
	case "scss", "css":
		return DialectSCSS, nil
	default:
		return DialectUnknown, fmt.Errorf("unknown dialect %q", name)
	}
}

// DialectFromPath classifies a file by extension.
// Plain CSS is parsed with the SCSS parser, which accepts a superset of CSS.
func DialectFromPath(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return DialectHTML
	case ".scss", ".css":
		return DialectSCSS
	default:
		return DialectUnknown
	}
}
