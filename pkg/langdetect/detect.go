// Package langdetect classifies source files into the markup dialects the
// linter understands. It uses go-enry for extension lookup, vendored-path
// detection and, for files without a telling extension, content
// classification.
package langdetect

import (
	"bytes"

	"github.com/go-enry/go-enry/v2"

	"github.com/yaklabco/gostyle/pkg/syntax"
)

// go-enry language names.
const (
	enryHTML = "HTML"
	enrySCSS = "SCSS"
	enryCSS  = "CSS"
)

// DetectDialect returns the dialect of a file from its path and content.
// Returns syntax.DialectUnknown for anything that is neither HTML nor
// SCSS/CSS, including indented .sass files.
func DetectDialect(path string, content []byte) syntax.Dialect {
	// Strategy 1: the extension, which is authoritative when go-enry is sure.
	if lang, safe := enry.GetLanguageByExtension(path); safe && lang != "" {
		return fromEnry(lang)
	}

	// Strategy 2: our own path mapping (covers .xhtml and friends).
	if dialect := syntax.DialectFromPath(path); dialect != syntax.DialectUnknown {
		return dialect
	}

	if len(content) == 0 {
		return syntax.DialectUnknown
	}

	// Strategy 3: highly indicative content patterns.
	if dialect := detectByPattern(content); dialect != syntax.DialectUnknown {
		return dialect
	}

	// Strategy 4: classifier restricted to the supported languages.
	if lang, safe := enry.GetLanguageByClassifier(content, []string{enryHTML, enrySCSS, enryCSS}); safe {
		return fromEnry(lang)
	}

	return syntax.DialectUnknown
}

// IsVendored reports whether path lies in a vendored or third-party
// location such as node_modules or a minified library bundle.
func IsVendored(path string) bool {
	return enry.IsVendor(path)
}

// IsGenerated reports whether the file looks machine-generated
// (minified CSS, source maps and the like).
func IsGenerated(path string, content []byte) bool {
	return enry.IsGenerated(path, content)
}

func fromEnry(lang string) syntax.Dialect {
	switch lang {
	case enryHTML:
		return syntax.DialectHTML
	case enrySCSS, enryCSS:
		return syntax.DialectSCSS
	default:
		return syntax.DialectUnknown
	}
}

func detectByPattern(content []byte) syntax.Dialect {
	trimmed := bytes.ToLower(bytes.TrimSpace(content))

	if bytes.HasPrefix(trimmed, []byte("<!doctype html")) ||
		bytes.HasPrefix(trimmed, []byte("<html")) ||
		bytes.Contains(trimmed, []byte("<body")) {
		return syntax.DialectHTML
	}

	if bytes.HasPrefix(trimmed, []byte("@use ")) ||
		bytes.HasPrefix(trimmed, []byte("@import ")) ||
		bytes.Contains(trimmed, []byte("@mixin ")) ||
		(bytes.HasPrefix(trimmed, []byte("$")) && bytes.Contains(trimmed, []byte(":"))) {
		return syntax.DialectSCSS
	}

	return syntax.DialectUnknown
}
