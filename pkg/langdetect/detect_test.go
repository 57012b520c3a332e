package langdetect_test

import (
	"testing"

	"github.com/yaklabco/gostyle/pkg/langdetect"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

func TestDetectDialect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		content  string
		expected syntax.Dialect
	}{
		{name: "html extension", path: "index.html", expected: syntax.DialectHTML},
		{name: "htm extension", path: "legacy/page.htm", expected: syntax.DialectHTML},
		{name: "scss extension", path: "_buttons.scss", expected: syntax.DialectSCSS},
		{name: "css extension", path: "reset.css", expected: syntax.DialectSCSS},
		{name: "indented sass", path: "theme.sass", content: "$x: 1\n.a\n  b: c", expected: syntax.DialectUnknown},
		{name: "go file", path: "main.go", content: "package main", expected: syntax.DialectUnknown},
		{
			name:     "html template without telling extension",
			path:     "layout.tmpl",
			content:  "<!DOCTYPE html>\n<html><body></body></html>",
			expected: syntax.DialectHTML,
		},
		{
			name:     "scss partial without extension",
			path:     "partials/vars",
			content:  "$brand: #333;\n.a { color: $brand; }",
			expected: syntax.DialectSCSS,
		},
		{name: "empty unknown", path: "LICENSE", expected: syntax.DialectUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := langdetect.DetectDialect(tt.path, []byte(tt.content))
			if got != tt.expected {
				t.Errorf("DetectDialect(%q) = %s, want %s", tt.path, got, tt.expected)
			}
		})
	}
}

func TestIsVendored(t *testing.T) {
	t.Parallel()

	if !langdetect.IsVendored("node_modules/bootstrap/scss/_buttons.scss") {
		t.Error("expected node_modules path to be vendored")
	}
	if langdetect.IsVendored("src/styles/_buttons.scss") {
		t.Error("expected project path not to be vendored")
	}
}
