package lint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/parser/html"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

func TestNewDiagnostic_FromNode(t *testing.T) {
	t.Parallel()

	snapshot, err := html.New().Parse(context.Background(), "page.html", []byte("<p>\n  <img src=\"a\">\n</p>\n"))
	require.NoError(t, err)

	var img *syntax.Node
	for _, el := range lint.NewNodeCache(snapshot.Root).Elements() {
		if el.TagName() == "img" {
			img = el
		}
	}
	require.NotNil(t, img)

	d := lint.NewDiagnostic("HT002", img, "missing alt").
		WithSeverity(config.SeverityWarning).
		WithSuggestion("add alt").
		Build()

	assert.Equal(t, "page.html", d.FilePath)
	assert.Equal(t, 2, d.StartLine)
	assert.Equal(t, 3, d.StartColumn)
	assert.Equal(t, 2, d.EndLine)
	assert.Equal(t, 16, d.EndColumn)
	assert.Equal(t, "add alt", d.Suggestion)
}

func TestNewDiagnosticRange(t *testing.T) {
	t.Parallel()

	file := syntax.NewFileSnapshot("a.scss", syntax.DialectSCSS, []byte("ab\ncdé f"))
	d := lint.NewDiagnosticRange("ST005", file, syntax.SourceRange{StartOffset: 7, EndOffset: 8}, "m").Build()

	// 'é' is two bytes but one column.
	assert.Equal(t, syntax.SourcePosition{StartLine: 2, StartColumn: 4, EndLine: 2, EndColumn: 5}, d.SourcePosition())

	d = lint.NewDiagnosticRange("ST005", nil, syntax.SourceRange{}, "m").Build()
	assert.False(t, d.SourcePosition().IsValid())
}

func TestDiagnosticBuilder_Fixes(t *testing.T) {
	t.Parallel()

	eb := fix.NewEditBuilder()
	eb.Insert(0, "x")
	eb.Delete(1, 2)

	d := lint.NewDiagnosticAt("ST002", "a.scss", syntax.SourcePosition{StartLine: 1, StartColumn: 1}, "m").
		WithFix(eb).
		WithEdit(fix.TextEdit{StartOffset: 3, EndOffset: 3, NewText: "y"}).
		Build()
	assert.Len(t, d.FixEdits, 3)
	assert.True(t, d.HasFix())

	d = lint.NewDiagnosticAt("ST003", "a.scss", syntax.SourcePosition{}, "m").
		WithFix(eb).
		WithUnfixable().
		Build()
	assert.False(t, d.HasFix())
	assert.True(t, d.Unfixable)
}

func TestNewDiagnosticAtWithRegistry(t *testing.T) {
	t.Parallel()

	registry := lint.NewRegistry()
	registry.Register(newFuncRule("XX001", false, noop))

	d := lint.NewDiagnosticAtWithRegistry("XX001", "a.scss", syntax.SourcePosition{}, "m", registry).Build()
	assert.Equal(t, "rule-XX001", d.RuleName)
}
