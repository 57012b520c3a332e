package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
)

func TestTrailingWhitespaceRule(t *testing.T) {
	tests := []ruleCase{
		{
			name:      "no trailing whitespace",
			path:      "a.html",
			input:     "<p>Hello</p>\n<p>World</p>\n",
			wantDiags: 0,
		},
		{
			name:      "single trailing space",
			path:      "a.html",
			input:     "<p>Hello</p> \n",
			wantDiags: 1,
			wantFix:   "<p>Hello</p>\n",
		},
		{
			name:      "trailing tab in scss",
			path:      "a.scss",
			input:     ".a {\t\n    color: red;\n}\n",
			wantDiags: 1,
			wantFix:   ".a {\n    color: red;\n}\n",
		},
		{
			name:      "mixed trailing whitespace",
			path:      "a.scss",
			input:     ".a { color: red; } \t \n",
			wantDiags: 1,
			wantFix:   ".a { color: red; }\n",
		},
		{
			name:      "multiple lines",
			path:      "a.scss",
			input:     ".a { \n    color: red;  \n}\n",
			wantDiags: 2,
			wantFix:   ".a {\n    color: red;\n}\n",
		},
		{
			name:      "whitespace only line",
			path:      "a.html",
			input:     "<p>a</p>\n   \n<p>b</p>\n",
			wantDiags: 1,
			wantFix:   "<p>a</p>\n\n<p>b</p>\n",
		},
		{
			name:      "empty line is not flagged",
			path:      "a.html",
			input:     "<p>a</p>\n\n<p>b</p>\n",
			wantDiags: 0,
		},
		{
			name:      "pre content is kept",
			path:      "a.html",
			input:     "<pre>a  \nb</pre>\n",
			wantDiags: 0,
		},
		{
			name:      "textarea content is kept",
			path:      "a.html",
			input:     "<textarea>a \n</textarea>\n",
			wantDiags: 0,
		},
		{
			name:      "after pre is checked",
			path:      "a.html",
			input:     "<pre>a  \nb</pre> \n",
			wantDiags: 1,
			wantFix:   "<pre>a  \nb</pre>\n",
		},
		{
			name:      "empty file",
			path:      "a.scss",
			input:     "",
			wantDiags: 0,
		},
	}

	checkRuleCases(t, NewTrailingWhitespaceRule(), tests)
}

func TestTrailingWhitespaceRule_Position(t *testing.T) {
	diags := runRule(t, NewTrailingWhitespaceRule(), ruleCase{path: "a.scss", input: "$a: 1;\n$b: 2;  \n"})
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "Trailing whitespace", d.Message)
	assert.Equal(t, 2, d.StartLine)
	assert.Equal(t, 7, d.StartColumn)
	assert.Equal(t, 2, d.EndLine)
	assert.Equal(t, 9, d.EndColumn)
}

func TestFinalNewlineRule(t *testing.T) {
	tests := []ruleCase{
		{
			name:      "ends with newline",
			path:      "a.html",
			input:     "<p>x</p>\n",
			wantDiags: 0,
		},
		{
			name:      "missing newline",
			path:      "a.html",
			input:     "<p>x</p>",
			wantDiags: 1,
			wantFix:   "<p>x</p>\n",
		},
		{
			name:      "missing newline in crlf file",
			path:      "a.scss",
			input:     "$a: 1;\r\n$b: 2;",
			wantDiags: 1,
			wantFix:   "$a: 1;\r\n$b: 2;\r\n",
		},
		{
			name:      "extra blank lines",
			path:      "a.scss",
			input:     ".a {}\n\n\n",
			wantDiags: 1,
			wantFix:   ".a {}\n",
		},
		{
			name:      "trailing blank line with spaces",
			path:      "a.scss",
			input:     ".a {}\n   \n",
			wantDiags: 1,
			wantFix:   ".a {}\n",
		},
		{
			name:      "empty file",
			path:      "a.html",
			input:     "",
			wantDiags: 0,
		},
		{
			name:      "whitespace only file",
			path:      "a.html",
			input:     "\n\n",
			wantDiags: 0,
		},
	}

	checkRuleCases(t, NewFinalNewlineRule(), tests)
}

func TestFinalNewlineRule_Messages(t *testing.T) {
	rule := NewFinalNewlineRule()

	diags := runRule(t, rule, ruleCase{path: "a.html", input: "<p>x</p>"})
	require.Len(t, diags, 1)
	assert.Equal(t, "File should end with a newline", diags[0].Message)
	assert.Equal(t, 1, diags[0].StartLine)
	assert.Equal(t, 9, diags[0].StartColumn)

	diags = runRule(t, rule, ruleCase{path: "a.html", input: "<p>x</p>\n\n"})
	require.Len(t, diags, 1)
	assert.Equal(t, "File should end with a single newline", diags[0].Message)
}

func TestWhitespaceRules_Metadata(t *testing.T) {
	trailing := NewTrailingWhitespaceRule()
	assert.Equal(t, "ST005", trailing.ID())
	assert.Equal(t, "no-trailing-spaces", trailing.Name())
	assert.Contains(t, trailing.Tags(), "whitespace")
	assert.True(t, trailing.CanFix())
	assert.True(t, trailing.DefaultEnabled())
	assert.Equal(t, config.SeverityWarning, trailing.DefaultSeverity())

	final := NewFinalNewlineRule()
	assert.Equal(t, "ST006", final.ID())
	assert.Equal(t, "final-newline", final.Name())
	assert.True(t, final.CanFix())
	assert.Equal(t, config.SeverityWarning, final.DefaultSeverity())
}
