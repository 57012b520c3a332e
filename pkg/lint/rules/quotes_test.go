package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
)

func singleQuotes(s *config.StyleConfig) { s.QuoteStyle = config.QuoteSingle }

func TestQuoteStyleRule_HTML(t *testing.T) {
	tests := []ruleCase{
		{
			name:      "double quoted",
			path:      "a.html",
			input:     "<a href=\"x\">y</a>\n",
			wantDiags: 0,
		},
		{
			name:      "single quoted",
			path:      "a.html",
			input:     "<a href='x'>y</a>\n",
			wantDiags: 1,
			wantFix:   "<a href=\"x\">y</a>\n",
		},
		{
			name:      "unquoted",
			path:      "a.html",
			input:     "<a href=x>y</a>\n",
			wantDiags: 1,
			wantFix:   "<a href=\"x\">y</a>\n",
		},
		{
			name:      "unquoted before self close",
			path:      "a.html",
			input:     "<img src=a.png alt=\"\"/>\n",
			wantDiags: 1,
			wantFix:   "<img src=\"a.png\" alt=\"\"/>\n",
		},
		{
			name:      "value containing the target quote",
			path:      "a.html",
			input:     "<a title='say \"hi\"'>y</a>\n",
			wantDiags: 1,
			wantFix:   "<a title=\"say &quot;hi&quot;\">y</a>\n",
		},
		{
			name:      "several attributes",
			path:      "a.html",
			input:     "<a class='b' href='c'>y</a>\n",
			wantDiags: 2,
			wantFix:   "<a class=\"b\" href=\"c\">y</a>\n",
		},
		{
			name:      "attribute without value",
			path:      "a.html",
			input:     "<input disabled/>\n",
			wantDiags: 0,
		},
		{
			name:      "single style",
			path:      "a.html",
			input:     "<a href=\"x\" title='t'>y</a>\n",
			wantDiags: 1,
			wantFix:   "<a href='x' title='t'>y</a>\n",
			style:     singleQuotes,
		},
		{
			name:      "single style escapes apostrophes",
			path:      "a.html",
			input:     "<a title=\"it's\">y</a>\n",
			wantDiags: 1,
			wantFix:   "<a title='it&#39;s'>y</a>\n",
			style:     singleQuotes,
		},
	}

	checkRuleCases(t, NewQuoteStyleRule(), tests)
}

func TestQuoteStyleRule_SCSS(t *testing.T) {
	tests := []ruleCase{
		{
			name:      "double quoted",
			path:      "a.scss",
			input:     ".a { content: \"x\"; }\n",
			wantDiags: 0,
		},
		{
			name:      "single quoted",
			path:      "a.scss",
			input:     ".a { content: 'x'; }\n",
			wantDiags: 1,
			wantFix:   ".a { content: \"x\"; }\n",
		},
		{
			name:      "body with the target quote",
			path:      "a.scss",
			input:     ".a { content: 'say \"hi\"'; }\n",
			wantDiags: 1,
			wantFix:   ".a { content: \"say \\\"hi\\\"\"; }\n",
		},
		{
			name:      "escaped old quote",
			path:      "a.scss",
			input:     ".a { content: 'it\\'s'; }\n",
			wantDiags: 1,
			wantFix:   ".a { content: \"it's\"; }\n",
		},
		{
			name:      "import",
			path:      "a.scss",
			input:     "@import 'base';\n",
			wantDiags: 1,
			wantFix:   "@import \"base\";\n",
		},
		{
			name:      "selector string",
			path:      "a.scss",
			input:     "a[href='x'] {}\n",
			wantDiags: 1,
			wantFix:   "a[href=\"x\"] {}\n",
		},
		{
			name:      "variable",
			path:      "a.scss",
			input:     "$font: 'Helvetica';\n",
			wantDiags: 1,
			wantFix:   "$font: \"Helvetica\";\n",
		},
		{
			name:      "quote inside comment is ignored",
			path:      "a.scss",
			input:     "// it's fine\n.a {}\n",
			wantDiags: 0,
		},
		{
			name:      "single style",
			path:      "a.scss",
			input:     ".a { content: \"x\"; }\n",
			wantDiags: 1,
			wantFix:   ".a { content: 'x'; }\n",
			style:     singleQuotes,
		},
	}

	checkRuleCases(t, NewQuoteStyleRule(), tests)
}

func TestQuoteStyleRule_TemplateMarkers(t *testing.T) {
	rule := NewQuoteStyleRule()

	tests := []ruleCase{
		{name: "html template", path: "a.html", input: "<a title='{{ \"x\" }}'>y</a>\n"},
		{name: "scss interpolation", path: "a.scss", input: ".a { content: '#{$x} \"y\"'; }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := runRule(t, rule, tt)
			require.Len(t, diags, 1)
			assert.True(t, diags[0].Unfixable)
			assert.False(t, diags[0].HasFix())
		})
	}
}

func TestQuoteStyleRule_TemplateWithoutConflict(t *testing.T) {
	diags := runRule(t, NewQuoteStyleRule(), ruleCase{path: "a.html", input: "<a title='{{ x }}'>y</a>\n"})
	require.Len(t, diags, 1)
	assert.True(t, diags[0].HasFix())
}

func TestQuoteStyleRule_Messages(t *testing.T) {
	rule := NewQuoteStyleRule()

	diags := runRule(t, rule, ruleCase{path: "a.html", input: "<a href='x' id=y>z</a>\n"})
	require.Len(t, diags, 2)
	assert.Equal(t, "Attribute \"href\" should use double quotes", diags[0].Message)
	assert.Equal(t, 1, diags[0].StartLine)
	assert.Equal(t, 9, diags[0].StartColumn)
	assert.Equal(t, "Attribute \"id\" value should be quoted with double quotes", diags[1].Message)

	diags = runRule(t, rule, ruleCase{path: "a.scss", input: "$a: 'x';\n"})
	require.Len(t, diags, 1)
	assert.Equal(t, "String should use double quotes", diags[0].Message)
	assert.Equal(t, 5, diags[0].StartColumn)
}

func TestSwapSCSSQuotes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		from   byte
		to     byte
		want   string
		wantOK bool
	}{
		{name: "plain", body: "abc", from: '\'', to: '"', want: "abc", wantOK: true},
		{name: "escape new quote", body: `a"b`, from: '\'', to: '"', want: `a\"b`, wantOK: true},
		{name: "drop old escape", body: `a\'b`, from: '\'', to: '"', want: `a'b`, wantOK: true},
		{name: "keep other escapes", body: `a\\b`, from: '\'', to: '"', want: `a\\b`, wantOK: true},
		{name: "interpolation with quote", body: `#{"x"}`, from: '\'', to: '"', wantOK: false},
		{name: "interpolation without quote", body: `#{x}`, from: '\'', to: '"', want: `#{x}`, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := swapSCSSQuotes(tt.body, tt.from, tt.to)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
